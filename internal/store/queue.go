package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/servis/internal/model"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx, so queue
// accessors can run standalone or inside the engine's transactions.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// InsertQueueItem inserts a new pending queue item and returns it.
func InsertQueueItem(ctx context.Context, q DBTX, item *model.QueueItem) (*model.QueueItem, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO queue_items
		     (client_id, client_name, contact_phone, equipment_type, equipment_description, arrival_date, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ClientID, item.ClientName, item.ContactPhone, item.EquipmentType,
		item.EquipmentDescription, item.ArrivalDate, item.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting queue item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting queue item id: %w", err)
	}

	return GetQueueItem(ctx, q, id)
}

// GetQueueItem returns a queue item by ID.
func GetQueueItem(ctx context.Context, q DBTX, id int64) (*model.QueueItem, error) {
	item := &model.QueueItem{}
	var description, notes sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT id, client_id, client_name, contact_phone, equipment_type, equipment_description,
		        arrival_date, notes, status, position_index, created_at, updated_at
		 FROM queue_items WHERE id = ?`, id,
	).Scan(&item.ID, &item.ClientID, &item.ClientName, &item.ContactPhone, &item.EquipmentType,
		&description, &item.ArrivalDate, &notes, &item.Status, &item.PositionIndex,
		&item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting queue item: %w", err)
	}
	item.EquipmentDescription = description.String
	item.Notes = notes.String
	return item, nil
}

// ListQueueItems returns all queue items, optionally filtered by status,
// ordered by (arrival_date, created_at, id).
func ListQueueItems(ctx context.Context, q DBTX, status string) ([]model.QueueItem, error) {
	query := `SELECT id, client_id, client_name, contact_phone, equipment_type, equipment_description,
	                 arrival_date, notes, status, position_index, created_at, updated_at
	          FROM queue_items`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY arrival_date, created_at, id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing queue items: %w", err)
	}
	defer rows.Close()

	var items []model.QueueItem
	for rows.Next() {
		var item model.QueueItem
		var description, notes sql.NullString
		if err := rows.Scan(&item.ID, &item.ClientID, &item.ClientName, &item.ContactPhone,
			&item.EquipmentType, &description, &item.ArrivalDate, &notes, &item.Status,
			&item.PositionIndex, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning queue item: %w", err)
		}
		item.EquipmentDescription = description.String
		item.Notes = notes.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// SetQueuePosition persists a queue item's position index.
func SetQueuePosition(ctx context.Context, q DBTX, id int64, position int) error {
	_, err := q.ExecContext(ctx,
		`UPDATE queue_items SET position_index = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		position, id,
	)
	if err != nil {
		return fmt.Errorf("setting queue position: %w", err)
	}
	return nil
}

// MarkQueueOpened flips a pending item to opened, freezing its final
// position index. Returns false if the item was not pending.
func MarkQueueOpened(ctx context.Context, q DBTX, id int64, finalPosition int) (bool, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE queue_items SET status = ?, position_index = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.QueueStatusOpened, finalPosition, id, model.QueueStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("marking queue item opened: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking opened rows: %w", err)
	}
	return n == 1, nil
}

// DeleteQueueItem removes a queue item entirely. Administrative use only.
func DeleteQueueItem(ctx context.Context, q DBTX, id int64) (bool, error) {
	result, err := q.ExecContext(ctx, `DELETE FROM queue_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting queue item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking deleted rows: %w", err)
	}
	return n == 1, nil
}
