package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"

	"github.com/erazemk/servis/internal/model"
)

// CreateOrderInput holds the fields accepted when opening a service order.
type CreateOrderInput struct {
	ClientID           *int64
	QueueItemID        *int64
	EquipmentType      string
	EquipmentDesc      string
	ProblemDescription string
	CreatedBy          *int64
}

// CreateOrder creates a service order with a generated reference code.
func CreateOrder(ctx context.Context, db *sql.DB, in CreateOrderInput) (*model.ServiceOrder, error) {
	reference, err := generateReference()
	if err != nil {
		return nil, fmt.Errorf("generating order reference: %w", err)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO service_orders
		     (reference, client_id, queue_item_id, equipment_type, equipment_desc, problem_description, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reference, in.ClientID, in.QueueItemID, in.EquipmentType, in.EquipmentDesc,
		in.ProblemDescription, in.CreatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("creating service order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting service order id: %w", err)
	}

	return GetOrder(ctx, db, id)
}

// GetOrder returns a service order by ID.
func GetOrder(ctx context.Context, db *sql.DB, id int64) (*model.ServiceOrder, error) {
	o := &model.ServiceOrder{}
	var equipmentDesc, problem, photoMime, clientName sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT o.id, o.reference, o.client_id, o.queue_item_id, o.equipment_type, o.equipment_desc,
		        o.problem_description, o.photo_mime, o.status, o.created_by,
		        o.created_at, o.updated_at, o.deleted_at, c.name
		 FROM service_orders o
		 LEFT JOIN clients c ON c.id = o.client_id
		 WHERE o.id = ?`, id,
	).Scan(&o.ID, &o.Reference, &o.ClientID, &o.QueueItemID, &o.EquipmentType, &equipmentDesc,
		&problem, &photoMime, &o.Status, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt,
		&clientName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting service order: %w", err)
	}
	o.EquipmentDesc = equipmentDesc.String
	o.ProblemDescription = problem.String
	o.PhotoMime = photoMime.String
	o.ClientName = clientName.String
	return o, nil
}

// ListOrders returns all non-deleted service orders, optionally filtered by status.
func ListOrders(ctx context.Context, db *sql.DB, status string) ([]model.ServiceOrder, error) {
	query := `SELECT o.id, o.reference, o.client_id, o.queue_item_id, o.equipment_type, o.equipment_desc,
	                 o.problem_description, o.photo_mime, o.status, o.created_by,
	                 o.created_at, o.updated_at, o.deleted_at, c.name
	          FROM service_orders o
	          LEFT JOIN clients c ON c.id = o.client_id
	          WHERE o.deleted_at IS NULL`
	var args []any
	if status != "" {
		query += ` AND o.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY o.created_at DESC, o.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing service orders: %w", err)
	}
	defer rows.Close()

	var orders []model.ServiceOrder
	for rows.Next() {
		var o model.ServiceOrder
		var equipmentDesc, problem, photoMime, clientName sql.NullString
		if err := rows.Scan(&o.ID, &o.Reference, &o.ClientID, &o.QueueItemID, &o.EquipmentType,
			&equipmentDesc, &problem, &photoMime, &o.Status, &o.CreatedBy,
			&o.CreatedAt, &o.UpdatedAt, &o.DeletedAt, &clientName); err != nil {
			return nil, fmt.Errorf("scanning service order: %w", err)
		}
		o.EquipmentDesc = equipmentDesc.String
		o.ProblemDescription = problem.String
		o.PhotoMime = photoMime.String
		o.ClientName = clientName.String
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// UpdateOrderStatus updates a service order's workflow status.
func UpdateOrderStatus(ctx context.Context, db *sql.DB, id int64, status string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE service_orders SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating service order status: %w", err)
	}
	return nil
}

// UpdateOrder updates a service order's editable fields.
func UpdateOrder(ctx context.Context, db *sql.DB, id int64, equipmentType, equipmentDesc, problem string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE service_orders
		 SET equipment_type = ?, equipment_desc = ?, problem_description = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		equipmentType, equipmentDesc, problem, id,
	)
	if err != nil {
		return fmt.Errorf("updating service order: %w", err)
	}
	return nil
}

// DeleteOrder soft-deletes a service order.
func DeleteOrder(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE service_orders SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting service order: %w", err)
	}
	return nil
}

// SetOrderPhoto sets a service order's intake photo.
func SetOrderPhoto(ctx context.Context, db *sql.DB, id int64, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE service_orders SET photo = ?, photo_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting order photo: %w", err)
	}
	return nil
}

// GetOrderPhoto returns a service order's intake photo and MIME type.
func GetOrderPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM service_orders WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting order photo: %w", err)
	}
	return photo, mime.String, nil
}

// generateReference creates a short random order reference like "SO-4F2A9C".
func generateReference() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("SO-%X", buf), nil
}
