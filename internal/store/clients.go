package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/servis/internal/model"
)

// CreateClient creates a new client record.
func CreateClient(ctx context.Context, db *sql.DB, name, phone, email, notes string) (*model.Client, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO clients (name, phone, email, notes) VALUES (?, ?, ?, ?)`,
		name, phone, email, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting client id: %w", err)
	}

	return GetClient(ctx, db, id)
}

// GetClient returns a client by ID.
func GetClient(ctx context.Context, db *sql.DB, id int64) (*model.Client, error) {
	c := &model.Client{}
	var email, notes sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, phone, email, notes, created_at, deleted_at
		 FROM clients WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Phone, &email, &notes, &c.CreatedAt, &c.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting client: %w", err)
	}
	c.Email = email.String
	c.Notes = notes.String
	return c, nil
}

// ListClients returns all non-deleted clients, optionally filtered by a
// case-insensitive name or phone substring.
func ListClients(ctx context.Context, db *sql.DB, search string) ([]model.Client, error) {
	query := `SELECT id, name, phone, email, notes, created_at, deleted_at
	          FROM clients WHERE deleted_at IS NULL`
	var args []any
	if search != "" {
		query += ` AND (name LIKE ? COLLATE NOCASE OR phone LIKE ?)`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		var c model.Client
		var email, notes sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &email, &notes, &c.CreatedAt, &c.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}
		c.Email = email.String
		c.Notes = notes.String
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// UpdateClient updates a client's details.
func UpdateClient(ctx context.Context, db *sql.DB, id int64, name, phone, email, notes string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE clients SET name = ?, phone = ?, email = ?, notes = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		name, phone, email, notes, id,
	)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}
	return nil
}

// DeleteClient soft-deletes a client. Queue items and service orders keep
// their denormalized snapshot of the client's details.
func DeleteClient(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE clients SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	return nil
}
