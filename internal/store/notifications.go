package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/servis/internal/model"
)

// RecordNotification appends one attempted send to the delivery log.
func RecordNotification(ctx context.Context, db *sql.DB, phone, kind, message, status string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO notifications (phone, kind, message, status) VALUES (?, ?, ?, ?)`,
		phone, kind, message, status,
	)
	if err != nil {
		return fmt.Errorf("recording notification: %w", err)
	}
	return nil
}

// ListNotifications returns the delivery log, newest first, optionally
// filtered by phone number.
func ListNotifications(ctx context.Context, db *sql.DB, phone string) ([]model.Notification, error) {
	query := `SELECT id, phone, kind, message, status, created_at FROM notifications`
	var args []any
	if phone != "" {
		query += ` WHERE phone = ?`
		args = append(args, phone)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Phone, &n.Kind, &n.Message, &n.Status, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
