// Package queue implements the equipment opening queue: FIFO admission
// ordering over intake requests, live position indices, and position-change
// notifications. Every mutation runs its read-recompute-write sequence in a
// single immediate transaction so concurrent operations serialize instead of
// interleaving (the position invariant spans the whole pending set).
package queue

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/erazemk/servis/internal/model"
	"github.com/erazemk/servis/internal/notify"
	"github.com/erazemk/servis/internal/store"
)

// Engine maintains the pending-queue ordering invariant and drives opening
// transitions. Notifications go through the injected gateway and are
// best-effort: a failed send is logged, never surfaced to the caller.
type Engine struct {
	DB       *sql.DB
	Notifier notify.Gateway
}

// EnqueueInput holds the fields accepted when registering equipment for intake.
type EnqueueInput struct {
	ClientID             *int64
	ClientName           string
	ContactPhone         string
	EquipmentType        string
	EquipmentDescription string
	ArrivalDate          time.Time // zero value means "now"
	Notes                string
}

func (in *EnqueueInput) validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(in.ClientName) == "" {
		fields["client_name"] = "required"
	}
	if strings.TrimSpace(in.ContactPhone) == "" {
		fields["contact_phone"] = "required"
	}
	if strings.TrimSpace(in.EquipmentType) == "" {
		fields["equipment_type"] = "required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Enqueue registers a new piece of equipment and recomputes positions for
// the whole pending set. The new item is not necessarily last: an earlier
// arrival date inserts it ahead of later arrivals. The created item carries
// its final position index.
func (e *Engine) Enqueue(ctx context.Context, in EnqueueInput) (*model.QueueItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	arrival := in.ArrivalDate
	if arrival.IsZero() {
		arrival = time.Now().UTC()
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning enqueue transaction: %w", err)
	}
	defer tx.Rollback()

	created, err := store.InsertQueueItem(ctx, tx, &model.QueueItem{
		ClientID:             in.ClientID,
		ClientName:           strings.TrimSpace(in.ClientName),
		ContactPhone:         strings.TrimSpace(in.ContactPhone),
		EquipmentType:        strings.TrimSpace(in.EquipmentType),
		EquipmentDescription: in.EquipmentDescription,
		ArrivalDate:          arrival,
		Notes:                in.Notes,
	})
	if err != nil {
		return nil, err
	}

	pending, err := store.ListQueueItems(ctx, tx, model.QueueStatusPending)
	if err != nil {
		return nil, err
	}
	if err := persistRanks(ctx, tx, pending); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing enqueue: %w", err)
	}

	created.PositionIndex = rankPending(pending)[created.ID]

	// Ahead count on the intake receipt counts strictly earlier arrivals,
	// so same-instant arrivals don't inflate each other's count.
	ahead := 0
	for _, item := range pending {
		if item.ID != created.ID && item.ArrivalDate.Before(created.ArrivalDate) {
			ahead++
		}
	}
	if err := e.Notifier.NotifyWaiting(ctx, created.ContactPhone, created.ClientName, created.EquipmentType, ahead); err != nil {
		slog.Error("waiting notification failed", "phone", created.ContactPhone, "error", err)
	}

	return created, nil
}

// OpenNext marks a pending item as opened, freezes its position index as
// history, recomputes the remaining pending set, and notifies the opened
// client plus every client whose position improved.
func (e *Engine) OpenNext(ctx context.Context, id int64) (*model.QueueItem, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning open transaction: %w", err)
	}
	defer tx.Rollback()

	target, err := store.GetQueueItem(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}
	if target.Status == model.QueueStatusOpened {
		return nil, ErrAlreadyOpened
	}

	pending, err := store.ListQueueItems(ctx, tx, model.QueueStatusPending)
	if err != nil {
		return nil, err
	}
	before := rankPending(pending)

	opened, err := store.MarkQueueOpened(ctx, tx, id, before[id])
	if err != nil {
		return nil, err
	}
	if !opened {
		return nil, ErrAlreadyOpened
	}

	remaining := make([]model.QueueItem, 0, len(pending)-1)
	for _, item := range pending {
		if item.ID != id {
			remaining = append(remaining, item)
		}
	}
	after := rankPending(remaining)
	if err := persistRanks(ctx, tx, remaining); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing open: %w", err)
	}

	if err := e.Notifier.NotifyOpened(ctx, target.ContactPhone, target.ClientName, equipmentLabel(target)); err != nil {
		slog.Error("opened notification failed", "phone", target.ContactPhone, "error", err)
	}

	// Only items that moved up get a position update. Everything that was
	// ahead of the opened item kept its rank and stays quiet.
	movedUp := make([]model.QueueItem, 0, len(remaining))
	for _, item := range remaining {
		if after[item.ID] < before[item.ID] {
			movedUp = append(movedUp, item)
		}
	}
	sort.Slice(movedUp, func(i, j int) bool { return after[movedUp[i].ID] < after[movedUp[j].ID] })
	for _, item := range movedUp {
		if err := e.Notifier.NotifyWaiting(ctx, item.ContactPhone, item.ClientName, item.EquipmentType, after[item.ID]); err != nil {
			slog.Error("position update notification failed", "phone", item.ContactPhone, "error", err)
		}
	}

	return store.GetQueueItem(ctx, e.DB, id)
}

// Recompute re-derives and persists position indices for the entire pending
// set. Idempotent; opened items are untouched.
func (e *Engine) Recompute(ctx context.Context) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning recompute transaction: %w", err)
	}
	defer tx.Rollback()

	pending, err := store.ListQueueItems(ctx, tx, model.QueueStatusPending)
	if err != nil {
		return err
	}
	if err := persistRanks(ctx, tx, pending); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing recompute: %w", err)
	}
	return nil
}

// List returns all queue items ordered by (arrival date, creation time).
// Pending positions are derived on read with the same ranking the mutating
// paths persist, so a missed recompute can never surface a stale index.
// Opened items keep their frozen historical index.
func (e *Engine) List(ctx context.Context) ([]model.QueueItem, error) {
	items, err := store.ListQueueItems(ctx, e.DB, "")
	if err != nil {
		return nil, err
	}

	ranks := rankPending(items)
	for i := range items {
		if items[i].Status == model.QueueStatusPending {
			items[i].PositionIndex = ranks[items[i].ID]
		}
	}
	return items, nil
}

// Remove deletes a queue item entirely and recomputes the pending set.
// Administrative escape hatch; no notifications are sent.
func (e *Engine) Remove(ctx context.Context, id int64) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning remove transaction: %w", err)
	}
	defer tx.Rollback()

	deleted, err := store.DeleteQueueItem(ctx, tx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	pending, err := store.ListQueueItems(ctx, tx, model.QueueStatusPending)
	if err != nil {
		return err
	}
	if err := persistRanks(ctx, tx, pending); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing remove: %w", err)
	}
	return nil
}

// persistRanks writes back every pending item whose stored position index no
// longer matches its derived rank.
func persistRanks(ctx context.Context, q store.DBTX, items []model.QueueItem) error {
	ranks := rankPending(items)
	for _, item := range items {
		if item.Status != model.QueueStatusPending {
			continue
		}
		if rank := ranks[item.ID]; rank != item.PositionIndex {
			if err := store.SetQueuePosition(ctx, q, item.ID, rank); err != nil {
				return err
			}
		}
	}
	return nil
}

// equipmentLabel renders "type (description)" for notification texts.
func equipmentLabel(item *model.QueueItem) string {
	if item.EquipmentDescription != "" {
		return item.EquipmentType + " (" + item.EquipmentDescription + ")"
	}
	return item.EquipmentType
}
