package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/servis/internal/model"
	"github.com/erazemk/servis/internal/queue"
	"github.com/erazemk/servis/internal/store"
)

// QueueHandler handles the equipment opening queue endpoints.
type QueueHandler struct {
	Engine *queue.Engine
}

type enqueueRequest struct {
	ClientID             *int64 `json:"client_id"`
	ClientName           string `json:"client_name"`
	ContactPhone         string `json:"contact_phone"`
	EquipmentType        string `json:"equipment_type"`
	EquipmentDescription string `json:"equipment_description"`
	ArrivalDate          string `json:"arrival_date"` // RFC 3339, optional
	Notes                string `json:"notes"`
}

// List handles GET /api/queue.
func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Engine.List(r.Context())
	if err != nil {
		slog.Error("failed to list queue", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal", "failed to list queue")
		return
	}
	if items == nil {
		items = []model.QueueItem{}
	}
	jsonOK(w, http.StatusOK, map[string]any{"items": items})
}

// Enqueue handles POST /api/queue.
func (h *QueueHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req enqueueRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	var arrival time.Time
	if req.ArrivalDate != "" {
		var err error
		arrival, err = time.Parse(time.RFC3339, req.ArrivalDate)
		if err != nil {
			jsonValidationError(w, map[string]string{"arrival_date": "must be RFC 3339"})
			return
		}
	}

	item, err := h.Engine.Enqueue(r.Context(), queue.EnqueueInput{
		ClientID:             req.ClientID,
		ClientName:           req.ClientName,
		ContactPhone:         req.ContactPhone,
		EquipmentType:        req.EquipmentType,
		EquipmentDescription: req.EquipmentDescription,
		ArrivalDate:          arrival,
		Notes:                req.Notes,
	})
	if err != nil {
		var verr *queue.ValidationError
		if errors.As(err, &verr) {
			jsonValidationError(w, verr.Fields)
			return
		}
		slog.Error("failed to enqueue", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal", "failed to enqueue")
		return
	}

	slog.Info("equipment enqueued", "id", item.ID, "position", item.PositionIndex)
	jsonOK(w, http.StatusCreated, map[string]any{"item": item})
}

// Open handles PATCH /api/queue/{id}/open.
func (h *QueueHandler) Open(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid queue item id")
		return
	}

	item, err := h.Engine.OpenNext(r.Context(), id)
	switch {
	case errors.Is(err, queue.ErrNotFound):
		jsonError(w, http.StatusBadRequest, "not_found", "queue item not found")
		return
	case errors.Is(err, queue.ErrAlreadyOpened):
		jsonError(w, http.StatusBadRequest, "already_opened", "queue item already opened")
		return
	case err != nil:
		slog.Error("failed to open queue item", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal", "failed to open queue item")
		return
	}

	slog.Info("queue item opened", "id", id)
	jsonOK(w, http.StatusOK, map[string]any{"item": item})
}

// Delete handles DELETE /api/queue/{id} (admin only).
func (h *QueueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid queue item id")
		return
	}

	if err := h.Engine.Remove(r.Context(), id); err != nil {
		if errors.Is(err, queue.ErrNotFound) {
			jsonError(w, http.StatusBadRequest, "not_found", "queue item not found")
			return
		}
		slog.Error("failed to delete queue item", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal", "failed to delete queue item")
		return
	}

	slog.Info("queue item deleted", "id", id)
	jsonOK(w, http.StatusOK, nil)
}

// NotificationsHandler exposes the outbound delivery log.
type NotificationsHandler struct {
	DB *sql.DB
}

// List handles GET /api/notifications.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	notifications, err := store.ListNotifications(r.Context(), h.DB, phone)
	if err != nil {
		slog.Error("failed to list notifications", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal", "failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	jsonOK(w, http.StatusOK, map[string]any{"notifications": notifications})
}
