package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/servis/internal/imaging"
	"github.com/erazemk/servis/internal/model"
	"github.com/erazemk/servis/internal/store"
)

// OrdersHandler handles service order endpoints.
type OrdersHandler struct {
	DB *sql.DB
}

type createOrderRequest struct {
	ClientID           *int64 `json:"client_id"`
	QueueItemID        *int64 `json:"queue_item_id"`
	EquipmentType      string `json:"equipment_type"`
	EquipmentDesc      string `json:"equipment_description"`
	ProblemDescription string `json:"problem_description"`
}

type updateOrderRequest struct {
	EquipmentType      string `json:"equipment_type"`
	EquipmentDesc      string `json:"equipment_description"`
	ProblemDescription string `json:"problem_description"`
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

// List handles GET /api/orders.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !model.ValidOrderStatus(status) {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid status filter")
		return
	}

	orders, err := store.ListOrders(r.Context(), h.DB, status)
	if err != nil {
		slog.Error("failed to list orders", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal", "failed to list orders")
		return
	}
	if orders == nil {
		orders = []model.ServiceOrder{}
	}
	jsonOK(w, http.StatusOK, map[string]any{"orders": orders})
}

// Create handles POST /api/orders.
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.EquipmentType == "" {
		jsonValidationError(w, map[string]string{"equipment_type": "required"})
		return
	}

	in := store.CreateOrderInput{
		ClientID:           req.ClientID,
		QueueItemID:        req.QueueItemID,
		EquipmentType:      req.EquipmentType,
		EquipmentDesc:      req.EquipmentDesc,
		ProblemDescription: req.ProblemDescription,
	}
	if claims := GetClaims(r.Context()); claims != nil {
		in.CreatedBy = &claims.UserID
	}

	order, err := store.CreateOrder(r.Context(), h.DB, in)
	if err != nil {
		slog.Error("failed to create order", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal", "failed to create order")
		return
	}

	slog.Info("service order created", "reference", order.Reference)
	jsonOK(w, http.StatusCreated, map[string]any{"order": order})
}

// Get handles GET /api/orders/{id}.
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid order id")
		return
	}

	order, err := store.GetOrder(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal", "failed to get order")
		return
	}
	if order == nil {
		jsonError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	jsonOK(w, http.StatusOK, map[string]any{"order": order})
}

// Update handles PUT /api/orders/{id}.
func (h *OrdersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid order id")
		return
	}

	var req updateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.EquipmentType == "" {
		jsonValidationError(w, map[string]string{"equipment_type": "required"})
		return
	}

	if err := store.UpdateOrder(r.Context(), h.DB, id, req.EquipmentType, req.EquipmentDesc, req.ProblemDescription); err != nil {
		slog.Error("failed to update order", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal", "failed to update order")
		return
	}

	order, _ := store.GetOrder(r.Context(), h.DB, id)
	jsonOK(w, http.StatusOK, map[string]any{"order": order})
}

// UpdateStatus handles PATCH /api/orders/{id}/status.
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid order id")
		return
	}

	var req orderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if !model.ValidOrderStatus(req.Status) {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid status")
		return
	}

	order, err := store.GetOrder(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal", "failed to get order")
		return
	}
	if order == nil || order.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	if err := store.UpdateOrderStatus(r.Context(), h.DB, id, req.Status); err != nil {
		slog.Error("failed to update order status", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal", "failed to update order status")
		return
	}

	order, _ = store.GetOrder(r.Context(), h.DB, id)
	jsonOK(w, http.StatusOK, map[string]any{"order": order})
}

// Delete handles DELETE /api/orders/{id}.
func (h *OrdersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid order id")
		return
	}

	if err := store.DeleteOrder(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete order", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal", "failed to delete order")
		return
	}
	jsonOK(w, http.StatusOK, nil)
}

// UploadPhoto handles PUT /api/orders/{id}/photo.
func (h *OrdersHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid order id")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "photo file required")
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	if err := store.SetOrderPhoto(r.Context(), h.DB, id, result.Data, result.MIME); err != nil {
		slog.Error("failed to save photo", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal", "failed to save photo")
		return
	}
	jsonOK(w, http.StatusOK, nil)
}

// GetPhoto handles GET /api/orders/{id}/photo.
func (h *OrdersHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid order id")
		return
	}

	data, mime, err := store.GetOrderPhoto(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal", "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "not_found", "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
