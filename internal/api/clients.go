package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/servis/internal/model"
	"github.com/erazemk/servis/internal/store"
)

// ClientsHandler handles client CRUD endpoints.
type ClientsHandler struct {
	DB *sql.DB
}

type clientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

func (req *clientRequest) validate() map[string]string {
	fields := make(map[string]string)
	if req.Name == "" {
		fields["name"] = "required"
	}
	if req.Phone == "" {
		fields["phone"] = "required"
	}
	return fields
}

// List handles GET /api/clients.
func (h *ClientsHandler) List(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	clients, err := store.ListClients(r.Context(), h.DB, search)
	if err != nil {
		slog.Error("failed to list clients", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal", "failed to list clients")
		return
	}
	if clients == nil {
		clients = []model.Client{}
	}
	jsonOK(w, http.StatusOK, map[string]any{"clients": clients})
}

// Create handles POST /api/clients.
func (h *ClientsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		jsonValidationError(w, fields)
		return
	}

	client, err := store.CreateClient(r.Context(), h.DB, req.Name, req.Phone, req.Email, req.Notes)
	if err != nil {
		slog.Error("failed to create client", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal", "failed to create client")
		return
	}
	jsonOK(w, http.StatusCreated, map[string]any{"client": client})
}

// Get handles GET /api/clients/{id}.
func (h *ClientsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid client id")
		return
	}

	client, err := store.GetClient(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal", "failed to get client")
		return
	}
	if client == nil {
		jsonError(w, http.StatusNotFound, "not_found", "client not found")
		return
	}
	jsonOK(w, http.StatusOK, map[string]any{"client": client})
}

// Update handles PUT /api/clients/{id}.
func (h *ClientsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid client id")
		return
	}

	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		jsonValidationError(w, fields)
		return
	}

	if err := store.UpdateClient(r.Context(), h.DB, id, req.Name, req.Phone, req.Email, req.Notes); err != nil {
		slog.Error("failed to update client", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal", "failed to update client")
		return
	}

	client, _ := store.GetClient(r.Context(), h.DB, id)
	jsonOK(w, http.StatusOK, map[string]any{"client": client})
}

// Delete handles DELETE /api/clients/{id}.
func (h *ClientsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "bad_request", "invalid client id")
		return
	}

	if err := store.DeleteClient(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete client", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal", "failed to delete client")
		return
	}
	jsonOK(w, http.StatusOK, nil)
}
