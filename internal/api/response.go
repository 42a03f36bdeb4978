package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// jsonOK writes a success envelope, merging extra fields into {"ok": true}.
func jsonOK(w http.ResponseWriter, status int, extra map[string]any) {
	payload := map[string]any{"ok": true}
	for k, v := range extra {
		payload[k] = v
	}
	jsonResponse(w, status, payload)
}

// jsonError writes an error envelope with a machine-readable code.
func jsonError(w http.ResponseWriter, status int, code, message string) {
	jsonResponse(w, status, map[string]any{
		"ok":      false,
		"error":   code,
		"message": message,
	})
}

// jsonValidationError writes a 400 with per-field detail.
func jsonValidationError(w http.ResponseWriter, fields map[string]string) {
	jsonResponse(w, http.StatusBadRequest, map[string]any{
		"ok":      false,
		"error":   "validation_failed",
		"message": "invalid request",
		"fields":  fields,
	})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
