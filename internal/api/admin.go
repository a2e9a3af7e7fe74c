package api

import (
	"net/http"
	"strconv"
)

// DeliveriesHandler handles GET /v1/admin/deliveries: recently processed
// deliveries from the ledger, newest first.
func (s *Server) DeliveriesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 200 {
		limit = 200
	}
	items, err := s.Ledger.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "List deliveries failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
