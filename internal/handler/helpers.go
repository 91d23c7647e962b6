package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pbmartins/estoque/internal/inventory"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// monthParam reads and validates the {month} path segment (YYYY-MM).
func monthParam(r *http.Request) (string, bool) {
	month := r.PathValue("month")
	return month, inventory.ValidMonth(month)
}
