package handler

import (
	"log/slog"
	"net/http"

	"github.com/pbmartins/estoque/internal/auth"
	"github.com/pbmartins/estoque/internal/inventory"
	"github.com/pbmartins/estoque/internal/store"
)

type StatsHandler struct {
	items   *store.ItemStore
	records *store.RecordStore
	logger  *slog.Logger
}

func NewStatsHandler(is *store.ItemStore, rs *store.RecordStore, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{items: is, records: rs, logger: logger}
}

// Month handles GET /api/stats/{month}: per-category outgoing totals for
// the month plus the critical-stock list over the trailing window.
func (h *StatsHandler) Month(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())

	month, ok := monthParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "mês inválido")
		return
	}

	sheet, err := buildSheet(h.items, h.records, ownerID, month)
	if err != nil {
		h.logger.Error("build sheet", "month", month, "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível calcular as estatísticas")
		return
	}

	months := inventory.PreviousMonths(month, inventory.CriticalWindow)
	byMonth, err := h.records.MapForMonths(ownerID, months)
	if err != nil {
		h.logger.Error("load history", "month", month, "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível calcular as estatísticas")
		return
	}

	// Outgoing history per line item, most recent month first, months
	// without a record skipped.
	history := make(map[string][]int)
	for _, li := range sheet {
		if li.IsCategory {
			continue
		}
		for _, m := range months {
			rec, ok := byMonth[m][li.ID]
			if !ok {
				continue
			}
			out := inventory.ComputeOutgoing(rec.Previous, rec.Received, rec.Current)
			history[li.ID] = append(history[li.ID], inventory.ClampOutgoing(out))
		}
	}

	totals := inventory.CategoryTotals(sheet)
	critical := inventory.CriticalItems(sheet, history)
	if critical == nil {
		critical = []inventory.CriticalItem{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month":      month,
		"categories": totals,
		"critical":   critical,
	})
}
