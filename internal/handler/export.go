package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pbmartins/estoque/internal/auth"
	"github.com/pbmartins/estoque/internal/export"
	"github.com/pbmartins/estoque/internal/store"
)

type ExportHandler struct {
	items   *store.ItemStore
	records *store.RecordStore
	logger  *slog.Logger
}

func NewExportHandler(is *store.ItemStore, rs *store.RecordStore, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{items: is, records: rs, logger: logger}
}

// Month handles GET /api/export/{month}: the reconciled sheet as a PDF
// download.
func (h *ExportHandler) Month(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())

	month, ok := monthParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "mês inválido")
		return
	}

	sheet, err := buildSheet(h.items, h.records, ownerID, month)
	if err != nil {
		h.logger.Error("build sheet", "month", month, "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível gerar o PDF")
		return
	}

	data, err := export.RenderSheet("Estoque de publicações", month, sheet)
	if err != nil {
		h.logger.Error("render pdf", "month", month, "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível gerar o PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="estoque-%s.pdf"`, month))
	w.Write(data)
}
