package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pbmartins/estoque/internal/auth"
	"github.com/pbmartins/estoque/internal/scan"
	"github.com/pbmartins/estoque/internal/store"
	"github.com/pbmartins/estoque/internal/websocket"
)

// maxScanUpload bounds the multipart document upload (32 MiB).
const maxScanUpload = 32 << 20

type ScanHandler struct {
	extractor scan.Extractor
	items     *store.ItemStore
	records   *store.RecordStore
	hub       *websocket.Hub
	logger    *slog.Logger
}

func NewScanHandler(ex scan.Extractor, is *store.ItemStore, rs *store.RecordStore, hub *websocket.Hub, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{extractor: ex, items: is, records: rs, hub: hub, logger: logger}
}

type scanMonthResult struct {
	Month    string `json:"month"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// Import handles POST /api/scan: multipart "pages" files go through the
// document extractor and every detected month is merged into the
// records. Nothing is written when no month is recognized.
func (h *ScanHandler) Import(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())

	if h.extractor == nil {
		writeError(w, http.StatusServiceUnavailable, "leitura de documentos não está configurada")
		return
	}

	if err := r.ParseMultipartForm(maxScanUpload); err != nil {
		writeError(w, http.StatusBadRequest, "envio inválido")
		return
	}

	files := r.MultipartForm.File["pages"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "envie pelo menos uma página")
		return
	}

	pages := make([]scan.Page, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "envio inválido")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "envio inválido")
			return
		}
		mime := fh.Header.Get("Content-Type")
		if mime == "" {
			mime = http.DetectContentType(data)
		}
		pages = append(pages, scan.Page{MIMEType: mime, Data: data})
	}

	referenceDate := time.Now().Format("2006-01-02")
	groups, err := h.extractor.Extract(r.Context(), pages, referenceDate)
	if errors.Is(err, scan.ErrNoMonths) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("extract document", "pages", len(pages), "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível ler o documento")
		return
	}

	custom, err := h.items.ListByOwner(ownerID)
	if err != nil {
		h.logger.Error("list items", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível importar o documento")
		return
	}

	results := make([]scanMonthResult, 0, len(groups))
	for _, group := range groups {
		records, skipped := scan.MatchRows(group.Rows, custom)
		if err := h.records.BulkUpsert(ownerID, group.Month, records); err != nil {
			h.logger.Error("import month", "month", group.Month, "error", err)
			writeError(w, http.StatusInternalServerError, "não foi possível importar o documento")
			return
		}
		if h.hub != nil {
			h.hub.Broadcast(ownerID, websocket.NewMessage("record", "imported", "", group.Month))
		}
		results = append(results, scanMonthResult{Month: group.Month, Imported: len(records), Skipped: skipped})
	}

	writeJSON(w, http.StatusOK, map[string]any{"months": results})
}
