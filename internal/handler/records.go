package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pbmartins/estoque/internal/auth"
	"github.com/pbmartins/estoque/internal/catalog"
	"github.com/pbmartins/estoque/internal/inventory"
	"github.com/pbmartins/estoque/internal/model"
	"github.com/pbmartins/estoque/internal/push"
	"github.com/pbmartins/estoque/internal/store"
	"github.com/pbmartins/estoque/internal/websocket"
)

type RecordHandler struct {
	items    *store.ItemStore
	records  *store.RecordStore
	checks   *store.SubscriptionStore
	hub      *websocket.Hub
	notifier *push.Service
	logger   *slog.Logger
}

func NewRecordHandler(
	is *store.ItemStore,
	rs *store.RecordStore,
	ss *store.SubscriptionStore,
	hub *websocket.Hub,
	notifier *push.Service,
	logger *slog.Logger,
) *RecordHandler {
	return &RecordHandler{items: is, records: rs, checks: ss, hub: hub, notifier: notifier, logger: logger}
}

// buildSheet reconciles the catalog, the owner's custom items, and the
// month's records into display order. Shared by the sheet, export, and
// stats handlers.
func buildSheet(items *store.ItemStore, records *store.RecordStore, ownerID int64, month string) ([]inventory.LineItem, error) {
	custom, err := items.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	recs, err := records.MapForMonth(ownerID, month)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return inventory.Reconcile(catalog.Entries(), custom, recs), nil
}

// Sheet handles GET /api/sheet/{month}: the reconciled monthly count
// sheet plus the subscription check state for the month. Blank custom
// items left behind by abandoned edits are garbage-collected first.
func (h *RecordHandler) Sheet(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())

	month, ok := monthParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "mês inválido")
		return
	}

	if _, err := h.items.DeleteUnnamed(ownerID); err != nil {
		h.logger.Warn("delete unnamed items", "error", err)
	}

	sheet, err := buildSheet(h.items, h.records, ownerID, month)
	if err != nil {
		h.logger.Error("build sheet", "month", month, "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível carregar a folha")
		return
	}

	checks, err := h.checks.ChecksForMonth(ownerID, month)
	if err != nil {
		h.logger.Error("load subscription checks", "month", month, "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível carregar a folha")
		return
	}
	if checks == nil {
		checks = map[string]bool{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month":  month,
		"sheet":  sheet,
		"checks": checks,
	})
}

type quantityRequest struct {
	Field      string            `json:"field"`
	Value      int               `json:"value"`
	Extensions map[string]string `json:"extensions,omitempty"`
}

// SetQuantity handles PUT /api/records/{month}/{item_id}: writes one
// quantity field, merging into whatever the month already holds.
func (h *RecordHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	ownerID := ac.OwnerID

	month, ok := monthParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "mês inválido")
		return
	}
	itemID := r.PathValue("item_id")

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	switch req.Field {
	case store.FieldPrevious, store.FieldReceived, store.FieldCurrent:
	default:
		writeError(w, http.StatusBadRequest, "campo de quantidade desconhecido")
		return
	}

	record, err := h.records.SetQuantity(ownerID, month, itemID, req.Field, req.Value)
	if err != nil {
		h.logger.Error("set quantity", "month", month, "item", itemID, "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível salvar a quantidade")
		return
	}

	if len(req.Extensions) > 0 {
		if err := h.records.SetExtensions(ownerID, month, itemID, req.Extensions); err != nil {
			h.logger.Error("set extensions", "month", month, "item", itemID, "error", err)
		}
	}

	h.notifyUpdate(ac, month, itemID)

	writeJSON(w, http.StatusOK, map[string]any{
		"record":   record,
		"outgoing": inventory.ComputeOutgoing(record.Previous, record.Received, record.Current),
	})
}

func (h *RecordHandler) notifyUpdate(ac auth.AuthContext, month, itemID string) {
	if h.hub != nil {
		h.hub.Broadcast(ac.OwnerID, websocket.NewMessage("record", "updated", itemID, month))
	}
	if h.notifier != nil {
		h.notifier.NotifyOthers(ac.OwnerID, ac.UserID, push.Payload{
			Title: "Estoque atualizado",
			Body:  fmt.Sprintf("A folha de %s foi alterada", month),
			URL:   "/" + month,
			Tag:   model.NotifTypeSheetUpdated,
		})
	}
}
