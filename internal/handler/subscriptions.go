package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pbmartins/estoque/internal/auth"
	"github.com/pbmartins/estoque/internal/model"
	"github.com/pbmartins/estoque/internal/store"
	"github.com/pbmartins/estoque/internal/websocket"
)

type SubscriptionHandler struct {
	subs   *store.SubscriptionStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewSubscriptionHandler(ss *store.SubscriptionStore, hub *websocket.Hub, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subs: ss, hub: hub, logger: logger}
}

func (h *SubscriptionHandler) broadcast(ownerID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(ownerID, msg)
	}
}

type subscriptionRequest struct {
	Publication string `json:"publication"`
	Subscriber  string `json:"subscriber"`
	Quantity    int    `json:"quantity"`
}

func (req *subscriptionRequest) validate() string {
	req.Publication = strings.TrimSpace(req.Publication)
	req.Subscriber = strings.TrimSpace(req.Subscriber)
	if req.Publication == "" {
		return "informe a publicação"
	}
	if req.Quantity < 1 {
		return "quantidade deve ser pelo menos 1"
	}
	return ""
}

func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())

	subs, err := h.subs.ListByOwner(ownerID)
	if err != nil {
		h.logger.Error("list subscriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível listar as assinaturas")
		return
	}
	if subs == nil {
		subs = []model.Subscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())

	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	sub, err := h.subs.Create(ownerID, req.Publication, req.Subscriber, req.Quantity)
	if err != nil {
		h.logger.Error("create subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível criar a assinatura")
		return
	}

	h.broadcast(ownerID, websocket.NewMessage("subscription", "created", sub.ID, ""))
	writeJSON(w, http.StatusCreated, sub)
}

func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())
	id := r.PathValue("id")

	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	sub, err := h.subs.Update(id, ownerID, req.Publication, req.Subscriber, req.Quantity)
	if err != nil {
		h.logger.Error("update subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível salvar a assinatura")
		return
	}
	if sub == nil {
		writeError(w, http.StatusNotFound, "assinatura não encontrada")
		return
	}

	h.broadcast(ownerID, websocket.NewMessage("subscription", "updated", sub.ID, ""))
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())
	id := r.PathValue("id")

	if err := h.subs.Delete(id, ownerID); err != nil {
		h.logger.Error("delete subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível excluir a assinatura")
		return
	}

	h.broadcast(ownerID, websocket.NewMessage("subscription", "deleted", id, ""))
	w.WriteHeader(http.StatusNoContent)
}

// ToggleCheck handles POST /api/subscriptions/{id}/check/{month}: flips
// the received mark for one subscription in one month.
func (h *SubscriptionHandler) ToggleCheck(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())
	id := r.PathValue("id")

	month, ok := monthParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "mês inválido")
		return
	}

	sub, err := h.subs.GetByID(id, ownerID)
	if err != nil {
		h.logger.Error("get subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível marcar a assinatura")
		return
	}
	if sub == nil {
		writeError(w, http.StatusNotFound, "assinatura não encontrada")
		return
	}

	checked, err := h.subs.ToggleCheck(id, month)
	if err != nil {
		h.logger.Error("toggle check", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível marcar a assinatura")
		return
	}

	h.broadcast(ownerID, websocket.NewMessage("subscription", "checked", id, month))
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "month": month, "checked": checked})
}
