package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pbmartins/estoque/internal/auth"
	"github.com/pbmartins/estoque/internal/model"
	"github.com/pbmartins/estoque/internal/push"
	"github.com/pbmartins/estoque/internal/store"
	"github.com/pbmartins/estoque/internal/websocket"
)

type OrderHandler struct {
	orders   *store.OrderStore
	hub      *websocket.Hub
	notifier *push.Service
	logger   *slog.Logger
}

func NewOrderHandler(os *store.OrderStore, hub *websocket.Hub, notifier *push.Service, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: os, hub: hub, notifier: notifier, logger: logger}
}

func (h *OrderHandler) broadcast(ownerID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(ownerID, msg)
	}
}

type orderRequest struct {
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	Quantity  int    `json:"quantity"`
	Requester string `json:"requester"`
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())

	var (
		orders []model.Order
		err    error
	)
	if itemID := r.URL.Query().Get("item_id"); itemID != "" {
		orders, err = h.orders.ListByItem(ownerID, itemID)
	} else {
		orders, err = h.orders.ListByOwner(ownerID)
	}
	if err != nil {
		h.logger.Error("list orders", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível listar os pedidos")
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	req.ItemName = strings.TrimSpace(req.ItemName)
	req.Requester = strings.TrimSpace(req.Requester)
	if req.ItemName == "" {
		writeError(w, http.StatusBadRequest, "informe a publicação do pedido")
		return
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "quantidade deve ser pelo menos 1")
		return
	}

	order, err := h.orders.Create(ownerID, req.ItemID, req.ItemName, req.Quantity, req.Requester)
	if err != nil {
		h.logger.Error("create order", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível criar o pedido")
		return
	}

	h.broadcast(ownerID, websocket.NewMessage("order", "created", order.ID, ""))
	writeJSON(w, http.StatusCreated, order)
}

type orderStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// SetStatus handles PUT /api/orders/{id}/status: pending, received or
// delivered. Arriving orders notify the other party's devices.
func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	ownerID := ac.OwnerID
	id := r.PathValue("id")

	var req orderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	order, err := h.orders.SetStatus(id, ownerID, req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "situação de pedido desconhecida")
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "pedido não encontrado")
		return
	}

	h.broadcast(ownerID, websocket.NewMessage("order", "updated", order.ID, ""))

	if order.Status == model.OrderStatusReceived && h.notifier != nil {
		h.notifier.NotifyOthers(ownerID, ac.UserID, push.Payload{
			Title: "Pedido recebido",
			Body:  order.ItemName + " chegou",
			URL:   "/pedidos",
			Tag:   model.NotifTypeOrderArrived,
		})
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())
	id := r.PathValue("id")

	if err := h.orders.Delete(id, ownerID); err != nil {
		h.logger.Error("delete order", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível excluir o pedido")
		return
	}

	h.broadcast(ownerID, websocket.NewMessage("order", "deleted", id, ""))
	w.WriteHeader(http.StatusNoContent)
}
