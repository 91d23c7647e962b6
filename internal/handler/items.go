package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pbmartins/estoque/internal/auth"
	"github.com/pbmartins/estoque/internal/catalog"
	"github.com/pbmartins/estoque/internal/model"
	"github.com/pbmartins/estoque/internal/store"
	"github.com/pbmartins/estoque/internal/websocket"
)

type ItemHandler struct {
	items  *store.ItemStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewItemHandler(is *store.ItemStore, hub *websocket.Hub, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{items: is, hub: hub, logger: logger}
}

func (h *ItemHandler) broadcast(ownerID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(ownerID, msg)
	}
}

type itemRequest struct {
	Name     string `json:"item"`
	Code     string `json:"code"`
	Abbr     string `json:"abbr"`
	Category string `json:"category"`
}

func (req *itemRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.TrimSpace(req.Code)
	req.Abbr = strings.TrimSpace(req.Abbr)
	req.Category = strings.TrimSpace(req.Category)
}

func validCategory(category string) bool {
	for _, c := range catalog.Categories() {
		if c == category {
			return true
		}
	}
	return false
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())

	items, err := h.items.ListByOwner(ownerID)
	if err != nil {
		h.logger.Error("list items", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível listar os itens")
		return
	}
	if items == nil {
		items = []model.CustomItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	req.normalize()

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "informe o nome da publicação")
		return
	}
	if !validCategory(req.Category) {
		writeError(w, http.StatusBadRequest, "categoria desconhecida")
		return
	}

	item, err := h.items.Create(ownerID, req.Name, req.Code, req.Abbr, req.Category)
	if errors.Is(err, store.ErrDuplicateName) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("create item", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível criar o item")
		return
	}

	h.broadcast(ownerID, websocket.NewMessage("item", "created", item.ID, ""))
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())
	id := r.PathValue("id")

	existing, err := h.items.GetByID(id)
	if err != nil {
		h.logger.Error("get item", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível carregar o item")
		return
	}
	if existing == nil || existing.OwnerID != ownerID {
		writeError(w, http.StatusNotFound, "item não encontrado")
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	req.normalize()

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "informe o nome da publicação")
		return
	}
	if !validCategory(req.Category) {
		writeError(w, http.StatusBadRequest, "categoria desconhecida")
		return
	}

	item, err := h.items.Update(id, req.Name, req.Code, req.Abbr, req.Category)
	if errors.Is(err, store.ErrDuplicateName) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("update item", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível salvar o item")
		return
	}

	h.broadcast(ownerID, websocket.NewMessage("item", "updated", item.ID, ""))
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())
	id := r.PathValue("id")

	existing, err := h.items.GetByID(id)
	if err != nil {
		h.logger.Error("get item", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível carregar o item")
		return
	}
	if existing == nil || existing.OwnerID != ownerID {
		writeError(w, http.StatusNotFound, "item não encontrado")
		return
	}

	if err := h.items.Delete(id); err != nil {
		h.logger.Error("delete item", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível excluir o item")
		return
	}

	h.broadcast(ownerID, websocket.NewMessage("item", "deleted", id, ""))
	w.WriteHeader(http.StatusNoContent)
}

type sortRequest struct {
	ItemA string `json:"item_a"`
	ItemB string `json:"item_b"`
}

// Sort handles POST /api/items/sort: swaps the display order of two
// custom items within a category.
func (h *ItemHandler) Sort(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())

	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.ItemA == "" || req.ItemB == "" {
		writeError(w, http.StatusBadRequest, "informe os dois itens")
		return
	}

	if err := h.items.SwapOrder(ownerID, req.ItemA, req.ItemB); err != nil {
		writeError(w, http.StatusBadRequest, "não foi possível reordenar os itens")
		return
	}

	h.broadcast(ownerID, websocket.NewMessage("item", "sorted", req.ItemA, ""))
	w.WriteHeader(http.StatusNoContent)
}
