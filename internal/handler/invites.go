package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pbmartins/estoque/internal/auth"
	"github.com/pbmartins/estoque/internal/email"
	"github.com/pbmartins/estoque/internal/invite"
	"github.com/pbmartins/estoque/internal/model"
	"github.com/pbmartins/estoque/internal/store"
)

type InviteHandler struct {
	resolver *invite.Resolver
	users    *store.UserStore
	email    *email.Client
	logger   *slog.Logger
}

func NewInviteHandler(resolver *invite.Resolver, us *store.UserStore, ec *email.Client, logger *slog.Logger) *InviteHandler {
	return &InviteHandler{resolver: resolver, users: us, email: ec, logger: logger}
}

// requireOwner rejects helpers: invites are managed by the inventory
// owner only.
func (h *InviteHandler) requireOwner(w http.ResponseWriter, r *http.Request) (auth.AuthContext, bool) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "sessão inválida ou expirada")
		return ac, false
	}
	if ac.Role != auth.RoleOwner {
		writeError(w, http.StatusForbidden, "apenas o responsável pode gerenciar convites")
		return ac, false
	}
	return ac, true
}

type inviteView struct {
	model.Invite
	DisplayLabel string `json:"display_label"`
}

func (h *InviteHandler) List(w http.ResponseWriter, r *http.Request) {
	ac, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	invites, err := h.resolver.Invites(ac.UserID)
	if err != nil {
		h.logger.Error("list invites", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível listar os convites")
		return
	}

	views := make([]inviteView, 0, len(invites))
	for _, inv := range invites {
		views = append(views, inviteView{Invite: inv, DisplayLabel: invite.DisplayLabel(&inv)})
	}
	writeJSON(w, http.StatusOK, views)
}

type inviteRequest struct {
	Email string `json:"email"`
}

// Create handles POST /api/invites: mints a share token and, when an
// address is given and Postmark is configured, mails the link.
func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	var req inviteRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	req.Email = strings.TrimSpace(req.Email)

	owner, err := h.users.GetByID(ac.UserID)
	if err != nil || owner == nil {
		h.logger.Error("invite owner lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível criar o convite")
		return
	}

	inv, err := h.resolver.Create(owner.ID, owner.DisplayName())
	if err != nil {
		h.logger.Error("create invite", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível criar o convite")
		return
	}

	if req.Email != "" && h.email.Configured() {
		if err := h.email.SendInviteLink(req.Email, inv.Token, owner.DisplayName()); err != nil {
			h.logger.Error("send invite link", "email", req.Email, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, inv)
}

// Delete handles DELETE /api/invites/{id}: revokes the invite and any
// duplicate rows for the same helper. Revoking twice is a no-op.
func (h *InviteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	if err := h.resolver.Revoke(ac.UserID, r.PathValue("id")); err != nil {
		h.logger.Error("revoke invite", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível revogar o convite")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
