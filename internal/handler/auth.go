package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pbmartins/estoque/internal/auth"
	"github.com/pbmartins/estoque/internal/email"
	"github.com/pbmartins/estoque/internal/invite"
	"github.com/pbmartins/estoque/internal/middleware"
	"github.com/pbmartins/estoque/internal/model"
	"github.com/pbmartins/estoque/internal/store"
)

const maxCodeAttempts = 5

type AuthHandler struct {
	users    *store.UserStore
	sessions *store.SessionStore
	codes    *store.AuthCodeStore
	resolver *invite.Resolver
	email    *email.Client
	logger   *slog.Logger
}

func NewAuthHandler(
	us *store.UserStore,
	ss *store.SessionStore,
	cs *store.AuthCodeStore,
	resolver *invite.Resolver,
	ec *email.Client,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:    us,
		sessions: ss,
		codes:    cs,
		resolver: resolver,
		email:    ec,
		logger:   logger.With("component", "auth"),
	}
}

type authRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Code  string `json:"code"`
}

// Register handles POST /auth/register: issues a signup code by email.
// The response is identical whether or not the address is already
// registered, to avoid account enumeration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "informe o e-mail")
		return
	}

	h.issueCode(req.Email, "register")
	writeJSON(w, http.StatusOK, map[string]string{"status": "code_sent"})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "informe o e-mail")
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível entrar")
		return
	}
	if user != nil {
		h.issueCode(req.Email, "login")
	}

	// Same response either way.
	writeJSON(w, http.StatusOK, map[string]string{"status": "code_sent"})
}

func (h *AuthHandler) issueCode(emailAddr, purpose string) {
	ac, err := h.codes.Create(emailAddr, purpose)
	if err != nil {
		h.logger.Error("create auth code", "error", err)
		return
	}

	if !h.email.Configured() {
		// Local development without Postmark: the code only reaches the log.
		h.logger.Info("auth code issued", "email", emailAddr, "code", ac.Code)
		return
	}

	if err := h.email.SendAuthCode(emailAddr, ac.Code, purpose); err != nil {
		h.logger.Error("send auth code", "email", emailAddr, "error", err)
	}
}

// Verify handles POST /auth/verify: exchanges a valid code for a session
// cookie. When the caller already holds an anonymous session, that user
// is upgraded in place so their inventory survives registration.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Code = strings.TrimSpace(req.Code)
	if req.Email == "" || req.Code == "" {
		writeError(w, http.StatusBadRequest, "informe o e-mail e o código")
		return
	}

	ac, err := h.codes.GetLatestByEmail(req.Email)
	if err != nil {
		h.logger.Error("verify lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível entrar")
		return
	}
	if ac == nil || time.Now().UTC().After(ac.ExpiresAt) || ac.Attempts >= maxCodeAttempts {
		writeError(w, http.StatusUnauthorized, "código inválido ou expirado")
		return
	}

	if ac.Code != req.Code {
		if _, err := h.codes.IncrementAttempts(ac.ID); err != nil {
			h.logger.Error("increment attempts", "error", err)
		}
		writeError(w, http.StatusUnauthorized, "código inválido ou expirado")
		return
	}

	if err := h.codes.MarkUsed(ac.ID); err != nil {
		h.logger.Error("mark code used", "error", err)
	}

	user, err := h.resolveVerifiedUser(r, req.Email, req.Name)
	if err != nil {
		h.logger.Error("resolve user", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível entrar")
		return
	}

	h.startSession(w, user)
}

// resolveVerifiedUser finds or creates the account for a verified email.
func (h *AuthHandler) resolveVerifiedUser(r *http.Request, emailAddr, name string) (*model.User, error) {
	user, err := h.users.GetByEmail(emailAddr)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	if anon := h.anonymousViewer(r); anon != nil {
		return h.users.Upgrade(anon.ID, emailAddr, name)
	}
	return h.users.Create(emailAddr, name)
}

// anonymousViewer returns the anonymous user behind the request's
// session cookie, if any.
func (h *AuthHandler) anonymousViewer(r *http.Request) *model.User {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil {
		return nil
	}
	session, err := h.sessions.GetByToken(cookie.Value)
	if err != nil || session == nil {
		return nil
	}
	user, err := h.users.GetByID(session.UserID)
	if err != nil || user == nil || !user.Anonymous {
		return nil
	}
	return user
}

// Anonymous handles POST /auth/anonymous: creates a placeholder account
// so the app is usable before registering. The account can be upgraded
// later through Verify.
func (h *AuthHandler) Anonymous(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.CreateAnonymous()
	if err != nil {
		h.logger.Error("create anonymous user", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível entrar")
		return
	}
	h.startSession(w, user)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, user *model.User) {
	session, err := h.sessions.Create(user.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível entrar")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if ok {
		if err := h.sessions.Delete(ac.SessionID); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

// InviteInfo handles GET /convite/{token}: shows who is inviting before
// the helper commits.
func (h *AuthHandler) InviteInfo(w http.ResponseWriter, r *http.Request) {
	inv, err := h.resolver.GetByToken(r.PathValue("token"))
	if errors.Is(err, invite.ErrInviteInvalid) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("invite lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível carregar o convite")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"owner_name": inv.OwnerName,
		"accepted":   inv.Accepted(),
	})
}

// InviteAccept handles POST /convite/{token}. Requires a registered
// session; the viewer becomes a helper on the inviter's inventory.
func (h *AuthHandler) InviteAccept(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "sessão inválida ou expirada")
		return
	}

	user, err := h.users.GetByID(ac.UserID)
	if err != nil || user == nil {
		h.logger.Error("invite accept user lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível aceitar o convite")
		return
	}

	token := r.PathValue("token")
	if err := h.resolver.Accept(token, user); err != nil {
		switch {
		case errors.Is(err, invite.ErrInviteInvalid):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	inv, err := h.resolver.GetByToken(token)
	if err != nil {
		h.logger.Error("invite reload", "error", err)
		writeError(w, http.StatusInternalServerError, "não foi possível aceitar o convite")
		return
	}

	writeJSON(w, http.StatusOK, inv)
}
