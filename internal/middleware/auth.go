package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/pbmartins/estoque/internal/auth"
	"github.com/pbmartins/estoque/internal/invite"
	"github.com/pbmartins/estoque/internal/store"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "estoque_session"

// RequireAuth validates the session cookie, resolves whose inventory the
// viewer works on, and populates AuthContext for downstream handlers.
func RequireAuth(sessions *store.SessionStore, users *store.UserStore, resolver *invite.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			sess, err := sessions.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				unauthorized(w)
				return
			}

			user, err := users.GetByID(sess.UserID)
			if err != nil || user == nil {
				unauthorized(w)
				return
			}

			ownerID, err := resolver.ResolveActiveOwner(user.ID)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			role := auth.RoleOwner
			if ownerID != user.ID {
				role = auth.RoleHelper
			}

			ac := auth.AuthContext{
				UserID:    user.ID,
				OwnerID:   ownerID,
				Role:      role,
				SessionID: sess.ID,
				Anonymous: user.Anonymous,
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "sessão inválida ou expirada"})
}
