package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pbmartins/estoque/internal/auth"
	"github.com/pbmartins/estoque/internal/database"
	"github.com/pbmartins/estoque/internal/invite"
	"github.com/pbmartins/estoque/internal/store"
)

func setupAuthMiddleware(t *testing.T) (func(http.Handler) http.Handler, *store.SessionStore, *store.UserStore, *invite.Resolver) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sessions := store.NewSessionStore(db)
	users := store.NewUserStore(db)
	resolver := invite.NewResolver(store.NewInviteStore(db))
	return RequireAuth(sessions, users, resolver), sessions, users, resolver
}

func TestRequireAuthNoCookie(t *testing.T) {
	mw, _, _, _ := setupAuthMiddleware(t)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a session")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/sheet/2026-03", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthValidSession(t *testing.T) {
	mw, sessions, users, _ := setupAuthMiddleware(t)

	u, _ := users.Create("maria@example.com", "Maria")
	sess, _ := sessions.Create(u.ID)

	var got auth.AuthContext
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.FromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/sheet/2026-03", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.Token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.UserID != u.ID || got.OwnerID != u.ID || got.Role != auth.RoleOwner {
		t.Errorf("auth context = %+v", got)
	}
}

func TestRequireAuthHelperResolvesOwner(t *testing.T) {
	mw, sessions, users, resolver := setupAuthMiddleware(t)

	owner, _ := users.Create("maria@example.com", "Maria")
	helper, _ := users.Create("joao@example.com", "João")
	inv, _ := resolver.Create(owner.ID, owner.DisplayName())
	if err := resolver.Accept(inv.Token, helper); err != nil {
		t.Fatalf("accept invite: %v", err)
	}
	sess, _ := sessions.Create(helper.ID)

	var got auth.AuthContext
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.FromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/sheet/2026-03", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.Token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got.OwnerID != owner.ID || got.Role != auth.RoleHelper {
		t.Errorf("auth context = %+v, want helper of owner %d", got, owner.ID)
	}
}

func TestRequireAuthBadToken(t *testing.T) {
	mw, _, _, _ := setupAuthMiddleware(t)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with a bad token")
	}))

	req := httptest.NewRequest("GET", "/api/sheet/2026-03", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bogus"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
