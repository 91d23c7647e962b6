package store

import (
	"testing"

	"github.com/pbmartins/estoque/internal/database"
)

func setupSessionTestDB(t *testing.T) (*SessionStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSessionStore(db), NewUserStore(db)
}

func TestSessionCreateAndGet(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	u, err := us.Create("maria@example.com", "Maria")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	sess, err := ss.Create(u.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 {
		t.Errorf("token length = %d, want 64", len(sess.Token))
	}
	if sess.UserID != u.ID {
		t.Errorf("user id = %d, want %d", sess.UserID, u.ID)
	}

	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got == nil || got.ID != sess.ID {
		t.Fatalf("get by token returned %+v, want id %d", got, sess.ID)
	}
}

func TestSessionUnknownToken(t *testing.T) {
	ss, _ := setupSessionTestDB(t)

	got, err := ss.GetByToken("deadbeef")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown token, got %+v", got)
	}
}

func TestSessionDelete(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	u, _ := us.Create("maria@example.com", "Maria")
	sess, err := ss.Create(u.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := ss.Delete(sess.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestSessionTokensUnique(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	u, _ := us.Create("maria@example.com", "Maria")
	a, err := ss.Create(u.ID)
	if err != nil {
		t.Fatalf("create session a: %v", err)
	}
	b, err := ss.Create(u.ID)
	if err != nil {
		t.Fatalf("create session b: %v", err)
	}
	if a.Token == b.Token {
		t.Error("expected distinct tokens for separate sessions")
	}
}
