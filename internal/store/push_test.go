package store

import (
	"testing"

	"github.com/pbmartins/estoque/internal/database"
)

func setupPushTestDB(t *testing.T) (*PushStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPushStore(db), NewUserStore(db)
}

func TestPushSubscriptionUpsertByEndpoint(t *testing.T) {
	ps, us := setupPushTestDB(t)
	u, _ := us.Create("maria@example.com", "Maria")

	first, err := ps.CreateSubscription(u.ID, u.ID, "https://push.example/ep1", "p256-old", "auth-old", "Celular")
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}

	// Re-subscribing the same endpoint updates keys instead of duplicating.
	second, err := ps.CreateSubscription(u.ID, u.ID, "https://push.example/ep1", "p256-new", "auth-new", "Celular")
	if err != nil {
		t.Fatalf("re-create subscription: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected same row on endpoint conflict: %d vs %d", first.ID, second.ID)
	}
	if second.P256dhKey != "p256-new" {
		t.Errorf("p256dh = %q, want updated key", second.P256dhKey)
	}

	subs, err := ps.ListByUser(u.ID)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("expected 1 subscription, got %d", len(subs))
	}
}

func TestPushListByOwnerIncludesHelpers(t *testing.T) {
	ps, us := setupPushTestDB(t)
	owner, _ := us.Create("maria@example.com", "Maria")
	helper, _ := us.Create("joao@example.com", "João")

	ps.CreateSubscription(owner.ID, owner.ID, "https://push.example/owner", "k1", "a1", "")
	ps.CreateSubscription(helper.ID, owner.ID, "https://push.example/helper", "k2", "a2", "")

	subs, err := ps.ListByOwner(owner.ID)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(subs) != 2 {
		t.Errorf("expected owner and helper devices, got %d", len(subs))
	}
}

func TestPushDeleteByEndpoint(t *testing.T) {
	ps, us := setupPushTestDB(t)
	u, _ := us.Create("maria@example.com", "Maria")

	ps.CreateSubscription(u.ID, u.ID, "https://push.example/gone", "k", "a", "")
	if err := ps.DeleteByEndpoint("https://push.example/gone"); err != nil {
		t.Fatalf("delete by endpoint: %v", err)
	}

	subs, _ := ps.ListByUser(u.ID)
	if len(subs) != 0 {
		t.Errorf("expected no subscriptions after delete, got %d", len(subs))
	}
}
