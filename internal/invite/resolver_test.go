package invite

import (
	"errors"
	"testing"

	"github.com/pbmartins/estoque/internal/database"
	"github.com/pbmartins/estoque/internal/model"
	"github.com/pbmartins/estoque/internal/store"
)

func setupResolverTest(t *testing.T) (*Resolver, *store.UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewResolver(store.NewInviteStore(db)), store.NewUserStore(db)
}

func TestResolveActiveOwnerSelf(t *testing.T) {
	r, us := setupResolverTest(t)
	owner, _ := us.Create("maria@example.com", "Maria")

	got, err := r.ResolveActiveOwner(owner.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != owner.ID {
		t.Errorf("active owner = %d, want self %d", got, owner.ID)
	}
}

func TestResolveActiveOwnerHelper(t *testing.T) {
	r, us := setupResolverTest(t)
	owner, _ := us.Create("maria@example.com", "Maria")
	helper, _ := us.Create("joao@example.com", "João")

	inv, _ := r.Create(owner.ID, owner.DisplayName())
	if err := r.Accept(inv.Token, helper); err != nil {
		t.Fatalf("accept: %v", err)
	}

	got, err := r.ResolveActiveOwner(helper.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != owner.ID {
		t.Errorf("active owner = %d, want %d", got, owner.ID)
	}
}

func TestAcceptSetsHelperLabel(t *testing.T) {
	r, us := setupResolverTest(t)
	owner, _ := us.Create("maria@example.com", "Maria")
	helper, _ := us.Create("joao.pereira@example.com", "")

	inv, _ := r.Create(owner.ID, owner.DisplayName())
	if err := r.Accept(inv.Token, helper); err != nil {
		t.Fatalf("accept: %v", err)
	}

	got, err := r.GetByToken(inv.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	// Helper has no name; label falls back to the email local part.
	if got.Label != "joao.pereira" {
		t.Errorf("label = %q, want %q", got.Label, "joao.pereira")
	}
}

func TestAcceptRejectsAnonymous(t *testing.T) {
	r, us := setupResolverTest(t)
	owner, _ := us.Create("maria@example.com", "Maria")
	anon, _ := us.CreateAnonymous()

	inv, _ := r.Create(owner.ID, owner.DisplayName())
	if err := r.Accept(inv.Token, anon); !errors.Is(err, ErrInviteInvalid) {
		t.Errorf("accept anonymous = %v, want ErrInviteInvalid", err)
	}
}

func TestAcceptRejectsSelf(t *testing.T) {
	r, us := setupResolverTest(t)
	owner, _ := us.Create("maria@example.com", "Maria")

	inv, _ := r.Create(owner.ID, owner.DisplayName())
	if err := r.Accept(inv.Token, owner); !errors.Is(err, ErrInviteInvalid) {
		t.Errorf("accept own invite = %v, want ErrInviteInvalid", err)
	}
}

func TestAcceptRejectsUnknownToken(t *testing.T) {
	r, us := setupResolverTest(t)
	helper, _ := us.Create("joao@example.com", "João")

	if err := r.Accept("nosuchtoken", helper); !errors.Is(err, ErrInviteInvalid) {
		t.Errorf("accept unknown token = %v, want ErrInviteInvalid", err)
	}
}

func TestAcceptRejectsClaimedToken(t *testing.T) {
	r, us := setupResolverTest(t)
	owner, _ := us.Create("maria@example.com", "Maria")
	first, _ := us.Create("joao@example.com", "João")
	second, _ := us.Create("pedro@example.com", "Pedro")

	inv, _ := r.Create(owner.ID, owner.DisplayName())
	if err := r.Accept(inv.Token, first); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if err := r.Accept(inv.Token, second); !errors.Is(err, ErrInviteInvalid) {
		t.Errorf("second accept = %v, want ErrInviteInvalid", err)
	}

	// Re-accepting by the same helper is harmless.
	if err := r.Accept(inv.Token, first); err != nil {
		t.Errorf("re-accept by claimer: %v", err)
	}
}

func TestInvitesDedupPerHelper(t *testing.T) {
	r, us := setupResolverTest(t)
	owner, _ := us.Create("maria@example.com", "Maria")
	helper, _ := us.Create("joao@example.com", "João")

	a, _ := r.Create(owner.ID, owner.DisplayName())
	b, _ := r.Create(owner.ID, owner.DisplayName())
	if err := r.Accept(a.Token, helper); err != nil {
		t.Fatalf("accept a: %v", err)
	}
	if err := r.Accept(b.Token, helper); err != nil {
		t.Fatalf("accept b: %v", err)
	}

	invites, err := r.Invites(owner.ID)
	if err != nil {
		t.Fatalf("invites: %v", err)
	}
	if len(invites) != 1 {
		t.Fatalf("expected 1 deduped invite, got %d", len(invites))
	}
	if invites[0].Label != "João" {
		t.Errorf("surviving label = %q, want %q", invites[0].Label, "João")
	}
}

func TestInvitesKeepPendingRows(t *testing.T) {
	r, us := setupResolverTest(t)
	owner, _ := us.Create("maria@example.com", "Maria")

	r.Create(owner.ID, owner.DisplayName())
	r.Create(owner.ID, owner.DisplayName())

	invites, err := r.Invites(owner.ID)
	if err != nil {
		t.Fatalf("invites: %v", err)
	}
	if len(invites) != 2 {
		t.Errorf("pending invites must not be deduped, got %d", len(invites))
	}
	for _, inv := range invites {
		if inv.Label != model.PendingLabel {
			t.Errorf("label = %q, want pending sentinel", inv.Label)
		}
	}
}

func TestRevokeIdempotent(t *testing.T) {
	r, us := setupResolverTest(t)
	owner, _ := us.Create("maria@example.com", "Maria")
	helper, _ := us.Create("joao@example.com", "João")

	a, _ := r.Create(owner.ID, owner.DisplayName())
	b, _ := r.Create(owner.ID, owner.DisplayName())
	r.Accept(a.Token, helper)
	r.Accept(b.Token, helper)

	if err := r.Revoke(owner.ID, a.Token); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	// Every row for the helper is gone, and access is back to self.
	invites, _ := r.Invites(owner.ID)
	if len(invites) != 0 {
		t.Errorf("expected no invites after revoke, got %d", len(invites))
	}
	active, _ := r.ResolveActiveOwner(helper.ID)
	if active != helper.ID {
		t.Errorf("helper still resolves to owner %d after revoke", active)
	}

	// Second revoke is a no-op.
	if err := r.Revoke(owner.ID, a.Token); err != nil {
		t.Errorf("second revoke = %v, want nil", err)
	}
}

func TestRevokeScopedToOwner(t *testing.T) {
	r, us := setupResolverTest(t)
	owner, _ := us.Create("maria@example.com", "Maria")
	other, _ := us.Create("pedro@example.com", "Pedro")

	inv, _ := r.Create(owner.ID, owner.DisplayName())
	if err := r.Revoke(other.ID, inv.Token); err != nil {
		t.Fatalf("revoke by other: %v", err)
	}
	if _, err := r.GetByToken(inv.Token); err != nil {
		t.Error("another owner's revoke must not delete the invite")
	}
}

func TestDisplayLabelGuardsMislabel(t *testing.T) {
	helperID := int64(7)
	inv := &model.Invite{
		OwnerName: "Maria",
		Label:     "Maria",
		HelperID:  &helperID,
	}
	if got := DisplayLabel(inv); got != ConnectedHelperLabel {
		t.Errorf("display label = %q, want %q", got, ConnectedHelperLabel)
	}

	inv.Label = "João"
	if got := DisplayLabel(inv); got != "João" {
		t.Errorf("display label = %q, want %q", got, "João")
	}
}
