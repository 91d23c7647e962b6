// Package invite resolves delegated access between an inventory owner
// and helpers connected through invite links.
package invite

import (
	"errors"
	"fmt"

	"github.com/pbmartins/estoque/internal/model"
	"github.com/pbmartins/estoque/internal/store"
)

// ErrInviteInvalid is returned for tokens that do not exist, were already
// claimed, or that the viewer may not accept.
var ErrInviteInvalid = errors.New("convite inválido ou expirado")

// ConnectedHelperLabel replaces a label that cannot be trusted (see
// DisplayLabel).
const ConnectedHelperLabel = "Ajudante conectado"

type Resolver struct {
	invites *store.InviteStore
}

func NewResolver(invites *store.InviteStore) *Resolver {
	return &Resolver{invites: invites}
}

// ResolveActiveOwner returns whose inventory the viewer works on. A
// viewer connected to another owner through an accepted invite gets that
// owner's id; everyone else is an owner of their own data.
func (r *Resolver) ResolveActiveOwner(viewerID int64) (int64, error) {
	inv, err := r.invites.GetByHelper(viewerID)
	if err != nil {
		return 0, fmt.Errorf("resolve active owner: %w", err)
	}
	if inv != nil && inv.OwnerID != viewerID {
		return inv.OwnerID, nil
	}
	return viewerID, nil
}

// Create issues a new pending invite for the owner.
func (r *Resolver) Create(ownerID int64, ownerName string) (*model.Invite, error) {
	return r.invites.Create(ownerID, ownerName)
}

// GetByToken returns the invite for a link token, or ErrInviteInvalid.
func (r *Resolver) GetByToken(token string) (*model.Invite, error) {
	inv, err := r.invites.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInviteInvalid
	}
	return inv, nil
}

// Accept claims a pending invite for the helper. Anonymous users must
// register first; owners cannot accept their own invites; a token already
// claimed by someone else stays claimed.
func (r *Resolver) Accept(token string, helper *model.User) error {
	if helper.Anonymous {
		return ErrInviteInvalid
	}
	inv, err := r.invites.GetByToken(token)
	if err != nil {
		return fmt.Errorf("accept invite: %w", err)
	}
	if inv == nil {
		return ErrInviteInvalid
	}
	if inv.OwnerID == helper.ID {
		return ErrInviteInvalid
	}
	if inv.Accepted() && *inv.HelperID != helper.ID {
		return ErrInviteInvalid
	}

	name := helper.DisplayName()
	if err := r.invites.Accept(token, helper.ID, name, name); err != nil {
		return fmt.Errorf("accept invite: %w", err)
	}
	return nil
}

// Invites lists the owner's invites for display: self-invites are
// excluded and rows are deduplicated per helper, keeping the labelled
// one.
func (r *Resolver) Invites(ownerID int64) ([]model.Invite, error) {
	all, err := r.invites.ListByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	byHelper := make(map[int64]int)
	out := make([]model.Invite, 0, len(all))
	for _, inv := range all {
		if inv.HelperID == nil {
			out = append(out, inv)
			continue
		}
		hid := *inv.HelperID
		prev, seen := byHelper[hid]
		if !seen {
			byHelper[hid] = len(out)
			out = append(out, inv)
			continue
		}
		// Duplicate rows for one helper: keep the one whose label is
		// not the owner's copied name, since only that one carries the
		// helper's accepted display name.
		if out[prev].Label == out[prev].OwnerName && inv.Label != inv.OwnerName {
			out[prev] = inv
		}
	}
	return out, nil
}

// Revoke removes the invite and every other row linking the same helper
// to the owner. Revoking an already-removed invite is a no-op.
func (r *Resolver) Revoke(ownerID int64, token string) error {
	inv, err := r.invites.GetByToken(token)
	if err != nil {
		return fmt.Errorf("revoke invite: %w", err)
	}
	if inv == nil || inv.OwnerID != ownerID {
		return nil
	}
	if inv.HelperID != nil {
		if err := r.invites.DeleteByHelper(ownerID, *inv.HelperID); err != nil {
			return err
		}
	}
	return r.invites.Delete(ownerID, token)
}

// DisplayLabel returns what to show for an invite row. A claimed row
// whose label still equals the owner's name is a remnant of a partial
// accept and would mislead; show a generic connected-helper string
// instead.
func DisplayLabel(inv *model.Invite) string {
	if inv.HelperID != nil && inv.Label == inv.OwnerName {
		return ConnectedHelperLabel
	}
	return inv.Label
}
