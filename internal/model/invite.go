package model

import "time"

// PendingLabel is the sentinel stored on an invite that has not been
// accepted yet.
const PendingLabel = "Aguardando cadastro..."

// Invite is a delegated-access relationship: the holder of the token may
// view and edit the owner's inventory. HelperID is nil until accepted.
type Invite struct {
	Token      string    `json:"token"`
	OwnerID    int64     `json:"owner_id"`
	OwnerName  string    `json:"owner_name"`
	Label      string    `json:"label"`
	HelperID   *int64    `json:"helper_id"`
	HelperName string    `json:"helper_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Accepted reports whether a helper has claimed the invite.
func (i *Invite) Accepted() bool {
	return i.HelperID != nil && i.Label != PendingLabel
}
