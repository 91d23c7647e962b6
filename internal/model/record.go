package model

import "time"

// Record holds the counted quantities for one item in one calendar month.
// Months accumulate indefinitely; a record is created or merged whenever a
// quantity field is edited. Extensions carries any extra per-item fields
// the client attaches (stored as JSON, never interpreted server-side).
type Record struct {
	OwnerID    int64             `json:"owner_id"`
	Month      string            `json:"month"`
	ItemID     string            `json:"item_id"`
	Previous   int               `json:"previous"`
	Received   int               `json:"received"`
	Current    int               `json:"current"`
	Extensions map[string]string `json:"extensions,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
