package model

import "time"

// CustomItem is a user-added publication row that is not part of the
// official catalog. The ID is generated once at creation and stable
// thereafter; it doubles as the monthly-record key.
type CustomItem struct {
	ID        string    `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"item"`
	Code      string    `json:"code,omitempty"`
	Abbr      string    `json:"abbr,omitempty"`
	Category  string    `json:"category"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}
