package model

import "time"

// Subscription is a periodic-publication entry on the monthly checklist
// (magazine issues expected every month for a subscriber).
type Subscription struct {
	ID          string    `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Publication string    `json:"publication"`
	Subscriber  string    `json:"subscriber"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
}

// SubscriptionCheck marks a subscription as received for one month.
type SubscriptionCheck struct {
	SubscriptionID string    `json:"subscription_id"`
	Month          string    `json:"month"`
	ReceivedAt     time.Time `json:"received_at"`
}
