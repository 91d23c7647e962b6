package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusDelivered OrderStatus = "delivered"
)

// Order is a special-order request for a publication outside the normal
// monthly flow, tracked per item until delivered.
type Order struct {
	ID        string      `json:"id"`
	OwnerID   int64       `json:"owner_id"`
	ItemID    string      `json:"item_id"`
	ItemName  string      `json:"item_name"`
	Quantity  int         `json:"quantity"`
	Requester string      `json:"requester"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
