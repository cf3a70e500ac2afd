package model

import "time"

// StatusEvent records one applied order status transition.
type StatusEvent struct {
	EventID    string
	OrderID    string
	SellerID   string
	From       OrderStatus
	To         OrderStatus
	OccurredAt time.Time
}
