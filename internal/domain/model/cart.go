package model

import "time"

// CartLine is a buyer's pending purchase of one product.
type CartLine struct {
	BuyerID   string
	ProductID string
	SellerID  string
	Quantity  int
	UnitPrice int64
	AddedAt   time.Time
}

// LineTotal is quantity times the price captured when the line was added.
func (l CartLine) LineTotal() int64 {
	return int64(l.Quantity) * l.UnitPrice
}
