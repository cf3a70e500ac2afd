package model

import "time"

// Product is a seller's listing with its stock counter.
type Product struct {
	ID        string
	SellerID  string
	Name      string
	Unit      string
	Price     int64
	Stock     int
	Available bool
	Version   int64
	UpdatedAt time.Time
}

// NextStock applies delta to current stock, flooring at zero.
func NextStock(current, delta int) int {
	return max(0, current+delta)
}
