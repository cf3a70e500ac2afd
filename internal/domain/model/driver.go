package model

import "time"

// Driver delivers orders on behalf of a seller.
type Driver struct {
	ID          string
	SellerID    string
	Name        string
	Phone       string
	Available   bool
	RatingSum   int64
	RatingCount int64
}

// AverageRating returns the running mean of submitted scores.
func (d Driver) AverageRating() float64 {
	if d.RatingCount == 0 {
		return 0
	}
	return float64(d.RatingSum) / float64(d.RatingCount)
}

// DriverRating is a buyer's score for the driver of one order.
type DriverRating struct {
	ID        string
	DriverID  string
	OrderID   string
	BuyerID   string
	Score     int
	Comment   string
	CreatedAt time.Time
}

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)
