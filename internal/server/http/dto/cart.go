package dto

import "time"

// AddCartLineRequest adds a quantity of one product to the cart.
type AddCartLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartLine is a cart line as returned to clients.
type CartLine struct {
	ProductID string     `json:"product_id"`
	SellerID  string     `json:"seller_id"`
	Quantity  int        `json:"quantity"`
	UnitPrice int64      `json:"unit_price"`
	LineTotal int64      `json:"line_total,omitempty"`
	AddedAt   *time.Time `json:"added_at,omitempty"`
}

// Shortage itemizes one product the stock cannot cover.
type Shortage struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// ValidationResponse is the outcome of a cart check.
type ValidationResponse struct {
	Valid     bool       `json:"valid"`
	Shortages []Shortage `json:"shortages"`
}
