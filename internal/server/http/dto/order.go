package dto

import "time"

// Address is the delivery address captured at checkout.
type Address struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Notes         string `json:"notes,omitempty"`
}

// PlaceOrderRequest places an order. Without lines the stored cart is used.
type PlaceOrderRequest struct {
	Address       Address            `json:"address"`
	PaymentMethod string             `json:"payment_method"`
	Lines         []OrderLineRequest `json:"lines,omitempty"`
}

// OrderLineRequest names a product and quantity. Price and seller are read
// from the catalogue when the order is placed.
type OrderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderLine is an order line snapshot.
type OrderLine struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Unit        string `json:"unit"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	LineTotal   int64  `json:"line_total"`
}

// Order is an order header with optional lines.
type Order struct {
	ID              string      `json:"id"`
	BuyerID         string      `json:"buyer_id"`
	SellerID        string      `json:"seller_id"`
	RecipientName   string      `json:"recipient_name"`
	Phone           string      `json:"phone"`
	DeliveryAddress string      `json:"delivery_address"`
	DeliveryNotes   string      `json:"delivery_notes,omitempty"`
	PaymentMethod   string      `json:"payment_method"`
	PaymentStatus   string      `json:"payment_status"`
	TotalAmount     int64       `json:"total_amount"`
	Status          string      `json:"status"`
	DriverID        *string     `json:"driver_id,omitempty"`
	DriverRated     bool        `json:"driver_rated"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	DeliveredAt     *time.Time  `json:"delivered_at,omitempty"`
	Lines           []OrderLine `json:"lines,omitempty"`
}

// PlaceOrderResponse confirms a placed order.
type PlaceOrderResponse struct {
	Order    Order `json:"order"`
	Replayed bool  `json:"replayed"`
	// StockWarnings lists products whose stock could not be updated.
	StockWarnings []string `json:"stock_warnings,omitempty"`
}

// StatusResponse reports the current status of an order.
type StatusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// UpdateStatusRequest moves an order to a new status.
type UpdateStatusRequest struct {
	Status   string `json:"status"`
	DriverID string `json:"driver_id,omitempty"`
}

// RatingRequest rates the driver of a delivered order.
type RatingRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment,omitempty"`
}

// RatingResponse is a stored driver rating.
type RatingResponse struct {
	ID        string    `json:"id"`
	DriverID  string    `json:"driver_id"`
	OrderID   string    `json:"order_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse carries a failure message, itemized for stock shortages.
type ErrorResponse struct {
	Error     string     `json:"error"`
	Shortages []Shortage `json:"shortages,omitempty"`
}
