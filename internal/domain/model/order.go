package model

import "time"

// OrderStatus describes delivery lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentMethod is the closed set of payment options offered at checkout.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cod"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
	PaymentEWallet        PaymentMethod = "e_wallet"
)

// Known reports whether the method belongs to the closed set.
func (m PaymentMethod) Known() bool {
	switch m {
	case PaymentCashOnDelivery, PaymentBankTransfer, PaymentEWallet:
		return true
	default:
		return false
	}
}

// Supported reports whether checkout can complete with the method.
// Only pay-on-delivery is wired end to end.
func (m PaymentMethod) Supported() bool {
	return m == PaymentCashOnDelivery
}

// PaymentStatus tracks collection of the order amount.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// AddressSnapshot is copied into the order at creation and never re-derived.
type AddressSnapshot struct {
	RecipientName string
	Phone         string
	Address       string
	Notes         string
}

// Order is the header document of a placed order.
type Order struct {
	ID              string
	BuyerID         string
	SellerID        string
	BuyerName       string
	BuyerPhone      string
	DeliveryAddress string
	DeliveryNotes   string
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	TotalAmount     int64
	Status          OrderStatus
	DriverID        *string
	DriverRated     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeliveredAt     *time.Time
}

// OrderLine is an immutable line item with product data snapshotted at order time.
type OrderLine struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Unit        string
	Quantity    int
	UnitPrice   int64
	LineTotal   int64
}

// OrderPatch carries the optional fields written together with a status transition.
type OrderPatch struct {
	DriverID      *string
	DeliveredAt   *time.Time
	PaymentStatus *PaymentStatus
}

// SumLineTotals adds up line totals.
func SumLineTotals(lines []OrderLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.LineTotal
	}
	return total
}
