package watcher

import (
	"fmt"

	"github.com/polkiloo/ikanmart/internal/domain/model"
)

// Notification is a one-shot message shown to the buyer.
type Notification struct {
	OrderID string
	Status  model.OrderStatus
	Title   string
	Body    string
}

var copyByStatus = map[model.OrderStatus][2]string{
	model.OrderStatusConfirmed:  {"Order confirmed", "The seller confirmed your order and is preparing your fish."},
	model.OrderStatusProcessing: {"Order on its way", "A driver has picked up your order."},
	model.OrderStatusDelivered:  {"Order delivered", "Your order has arrived. Don't forget to rate your driver."},
	model.OrderStatusCompleted:  {"Order completed", "Thanks for shopping at ikanmart!"},
	model.OrderStatusCancelled:  {"Order cancelled", "Your order was cancelled and no payment is due."},
}

// NotificationFor builds the notification announcing status.
func NotificationFor(orderID string, status model.OrderStatus) Notification {
	n := Notification{OrderID: orderID, Status: status}
	if text, ok := copyByStatus[status]; ok {
		n.Title, n.Body = text[0], text[1]
		return n
	}
	n.Title = "Order updated"
	n.Body = fmt.Sprintf("Your order is now %s.", status)
	return n
}
