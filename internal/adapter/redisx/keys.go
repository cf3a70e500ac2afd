package redisx

import "fmt"

const (
	keyOrderStatus  = "order_status:%s"
	keyIdemCheckout = "idem:order:create:%s"

	// inFlight marks a claimed idempotency key whose order is not known yet.
	inFlight = "in-flight"
)

func statusKey(orderID string) string {
	return fmt.Sprintf(keyOrderStatus, orderID)
}

func checkoutKey(key string) string {
	return fmt.Sprintf(keyIdemCheckout, key)
}
