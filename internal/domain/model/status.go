package model

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:    {OrderStatusConfirmed: true, OrderStatusCancelled: true},
	OrderStatusConfirmed:  {OrderStatusProcessing: true},
	OrderStatusProcessing: {OrderStatusDelivered: true},
	OrderStatusDelivered:  {OrderStatusCompleted: true},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// CanTransition reports whether the lifecycle allows moving from one status to another.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// Terminal reports whether no transition leaves the status.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Valid reports whether the status is part of the lifecycle.
func (s OrderStatus) Valid() bool {
	_, ok := validNext[s]
	return ok
}

// Rateable reports whether a driver rating may be submitted in this status.
func (s OrderStatus) Rateable() bool {
	return s == OrderStatusDelivered || s == OrderStatusCompleted
}
