package events

import (
	"encoding/json"
	"time"
)

const (
	EventOrderStatusChanged = "OrderStatusChanged"

	eventVersion = 1
	producerName = "ikanmart"
)

// Envelope wraps every event written to Kafka.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// StatusChangedPayload is the body of an OrderStatusChanged event.
type StatusChangedPayload struct {
	OrderID  string `json:"order_id"`
	SellerID string `json:"seller_id"`
	From     string `json:"from"`
	To       string `json:"to"`
}
