// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/iliyamo/glovo-marketplace/internal/model"
)

// OrderEventsQueue is the durable queue carrying order lifecycle events.
const OrderEventsQueue = "order.events"

// Event types.
const (
	OrderCreated = "order.created"
	OrderUpdated = "order.updated"
)

// OrderEvent is published whenever an order is created or updated.  It
// carries enough of the order for downstream consumers (notifications,
// courier dispatch, analytics) to act without querying the database.
type OrderEvent struct {
	Type            string            `json:"type"`
	OrderID         uint64            `json:"order_id"`
	Status          model.OrderStatus `json:"status"`
	ClientID        uint64            `json:"client_id"`
	CourierID       *uint64           `json:"courier_id,omitempty"`
	DeliveryAddress string            `json:"delivery_address"`
	OccurredAt      string            `json:"occurred_at"`
}

// NewOrderEvent snapshots o as an event of type typ at time at.
func NewOrderEvent(typ string, o *model.Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:            typ,
		OrderID:         o.ID,
		Status:          o.Status,
		ClientID:        o.ClientID,
		CourierID:       o.CourierID,
		DeliveryAddress: o.DeliveryAddress,
		OccurredAt:      at.UTC().Format(time.RFC3339),
	}
}
