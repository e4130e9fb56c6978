package model

// CourierStatus tells whether a courier can take a new order.
type CourierStatus string

const (
	CourierAvailable CourierStatus = "available"
	CourierBusy      CourierStatus = "busy"
)

// Courier registers a user as a courier (`couriers`).  OrderID points at
// the order currently being delivered, if any.
type Courier struct {
	ID      uint64        `json:"id"`
	UserID  uint64        `json:"user_id"`
	Status  CourierStatus `json:"status"`
	OrderID *uint64       `json:"order_id"`
}
