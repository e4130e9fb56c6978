package model

import "time"

// OrderStatus is the delivery state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInDelivery OrderStatus = "in_delivery"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Order models a row in the `orders` table.  CourierID is nil until a
// courier is assigned.
//
// Fields:
//
//	ID              – primary key identifier.
//	DeliveryAddress – where the order is delivered.
//	Status          – pending, in_delivery, delivered or cancelled.
//	ClientID        – users.id of the client who placed the order.
//	CourierID       – users.id of the assigned courier (nullable).
//	CreatedAt       – timestamp of creation.
type Order struct {
	ID              uint64      `json:"id"`
	DeliveryAddress string      `json:"delivery_address"`
	Status          OrderStatus `json:"status"`
	ClientID        uint64      `json:"client_id"`
	CourierID       *uint64     `json:"courier_id"`
	CreatedAt       time.Time   `json:"created_at"`
}
