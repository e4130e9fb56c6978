package model

import "time"

// StoreReview is a client's rating of a store (`store_reviews`).
// Rating is an integer in 1..5.
type StoreReview struct {
	ID        uint64    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	ClientID  uint64    `json:"client_id"`
	StoreID   uint64    `json:"store_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CourierReview is a client's rating of a courier (`courier_reviews`).
// CourierID references couriers.id.
type CourierReview struct {
	ID        uint64    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	ClientID  uint64    `json:"client_id"`
	CourierID uint64    `json:"courier_id"`
	CreatedAt time.Time `json:"created_at"`
}
