package model

// Store represents a shop listed on the marketplace.  A store belongs to
// one owner account and one category; products, combos, contacts and
// reviews reference it by store_id.  Ownership is not checked against the
// owner role.
//
// Fields:
//
//	ID          – primary key identifier.
//	Name        – display name.
//	Description – free text description.
//	Address     – street address.
//	Image       – optional image reference (URL or object key).
//	OwnerID     – users.id of the owner.
//	CategoryID  – categories.id.
type Store struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Image       *string `json:"image"`
	OwnerID     uint64  `json:"owner_id"`
	CategoryID  uint64  `json:"category_id"`
}

// StoreContact is a phone number attached to a store (`store_contacts`).
type StoreContact struct {
	ID          uint64 `json:"id"`
	PhoneNumber string `json:"phone_number"`
	StoreID     uint64 `json:"store_id"`
}
