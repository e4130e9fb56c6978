package model

// Category groups stores (e.g. groceries, pharmacy).  This struct
// corresponds to a row in the `categories` table; the name is unique.
type Category struct {
	ID   uint64 `json:"id"`   // categories.id
	Name string `json:"name"` // categories.name
}
