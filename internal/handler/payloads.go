package handler

// Request payloads for the CRUD resources.  Each payload carries its
// validation rules and an Apply method that writes every field onto the
// model explicitly, so an update is a full-record replace and adding a
// column means touching Apply.

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/glovo-marketplace/internal/model"
)

type CategoryPayload struct {
	Name string `json:"name" validate:"required,max=55"`
}

func (p CategoryPayload) Apply(c *model.Category) {
	c.Name = p.Name
}

type StorePayload struct {
	Name        string  `json:"name" validate:"required,max=55"`
	Description string  `json:"description" validate:"max=5000"`
	Address     string  `json:"address" validate:"required,max=255"`
	Image       *string `json:"image" validate:"omitempty,max=255"`
	OwnerID     uint64  `json:"owner_id" validate:"required"`
	CategoryID  uint64  `json:"category_id" validate:"required"`
}

func (p StorePayload) Apply(s *model.Store) {
	s.Name = p.Name
	s.Description = p.Description
	s.Address = p.Address
	s.Image = p.Image
	s.OwnerID = p.OwnerID
	s.CategoryID = p.CategoryID
}

type StoreContactPayload struct {
	PhoneNumber string `json:"phone_number" validate:"required,max=32"`
	StoreID     uint64 `json:"store_id" validate:"required"`
}

func (p StoreContactPayload) Apply(c *model.StoreContact) {
	c.PhoneNumber = p.PhoneNumber
	c.StoreID = p.StoreID
}

type ProductPayload struct {
	Name        string          `json:"name" validate:"required,max=55"`
	Description string          `json:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price" validate:"gte=0,lte=999999.99"`
	Image       *string         `json:"image" validate:"omitempty,max=255"`
	StoreID     uint64          `json:"store_id" validate:"required"`
}

func (p ProductPayload) Apply(m *model.Product) {
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price.Round(2)
	m.Image = p.Image
	m.StoreID = p.StoreID
}

type ProductComboPayload struct {
	Name        string          `json:"name" validate:"required,max=55"`
	Description string          `json:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price" validate:"gte=0,lte=999999.99"`
	Image       *string         `json:"image" validate:"omitempty,max=255"`
	StoreID     uint64          `json:"store_id" validate:"required"`
}

func (p ProductComboPayload) Apply(m *model.ProductCombo) {
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price.Round(2)
	m.Image = p.Image
	m.StoreID = p.StoreID
}

type OrderPayload struct {
	DeliveryAddress string            `json:"delivery_address" validate:"required,max=255"`
	Status          model.OrderStatus `json:"status" validate:"omitempty,oneof=pending in_delivery delivered cancelled"`
	ClientID        uint64            `json:"client_id" validate:"required"`
	CourierID       *uint64           `json:"courier_id" validate:"omitempty,gt=0"`
}

// Apply defaults an empty status to pending.
func (p OrderPayload) Apply(o *model.Order) {
	o.DeliveryAddress = p.DeliveryAddress
	o.Status = p.Status
	if o.Status == "" {
		o.Status = model.OrderPending
	}
	o.ClientID = p.ClientID
	o.CourierID = p.CourierID
}

type CourierPayload struct {
	UserID  uint64              `json:"user_id" validate:"required"`
	Status  model.CourierStatus `json:"status" validate:"omitempty,oneof=available busy"`
	OrderID *uint64             `json:"order_id" validate:"omitempty,gt=0"`
}

// Apply defaults an empty status to available.
func (p CourierPayload) Apply(c *model.Courier) {
	c.UserID = p.UserID
	c.Status = p.Status
	if c.Status == "" {
		c.Status = model.CourierAvailable
	}
	c.OrderID = p.OrderID
}

type StoreReviewPayload struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment" validate:"max=2000"`
	ClientID uint64 `json:"client_id" validate:"required"`
	StoreID  uint64 `json:"store_id" validate:"required"`
}

func (p StoreReviewPayload) Apply(r *model.StoreReview) {
	r.Rating = p.Rating
	r.Comment = p.Comment
	r.ClientID = p.ClientID
	r.StoreID = p.StoreID
}

type CourierReviewPayload struct {
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
	ClientID  uint64 `json:"client_id" validate:"required"`
	CourierID uint64 `json:"courier_id" validate:"required"`
}

func (p CourierReviewPayload) Apply(r *model.CourierReview) {
	r.Rating = p.Rating
	r.Comment = p.Comment
	r.ClientID = p.ClientID
	r.CourierID = p.CourierID
}
