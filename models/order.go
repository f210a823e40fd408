package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the lifecycle state of a shared order. Status only moves
// forward: open -> finalized -> fulfilled. Fulfilled is terminal.
type OrderStatus string

const (
	StatusOpen      OrderStatus = "open"
	StatusFinalized OrderStatus = "finalized"
	StatusFulfilled OrderStatus = "fulfilled"
)

// Rank returns the forward-only ordering of a status (open < finalized <
// fulfilled). Unknown statuses rank below open.
func (s OrderStatus) Rank() int {
	switch s {
	case StatusOpen:
		return 0
	case StatusFinalized:
		return 1
	case StatusFulfilled:
		return 2
	}
	return -1
}

// CartLine is one product selection by one participant. Name, price and
// image are a point-in-time copy of catalog data captured when the line was
// written; they are never re-fetched, so totals stay locked to what the
// participant saw.
type CartLine struct {
	ProductID   string   `json:"id" bson:"id"`
	Name        string   `json:"name" bson:"name"`
	Price       float64  `json:"price" bson:"price"`
	ImgURL      string   `json:"img_url" bson:"img_url"`
	Quantity    int      `json:"quantity" bson:"quantity"`
	Ingredients []string `json:"ingredients" bson:"ingredients"`
}

// ParticipantCart holds the lines selected by a single participant. It is
// owned by the order that contains it and addressed in storage as
// users.<participantID> so sibling carts are never disturbed by a write.
type ParticipantCart struct {
	Products []CartLine `json:"products" bson:"products"`
}

// Order is the root aggregate: one shared shopping session against one
// restaurant, built by any number of participants.
type Order struct {
	ID           primitive.ObjectID         `json:"order_id" bson:"_id,omitempty"`
	RestaurantID string                     `json:"restaurant_id" bson:"restaurant_id"`
	Users        map[string]ParticipantCart `json:"users" bson:"users"`
	Status       OrderStatus                `json:"status" bson:"status"`
	CreatedAt    time.Time                  `json:"created_at" bson:"created_at"`
	FinalizedAt  *time.Time                 `json:"finalized_at,omitempty" bson:"finalized_at,omitempty"`
	FulfilledAt  *time.Time                 `json:"fulfilled_at,omitempty" bson:"fulfilled_at,omitempty"`
}

// FinalizedLine is one row of the cross-participant aggregate bill. Lines
// are grouped by (product id, sorted ingredient set); the aggregate is
// recomputed on every finalize and never persisted on its own.
type FinalizedLine struct {
	ProductID    string   `json:"id"`
	Name         string   `json:"name"`
	PricePerUnit float64  `json:"price_per_unit"`
	ImgURL       string   `json:"img_url"`
	Quantity     int      `json:"quantity"`
	Ingredients  []string `json:"ingredients"`
	TotalPrice   float64  `json:"total_price"`
}

// FinalizedOrder is the result of collapsing an order into a bill.
type FinalizedOrder struct {
	Products      []FinalizedLine `json:"products"`
	TotalPrice    float64         `json:"total_price"`
	TotalQuantity int             `json:"total_quantity"`
	FinalizedAt   time.Time       `json:"finalized_at"`
}

// ModifyResult reports what a cart modification did.
type ModifyResult string

const (
	ModifyCreated ModifyResult = "Created"
	ModifyUpdated ModifyResult = "Updated"
	ModifyDeleted ModifyResult = "Deleted"
)
