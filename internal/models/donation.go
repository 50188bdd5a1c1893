package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a donation.
type Status string

// Donation lifecycle states. PickedUp, Expired and Cancelled are terminal.
const (
	StatusAvailable Status = "available"
	StatusClaimed   Status = "claimed"
	StatusPickedUp  Status = "picked_up"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// AllStatuses lists every donation status in display order.
var AllStatuses = []Status{StatusAvailable, StatusClaimed, StatusPickedUp, StatusExpired, StatusCancelled}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusClaimed, StatusPickedUp, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusPickedUp, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// transitions encodes the donation state machine:
//
//	available -> claimed | expired | cancelled
//	claimed   -> picked_up | cancelled
var transitions = map[Status][]Status{
	StatusAvailable: {StatusClaimed, StatusExpired, StatusCancelled},
	StatusClaimed:   {StatusPickedUp, StatusCancelled},
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Category is the food category of a donation.
type Category string

// Known donation categories.
const (
	CategoryProduce   Category = "produce"
	CategoryBakery    Category = "bakery"
	CategoryDairy     Category = "dairy"
	CategoryPrepared  Category = "prepared"
	CategoryPantry    Category = "pantry"
	CategoryBeverages Category = "beverages"
	CategoryOther     Category = "other"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategoryProduce, CategoryBakery, CategoryDairy, CategoryPrepared,
	CategoryPantry, CategoryBeverages, CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range AllCategories {
		if c == k {
			return true
		}
	}
	return false
}

// NormalizeCategory maps unknown category strings to CategoryOther.
func NormalizeCategory(raw string) Category {
	c := Category(raw)
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// Donation is a listed surplus-food offer.
type Donation struct {
	ID             string    `json:"id"`
	FoodName       string    `json:"food_name"`
	Category       Category  `json:"category"`
	Quantity       string    `json:"quantity"`
	PickupLocation string    `json:"pickup_location"`
	Description    string    `json:"description"`
	ExpiryDate     time.Time `json:"expiry_date"`
	DonorID        string    `json:"donor_id"`
	// ClaimedBy is the recipient who claimed the donation, if any.
	ClaimedBy string `json:"claimed_by,omitempty"`
	Status    Status `json:"status"`
	// Version is an optimistic concurrency counter, bumped on every mutation.
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDonationID generates an opaque unique donation id.
func NewDonationID() string {
	return fmt.Sprintf("don-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:5])
}
