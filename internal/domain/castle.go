package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CancellationPolicy string

const (
	PolicyFlexible CancellationPolicy = "flexible"
	PolicyModerate CancellationPolicy = "moderate"
	PolicyStrict   CancellationPolicy = "strict"
)

const (
	DefaultCheckIn  = "15:00"
	DefaultCheckOut = "11:00"
)

func ValidCancellationPolicy(p CancellationPolicy) bool {
	switch p {
	case PolicyFlexible, PolicyModerate, PolicyStrict:
		return true
	}
	return false
}

// Castle is a rentable property. Rooms live in their own table and are
// referenced through castle_id; BookingIDs is a convenience list kept in
// step with the bookings table inside the same transaction.
type Castle struct {
	ID                 uuid.UUID                      `json:"id" gorm:"primaryKey"`
	OwnerID            uuid.UUID                      `json:"owner_id" gorm:"index;not null"`
	Name               string                         `json:"name" gorm:"not null"`
	Description        string                         `json:"description" gorm:"type:text"`
	Address            string                         `json:"address" gorm:"not null"`
	Country            string                         `json:"country,omitempty"`
	Images             datatypes.JSONSlice[string]    `json:"images"`
	Events             datatypes.JSONSlice[string]    `json:"events"`
	Facilities         datatypes.JSONSlice[string]    `json:"facilities"`
	Amenities          datatypes.JSONSlice[string]    `json:"amenities"`
	HouseRules         datatypes.JSONSlice[string]    `json:"house_rules"`
	SafetyFeatures     datatypes.JSONSlice[string]    `json:"safety_features"`
	CheckIn            string                         `json:"check_in" gorm:"size:5;not null"`
	CheckOut           string                         `json:"check_out" gorm:"size:5;not null"`
	CancellationPolicy CancellationPolicy             `json:"cancellation_policy" gorm:"size:16;not null"`
	BookingIDs         datatypes.JSONSlice[uuid.UUID] `json:"booking_ids"`
	CreatedAt          time.Time                      `json:"created_at"`
	UpdatedAt          time.Time                      `json:"updated_at"`

	Rooms []Room `json:"rooms,omitempty" gorm:"foreignKey:CastleID"`
}

func (c *Castle) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CheckIn == "" {
		c.CheckIn = DefaultCheckIn
	}
	if c.CheckOut == "" {
		c.CheckOut = DefaultCheckOut
	}
	if c.CancellationPolicy == "" {
		c.CancellationPolicy = PolicyModerate
	}
	return nil
}

// AddBooking appends id unless it is already present.
func (c *Castle) AddBooking(id uuid.UUID) bool {
	for _, existing := range c.BookingIDs {
		if existing == id {
			return false
		}
	}
	c.BookingIDs = append(c.BookingIDs, id)
	return true
}

// RemoveBookings drops every id in ids from BookingIDs.
func (c *Castle) RemoveBookings(ids ...uuid.UUID) bool {
	if len(ids) == 0 || len(c.BookingIDs) == 0 {
		return false
	}
	drop := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := c.BookingIDs[:0]
	for _, id := range c.BookingIDs {
		if _, ok := drop[id]; !ok {
			kept = append(kept, id)
		}
	}
	changed := len(kept) != len(c.BookingIDs)
	c.BookingIDs = kept
	return changed
}
