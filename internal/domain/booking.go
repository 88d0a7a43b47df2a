package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

// Booking reserves one room over the half-open interval
// [CheckInDate, CheckOutDate).
type Booking struct {
	ID           uuid.UUID     `json:"id" gorm:"primaryKey"`
	UserID       uuid.UUID     `json:"user_id" gorm:"index;not null"`
	CastleID     uuid.UUID     `json:"castle_id" gorm:"index;not null"`
	RoomID       uuid.UUID     `json:"room_id" gorm:"index:idx_bookings_room_dates,priority:1;not null"`
	CheckInDate  time.Time     `json:"check_in_date" gorm:"index:idx_bookings_room_dates,priority:2;not null"`
	CheckOutDate time.Time     `json:"check_out_date" gorm:"index:idx_bookings_room_dates,priority:3;not null"`
	Guests       int           `json:"guests" gorm:"not null"`
	TotalPrice   float64       `json:"total_price" gorm:"not null"`
	Status       BookingStatus `json:"status" gorm:"size:16;not null"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (b *Booking) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = BookingPending
	}
	return nil
}

// Active reports whether the booking still holds its room.
func (b *Booking) Active() bool {
	return b.Status != BookingCancelled
}
