package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Bed struct {
	Type  string `json:"type" validate:"required"`
	Count int    `json:"count" validate:"required,gt=0"`
}

type Room struct {
	ID        uuid.UUID                   `json:"id" gorm:"primaryKey"`
	CastleID  uuid.UUID                   `json:"castle_id" gorm:"index;not null"`
	Name      string                      `json:"name" gorm:"not null"`
	Capacity  int                         `json:"capacity" gorm:"not null"`
	Beds      datatypes.JSONSlice[Bed]    `json:"beds"`
	Amenities datatypes.JSONSlice[string] `json:"amenities"`
	Price     float64                     `json:"price" gorm:"not null"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

func (r *Room) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
