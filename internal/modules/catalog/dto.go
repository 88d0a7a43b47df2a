package catalog

import (
	"castlebooking/internal/domain"

	"github.com/google/uuid"
)

type CreateCastleRequest struct {
	// OwnerID is honoured for admins only; everyone else owns what they create.
	OwnerID            *uuid.UUID `json:"owner_id"`
	Name               string     `json:"name" validate:"required"`
	Description        string     `json:"description" validate:"required"`
	Address            string     `json:"address" validate:"required"`
	Country            string     `json:"country"`
	Images             []string   `json:"images" validate:"required,min=1"`
	Events             []string   `json:"events"`
	Facilities         []string   `json:"facilities"`
	Amenities          []string   `json:"amenities"`
	HouseRules         []string   `json:"house_rules"`
	SafetyFeatures     []string   `json:"safety_features"`
	CheckIn            string     `json:"check_in" validate:"omitempty,clock"`
	CheckOut           string     `json:"check_out" validate:"omitempty,clock"`
	CancellationPolicy string     `json:"cancellation_policy" validate:"omitempty,oneof=flexible moderate strict"`
}

// UpdateCastleRequest is a partial update. Nil pointers and nil slices are
// left untouched.
type UpdateCastleRequest struct {
	OwnerID            *uuid.UUID `json:"owner_id"`
	Name               *string    `json:"name" validate:"omitempty,min=1"`
	Description        *string    `json:"description" validate:"omitempty,min=1"`
	Address            *string    `json:"address" validate:"omitempty,min=1"`
	Country            *string    `json:"country"`
	Images             []string   `json:"images" validate:"omitempty,min=1"`
	Events             []string   `json:"events"`
	Facilities         []string   `json:"facilities"`
	Amenities          []string   `json:"amenities"`
	HouseRules         []string   `json:"house_rules"`
	SafetyFeatures     []string   `json:"safety_features"`
	CheckIn            *string    `json:"check_in" validate:"omitempty,clock"`
	CheckOut           *string    `json:"check_out" validate:"omitempty,clock"`
	CancellationPolicy *string    `json:"cancellation_policy" validate:"omitempty,oneof=flexible moderate strict"`
}

func (r UpdateCastleRequest) Empty() bool {
	return r.OwnerID == nil && r.Name == nil && r.Description == nil && r.Address == nil &&
		r.Country == nil && r.Images == nil && r.Events == nil && r.Facilities == nil &&
		r.Amenities == nil && r.HouseRules == nil && r.SafetyFeatures == nil &&
		r.CheckIn == nil && r.CheckOut == nil && r.CancellationPolicy == nil
}

type CreateRoomRequest struct {
	Name      string       `json:"name" validate:"required"`
	Capacity  int          `json:"capacity" validate:"required,gt=0"`
	Beds      []domain.Bed `json:"beds" validate:"required,min=1,dive"`
	Amenities []string     `json:"amenities"`
	Price     float64      `json:"price" validate:"required,gt=0"`
}

type UpdateRoomRequest struct {
	Name      *string      `json:"name" validate:"omitempty,min=1"`
	Capacity  *int         `json:"capacity" validate:"omitempty,gt=0"`
	Beds      []domain.Bed `json:"beds" validate:"omitempty,min=1,dive"`
	Amenities []string     `json:"amenities"`
	Price     *float64     `json:"price" validate:"omitempty,gt=0"`
}

func (r UpdateRoomRequest) Empty() bool {
	return r.Name == nil && r.Capacity == nil && r.Beds == nil && r.Amenities == nil && r.Price == nil
}
