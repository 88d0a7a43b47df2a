package booking

type CreateBookingRequest struct {
	CheckInDate  string `json:"check_in_date" validate:"required"`
	CheckOutDate string `json:"check_out_date" validate:"required"`
	Guests       int    `json:"guests" validate:"required,gt=0"`
}

// UpdateBookingRequest is a partial update; nil fields keep their value.
type UpdateBookingRequest struct {
	CheckInDate  *string `json:"check_in_date"`
	CheckOutDate *string `json:"check_out_date"`
	Guests       *int    `json:"guests" validate:"omitempty,gt=0"`
}

func (r UpdateBookingRequest) Empty() bool {
	return r.CheckInDate == nil && r.CheckOutDate == nil && r.Guests == nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

// AvailabilityQuery mirrors the query string of the available-rooms route.
// Values stay raw so malformed dates can be ignored.
type AvailabilityQuery struct {
	CheckInDate  string `form:"checkInDate"`
	CheckOutDate string `form:"checkOutDate"`
	Guests       string `form:"guests"`
}
