package booking

import (
	"castlebooking/internal/pkg/apperror"
)

var (
	ErrBookingNotFound   = apperror.NotFound("BOOKING_NOT_FOUND", "Booking not found")
	ErrCastleNotFound    = apperror.NotFound("CASTLE_NOT_FOUND", "Castle not found")
	ErrRoomNotFound      = apperror.NotFound("ROOM_NOT_FOUND", "Room not found")
	ErrRoomNotInCastle   = apperror.Validation("ROOM_NOT_IN_CASTLE", "room does not belong to the selected castle")
	ErrInvalidDateRange  = apperror.Validation("INVALID_DATE_RANGE", "check_out_date must be after check_in_date")
	ErrInvalidGuests     = apperror.Validation("INVALID_GUESTS", "guests must be a number")
	ErrTooManyGuests     = apperror.Validation("TOO_MANY_GUESTS", "guests exceed the room capacity")
	ErrNoChanges         = apperror.Validation("NO_CHANGES", "No fields to update")
	ErrInvalidTransition = apperror.Validation("INVALID_STATUS_TRANSITION", "booking status cannot change that way")
	ErrRoomUnavailable   = apperror.Conflict("ROOM_UNAVAILABLE", "Room is not available for the selected dates")
)
