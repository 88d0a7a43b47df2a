// Package policy decides who may change a resource. Every mutating service
// call resolves the owners of the resource it touches and passes them to
// Authorize; handlers never compare roles themselves beyond route gates.
package policy

import (
	"net/http"

	"castlebooking/internal/domain"
	"castlebooking/internal/pkg/apperror"

	"github.com/google/uuid"
)

var ErrForbidden = apperror.New(http.StatusForbidden, "FORBIDDEN", "You do not have permission to modify this resource")

// Actor is the authenticated caller.
type Actor struct {
	ID   uuid.UUID
	Role domain.UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

// CanMutate reports whether actor is an admin or one of ownerIDs.
func CanMutate(ownerIDs []uuid.UUID, actor Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	if actor.ID == uuid.Nil {
		return false
	}
	for _, id := range ownerIDs {
		if id == actor.ID {
			return true
		}
	}
	return false
}

func Authorize(ownerIDs []uuid.UUID, actor Actor) error {
	if !CanMutate(ownerIDs, actor) {
		return ErrForbidden
	}
	return nil
}

// BookingOwners are the booking's creator and the castle's owner.
func BookingOwners(b *domain.Booking, castleOwner uuid.UUID) []uuid.UUID {
	return []uuid.UUID{b.UserID, castleOwner}
}

func CastleOwners(c *domain.Castle) []uuid.UUID {
	return []uuid.UUID{c.OwnerID}
}

func UserOwners(userID uuid.UUID) []uuid.UUID {
	return []uuid.UUID{userID}
}
