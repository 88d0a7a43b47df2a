package catalog

import (
	"net/http"
	"strings"

	"castlebooking/internal/pkg/apperror"
)

var (
	ErrCastleNotFound = apperror.NotFound("CASTLE_NOT_FOUND", "Castle not found")
	ErrRoomNotFound   = apperror.NotFound("ROOM_NOT_FOUND", "Room not found")
	ErrNoChanges      = apperror.Validation("NO_CHANGES", "No fields to update")
	ErrUnknownTag     = apperror.Validation("INVALID_TAG", "unknown tag value")
	ErrOwnerChange    = apperror.New(http.StatusForbidden, "FORBIDDEN", "Only an admin may change the castle owner")
)

func unknownTags(field string, values []string) error {
	return ErrUnknownTag.WithMessage("unknown " + field + ": " + strings.Join(values, ", "))
}
