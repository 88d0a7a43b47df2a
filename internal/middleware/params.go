package middleware

import (
	"castlebooking/internal/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UUIDParam parses the named path parameter as a UUID.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Validation("INVALID_ID", "invalid "+name+": "+raw)
	}
	return id, nil
}
