package auth

import (
	"net/http"

	"castlebooking/internal/pkg/apperror"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password.
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "incorrect email or password")
	ErrEmailAlreadyExists = apperror.Conflict("EMAIL_EXISTS", "This email is already registered")
	ErrUserNotFound       = apperror.NotFound("USER_NOT_FOUND", "User not found")
	ErrNoChanges          = apperror.Validation("NO_CHANGES", "No fields to update")
	ErrInvalidRole        = apperror.Validation("INVALID_ROLE", "role must be one of: guest, owner, admin")
)
