package auth

import (
	"time"

	"castlebooking/internal/domain"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest is a partial update; nil fields are left alone.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,min=1"`
	Password  *string `json:"password" validate:"omitempty,min=6"`
	Image     *string `json:"image"`
}

func (r UpdateUserRequest) Empty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Email == nil &&
		r.Phone == nil && r.Password == nil && r.Image == nil
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type UserPublic struct {
	ID        uuid.UUID       `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Role      domain.UserRole `json:"role"`
	Image     string          `json:"image,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func toPublic(u *domain.User) UserPublic {
	return UserPublic{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
	}
}

type AuthResponse struct {
	User  UserPublic `json:"user"`
	Token string     `json:"token"`
}
