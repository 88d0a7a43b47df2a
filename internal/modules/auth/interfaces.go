package auth

import (
	"context"

	"castlebooking/internal/domain"

	"github.com/google/uuid"
)

// UserRepository lists the methods the auth service uses.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	EmailTaken(ctx context.Context, email string, except uuid.UUID) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRole) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TokenIssuer interface {
	GenerateToken(userID uuid.UUID, name, role string) (string, error)
}
