package catalog

import (
	"context"

	"castlebooking/internal/domain"

	"github.com/google/uuid"
)

type CastleRepository interface {
	Create(ctx context.Context, c *domain.Castle) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Castle, error)
	List(ctx context.Context) ([]domain.Castle, error)
	Update(ctx context.Context, c *domain.Castle) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type RoomRepository interface {
	Create(ctx context.Context, r *domain.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	ListByCastle(ctx context.Context, castleID uuid.UUID, minCapacity int) ([]domain.Room, error)
	Update(ctx context.Context, r *domain.Room) error
	Delete(ctx context.Context, r *domain.Room) error
}
