package booking

import (
	"context"
	"time"

	"castlebooking/internal/domain"

	"github.com/google/uuid"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	Update(ctx context.Context, b *domain.Booking, recheck bool) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error
	Delete(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	ListByCastle(ctx context.Context, castleID uuid.UUID) ([]domain.Booking, error)
	BookedRoomIDs(ctx context.Context, castleID uuid.UUID, checkIn, checkOut time.Time) ([]uuid.UUID, error)
}

type CastleReader interface {
	OwnerID(ctx context.Context, castleID uuid.UUID) (uuid.UUID, error)
}

type RoomReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	ListByCastle(ctx context.Context, castleID uuid.UUID, minCapacity int) ([]domain.Room, error)
}
