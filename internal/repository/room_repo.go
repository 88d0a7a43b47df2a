package repository

import (
	"context"

	"castlebooking/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	return translate(r.db.WithContext(ctx).Create(room).Error)
}

func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (r *RoomRepository) ListByCastle(ctx context.Context, castleID uuid.UUID, minCapacity int) ([]domain.Room, error) {
	q := r.db.WithContext(ctx).Where("castle_id = ?", castleID)
	if minCapacity > 0 {
		q = q.Where("capacity >= ?", minCapacity)
	}
	var rooms []domain.Room
	err := q.Order("created_at ASC").Find(&rooms).Error
	return rooms, err
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	return translate(r.db.WithContext(ctx).Save(room).Error)
}

// Delete removes the room and its bookings and prunes the castle's
// booking id list in one transaction.
func (r *RoomRepository) Delete(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		castle, err := lockCastle(tx, room.CastleID)
		if err != nil {
			return err
		}

		var bookingIDs []uuid.UUID
		if err := tx.Model(&domain.Booking{}).Where("room_id = ?", room.ID).Pluck("id", &bookingIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", room.ID).Delete(&domain.Booking{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Room{}, "id = ?", room.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if castle.RemoveBookings(bookingIDs...) {
			return saveBookingIDs(tx, castle)
		}
		return nil
	})
}
