package repository

import (
	"context"
	"errors"
	"time"

	"castlebooking/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// overlapping selects active bookings of a room whose interval intersects
// [checkIn, checkOut).
func overlapping(tx *gorm.DB, roomID uuid.UUID, checkIn, checkOut time.Time) *gorm.DB {
	return tx.Model(&domain.Booking{}).
		Where("room_id = ?", roomID).
		Where("status <> ?", domain.BookingCancelled).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)
}

func lockRoom(tx *gorm.DB, id uuid.UUID) error {
	var room domain.Room
	return translate(tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&room, "id = ?", id).Error)
}

// Create inserts b unless an active booking for the same room overlaps it,
// and records its id on the castle. The room row is locked for the
// duration so concurrent creates for one room run one after another.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoom(tx, b.RoomID); err != nil {
			return err
		}

		var cnt int64
		if err := overlapping(tx, b.RoomID, b.CheckInDate, b.CheckOutDate).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return ErrOverlap
		}

		if err := tx.Create(b).Error; err != nil {
			return err
		}

		castle, err := lockCastle(tx, b.CastleID)
		if err != nil {
			return err
		}
		if castle.AddBooking(b.ID) {
			return saveBookingIDs(tx, castle)
		}
		return nil
	})
	return translate(err)
}

// Update saves b. When recheck is set and b is active the overlap test runs
// again, ignoring b itself.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking, recheck bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoom(tx, b.RoomID); err != nil {
			return err
		}
		if recheck && b.Active() {
			var cnt int64
			err := overlapping(tx, b.RoomID, b.CheckInDate, b.CheckOutDate).
				Where("id <> ?", b.ID).
				Count(&cnt).Error
			if err != nil {
				return err
			}
			if cnt > 0 {
				return ErrOverlap
			}
		}
		return tx.Save(b).Error
	})
	return translate(err)
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	tx := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", id).Update("status", status)
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes b and prunes its id from the castle in one transaction.
func (r *BookingRepository) Delete(ctx context.Context, b *domain.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Booking{}, "id = ?", b.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		castle, err := lockCastle(tx, b.CastleID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if castle.RemoveBookings(b.ID) {
			return saveBookingIDs(tx, castle)
		}
		return nil
	})
	return translate(err)
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *BookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).Order("check_in_date ASC").Find(&out).Error
	return out, err
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("check_in_date ASC").Find(&out).Error
	return out, err
}

func (r *BookingRepository) ListByCastle(ctx context.Context, castleID uuid.UUID) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).Where("castle_id = ?", castleID).Order("check_in_date ASC").Find(&out).Error
	return out, err
}

// BookedRoomIDs returns the distinct rooms of a castle holding an active
// booking that intersects [checkIn, checkOut).
func (r *BookingRepository) BookedRoomIDs(ctx context.Context, castleID uuid.UUID, checkIn, checkOut time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("castle_id = ?", castleID).
		Where("status <> ?", domain.BookingCancelled).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn).
		Distinct("room_id").
		Pluck("room_id", &ids).Error
	return ids, err
}
