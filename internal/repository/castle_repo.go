package repository

import (
	"context"

	"castlebooking/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CastleRepository struct {
	db *gorm.DB
}

func NewCastleRepository(db *gorm.DB) *CastleRepository {
	return &CastleRepository{db: db}
}

func (r *CastleRepository) Create(ctx context.Context, c *domain.Castle) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error)
}

func (r *CastleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Castle, error) {
	var c domain.Castle
	err := r.db.WithContext(ctx).
		Preload("Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CastleRepository) List(ctx context.Context) ([]domain.Castle, error) {
	var castles []domain.Castle
	err := r.db.WithContext(ctx).
		Preload("Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Order("created_at ASC").
		Find(&castles).Error
	return castles, err
}

func (r *CastleRepository) OwnerID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var c domain.Castle
	if err := r.db.WithContext(ctx).Select("id", "owner_id").First(&c, "id = ?", id).Error; err != nil {
		return uuid.Nil, translate(err)
	}
	return c.OwnerID, nil
}

// Update writes every column except booking_ids, which only booking writes
// maintain.
func (r *CastleRepository) Update(ctx context.Context, c *domain.Castle) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations, "booking_ids").Save(c).Error)
}

// Delete removes the castle together with its rooms and bookings.
func (r *CastleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Castle{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("castle_id = ?", id).Delete(&domain.Booking{}).Error; err != nil {
			return err
		}
		return tx.Where("castle_id = ?", id).Delete(&domain.Room{}).Error
	})
}

// lockCastle loads the castle row FOR UPDATE inside tx.
func lockCastle(tx *gorm.DB, id uuid.UUID) (*domain.Castle, error) {
	var c domain.Castle
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func saveBookingIDs(tx *gorm.DB, c *domain.Castle) error {
	return tx.Model(&domain.Castle{}).Where("id = ?", c.ID).Update("booking_ids", c.BookingIDs).Error
}
