package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"castlebooking/internal/config"
	"castlebooking/internal/database"
	"castlebooking/internal/domain"
	"castlebooking/internal/modules/booking"
	"castlebooking/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedUser struct {
	first, last, email, password string
	role                         domain.UserRole
}

var users = []seedUser{
	{"Ada", "Admin", "admin@castles.local", "admin123", domain.RoleAdmin},
	{"Otto", "Owner", "owner@castles.local", "owner123", domain.RoleOwner},
	{"Greta", "Guest", "guest@castles.local", "guest123", domain.RoleGuest},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	// children first
	log.Println("Cleaning old data...")
	for _, table := range []string{"bookings", "rooms", "castles"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("clean %s: %v", table, err)
		}
	}

	ctx := context.Background()

	log.Println("Creating users...")
	created := make(map[domain.UserRole]*domain.User, len(users))
	for _, su := range users {
		u, err := upsertUser(db, su, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("user %s: %v", su.email, err)
		}
		created[su.role] = u
		log.Printf("%s ready: %s / %s", su.role, su.email, su.password)
	}

	log.Println("Creating castles...")
	castles := repository.NewCastleRepository(db)
	rooms := repository.NewRoomRepository(db)
	bookings := repository.NewBookingRepository(db)

	castle := &domain.Castle{
		OwnerID:            created[domain.RoleOwner].ID,
		Name:               "Burg Eltz",
		Description:        "Medieval castle in the hills above the Moselle",
		Address:            "Burg Eltz 1, 56294 Wierschem",
		Country:            "Germany",
		Images:             []string{"/static/castles/eltz-front.jpg", "/static/castles/eltz-hall.jpg"},
		Events:             []string{"wedding", "conference"},
		Facilities:         []string{"parking", "restaurant", "garden"},
		Amenities:          []string{"wifi", "heating", "fireplace"},
		HouseRules:         []string{"No smoking", "Quiet after 22:00"},
		SafetyFeatures:     []string{"Smoke detectors", "First aid kit"},
		CancellationPolicy: domain.PolicyFlexible,
	}
	if err := castles.Create(ctx, castle); err != nil {
		log.Fatalf("castle: %v", err)
	}

	var tower *domain.Room
	for i, def := range []struct {
		name     string
		capacity int
		price    float64
		beds     []domain.Bed
	}{
		{"Knight's Tower", 2, 180, []domain.Bed{{Type: "double", Count: 1}}},
		{"Great Hall Suite", 4, 320, []domain.Bed{{Type: "king", Count: 1}, {Type: "single", Count: 2}}},
		{"Servants' Quarters", 1, 90, []domain.Bed{{Type: "single", Count: 1}}},
	} {
		room := &domain.Room{
			CastleID:  castle.ID,
			Name:      def.name,
			Capacity:  def.capacity,
			Price:     def.price,
			Beds:      def.beds,
			Amenities: []string{"wifi", "heating"},
		}
		if err := rooms.Create(ctx, room); err != nil {
			log.Fatalf("room %d: %v", i+1, err)
		}
		if tower == nil {
			tower = room
		}
	}

	log.Println("Creating bookings...")
	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 7)
	for i := 0; i < 3; i++ {
		in := start.AddDate(0, 0, i*3)
		out := in.AddDate(0, 0, 2)
		b := &domain.Booking{
			UserID:       created[domain.RoleGuest].ID,
			CastleID:     castle.ID,
			RoomID:       tower.ID,
			CheckInDate:  in,
			CheckOutDate: out,
			Guests:       2,
			TotalPrice:   booking.TotalPrice(tower.Price, booking.Nights(in, out)),
		}
		if err := bookings.Create(ctx, b); err != nil {
			log.Fatalf("booking %d: %v", i+1, err)
		}
	}

	fmt.Printf("Seed complete: castle=%s rooms=3 bookings=3\n", castle.ID)
}

// upsertUser inserts su or refreshes the row holding its email.
func upsertUser(db *gorm.DB, su seedUser, cost int) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(su.password), cost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		FirstName:    su.first,
		LastName:     su.last,
		Email:        domain.NormalizeEmail(su.email),
		PasswordHash: string(hash),
		Role:         su.role,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "password_hash", "role", "updated_at"}),
	}).Create(u).Error
	if err != nil {
		return nil, err
	}
	// on conflict the generated id is not the stored one
	var stored domain.User
	if err := db.Where("email = ?", u.Email).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}
