package database

import (
	"fmt"
	"log"
	"strings"

	"castlebooking/internal/domain"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// NoOverlapConstraint rejects overlapping active bookings on the same room
// at the database level. Only created on PostgreSQL.
const NoOverlapConstraint = "bookings_no_overlap"

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func Connect(dsn, logLevel string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(parseLogLevel(logLevel))}

	if IsPostgres(dsn) {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Println("Using SQLite for local development:", dsn)

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        withBusyTimeout(dsn),
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}

	// SQLite allows one writer; a single connection serialises booking
	// transactions instead of failing them with SQLITE_BUSY.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func withBusyTimeout(dsn string) string {
	if strings.Contains(dsn, "busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)"
}

// Migrate creates or updates the schema for every persisted entity.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Castle{},
		&domain.Room{},
		&domain.Booking{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("create btree_gist: %w", err)
	}
	var exists bool
	if err := db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, NoOverlapConstraint).
		Scan(&exists).Error; err != nil {
		return fmt.Errorf("lookup %s: %w", NoOverlapConstraint, err)
	}
	if exists {
		return nil
	}
	stmt := `ALTER TABLE bookings ADD CONSTRAINT ` + NoOverlapConstraint + ` EXCLUDE USING gist (
		room_id WITH =,
		tstzrange(check_in_date, check_out_date, '[)') WITH &&
	) WHERE (status <> 'cancelled')`
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create %s: %w", NoOverlapConstraint, err)
	}
	log.Printf("created constraint name=%s", NoOverlapConstraint)
	return nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
