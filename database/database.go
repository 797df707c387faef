package database

import (
	"fmt"
	"time"

	"github.com/lshigami/studydeck/config"
	"github.com/lshigami/studydeck/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the gorm connection for the configured driver.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	case config.DriverPostgres, "":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.Database.Driver)
	}

	db, err := Open(dialector)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to connect to database")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("Database connection established")
	return db, nil
}

// Open applies the shared gorm settings. Timestamps are always UTC so that
// the created_at range filters compare consistently across drivers.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
}

// OpenSQLiteMemory returns an isolated in-memory database. Each call gets a
// fresh database, which is what tests want.
func OpenSQLiteMemory() (*gorm.DB, error) {
	db, err := Open(sqlite.Open("file::memory:"))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// A second pooled connection would see a different empty database.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Deck{},
		&model.Flashcard{},
		&model.Quiz{},
		&model.Question{},
		&model.Choice{},
		&model.QuizBatch{},
		&model.QuizClaim{},
	)
}
