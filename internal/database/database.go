package database

import (
	"errors"
	"fmt"

	"github.com/yukikurage/event-rsvp/internal/config"
	"github.com/yukikurage/event-rsvp/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Dialector returns the gorm dialector selected by cfg.DBDriver.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.DBPath), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// Connect opens the database configured in cfg.
func Connect(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established", zap.String("driver", cfg.DBDriver))
	return db, nil
}

// SetupJoinTables registers the explicit join models. It must run before AutoMigrate
// and before any many2many association is used.
func SetupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.User{}, "Groups", &models.UserGroup{}); err != nil {
		return fmt.Errorf("failed to set up user_groups: %w", err)
	}
	if err := db.SetupJoinTable(&models.Event{}, "Attendees", &models.RSVP{}); err != nil {
		return fmt.Errorf("failed to set up event_rsvps: %w", err)
	}
	return nil
}

// Migrate creates the schema and seeds the role groups.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("Running database migrations")

	if err := SetupJoinTables(db); err != nil {
		return err
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.UserGroup{},
		&models.Event{},
		&models.RSVP{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db, log); err != nil {
		return err
	}

	if err := SeedRoleGroups(db); err != nil {
		return err
	}

	log.Info("Database migrations completed")
	return nil
}

// SeedRoleGroups makes sure the Admin, Organizer and Participant groups exist.
func SeedRoleGroups(db *gorm.DB) error {
	for _, name := range models.RoleGroupNames {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Group{Name: name}).Error
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to seed group %s: %w", name, err)
		}
	}
	return nil
}
