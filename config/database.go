package config

import (
	"fmt"
	"log"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"

	"go-meet-signal/models"
)

// ConnectDatabase opens the meeting store and migrates its schema.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	dialect, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	if dialect == "sqlite3" {
		// sqlite serialises writers; a single connection also keeps ":memory:" shared.
		db.DB().SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Printf("Connected to %s database", dialect)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Meeting{}, &models.Participant{}, &models.StatusCheck{}).Error; err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func dataSource(cfg *Config) (string, string, error) {
	switch cfg.DBDriver {
	case "postgres":
		return "postgres", fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBName,
			cfg.DBPassword,
		), nil
	case "sqlite3", "sqlite":
		return "sqlite3", cfg.DBPath, nil
	default:
		return "", "", fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
