package config

import (
	"errors"
	"os"
	"time"

	"github.com/jobnest/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var PostgresDB *gorm.DB

func InitPostgres() error {
	uri := os.Getenv("POSTGRES_URI")
	if uri == "" {
		return errors.New("POSTGRES_URI environment variable is not set")
	}
	// TranslateError turns driver unique-violations into gorm.ErrDuplicatedKey,
	// which the repositories rely on.
	db, err := gorm.Open(postgres.Open(uri), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Connection Pooling settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Job{},
		&models.Resume{},
		&models.CV{},
		&models.Application{},
		&models.Interview{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
	); err != nil {
		return err
	}

	PostgresDB = db
	return nil
}
