package repositories

import (
	"fmt"

	"github.com/lonnieqin/chatapi/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the database and runs migrations. The handle is returned for
// constructor injection rather than stored in a package-level variable.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table the application declares, including
// the conversation-history tables no surviving code path writes to.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Blog{},
		&models.BlogV2{},
		&models.Feedback{},
		&models.Conversation{},
		&models.ChatMessage{},
		&models.Preference{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
