package migration

import (
	"Invoice-Capture/entities"
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates the devserver schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		return fmt.Errorf("migrating user table: %w", err)
	}
	if err := db.AutoMigrate(&entities.Restaurant{}); err != nil {
		return fmt.Errorf("migrating restaurant table: %w", err)
	}
	if err := db.AutoMigrate(&entities.Invoice{}); err != nil {
		return fmt.Errorf("migrating invoice table: %w", err)
	}
	return nil
}

// MigrateLocal creates the client's local store schema.
func MigrateLocal(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.Preference{}); err != nil {
		return fmt.Errorf("migrating preference table: %w", err)
	}
	if err := db.AutoMigrate(&entities.SubmissionRecord{}); err != nil {
		return fmt.Errorf("migrating submission table: %w", err)
	}
	return nil
}
