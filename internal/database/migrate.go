package database

import (
	"fmt"
	"log"

	"github.com/macrolog/macrolog/backend/internal/models"
	"gorm.io/gorm"
)

// Models lists every table owned by the application, in dependency order
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Product{},
		&models.Meal{},
		&models.MealItem{},
		&models.GoalHistory{},
	}
}

// RunMigrations brings the schema up to date using GORM auto-migration
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running %s auto-migration", db.Dialector.Name())
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
