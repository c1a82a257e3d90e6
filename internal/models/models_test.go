package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/macrolog/macrolog/backend/internal/nutrition"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&User{}, &Product{}, &GoalHistory{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestUserGoalColumns(t *testing.T) {
	db := setupTestDB(t)
	user := &User{Username: "testuser", PasswordHash: "x", Goal: nutrition.DefaultGoals}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	var calories float64
	if err := db.Table("users").Select("goal_calories").Where("id = ?", user.ID).Scan(&calories).Error; err != nil {
		t.Fatalf("Failed to read goal column: %v", err)
	}
	assert.Equal(t, 2000.0, calories)
}

func TestProductNutrition(t *testing.T) {
	p := Product{ID: 3, Name: "Oats", ReferenceGrams: 40, Macros: nutrition.Macros{Calories: 150, Protein: 5, Carbs: 27, Fats: 3}}

	got := p.Nutrition()
	assert.Equal(t, uint(3), got.ID)
	assert.Equal(t, 40.0, got.ReferenceGrams)
	assert.Equal(t, p.Macros, got.Macros)
}

func TestMealItemNutrition(t *testing.T) {
	item := MealItem{ID: 1, MealID: 2, ProductID: 3, Grams: 120}

	assert.Equal(t, nutrition.Item{ID: 1, MealID: 2, ProductID: 3, ConsumedGrams: 120}, item.Nutrition())
}

func TestGoalEntries(t *testing.T) {
	assert.NotNil(t, GoalEntries(nil))

	rows := []GoalHistory{{ID: 4, EffectiveDate: "2024-02-15", Macros: nutrition.DefaultGoals}}
	assert.Equal(t, []nutrition.GoalEntry{{ID: 4, EffectiveDate: "2024-02-15", Goals: nutrition.DefaultGoals}}, GoalEntries(rows))

	db := setupTestDB(t)
	assert.True(t, db.Migrator().HasTable("goal_history"))
}
