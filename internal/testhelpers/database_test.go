package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrolog/macrolog/backend/internal/models"
)

func TestDatabaseSetup(t *testing.T) {
	db := SetupTestDatabase(t)
	require.NotNil(t, db)

	user := CreateUser(t, db, "testuser")
	assert.NotZero(t, user.ID)

	rice := CreateProduct(t, db, "Rice", 100, Rice)
	meal := CreateMeal(t, db, user.ID, "Lunch", "2024-02-20", map[*models.Product]float64{rice: 200})

	var items []models.MealItem
	require.NoError(t, db.Where("meal_id = ?", meal.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 200.0, items[0].Grams)

	entry := AddGoal(t, db, user.ID, "2024-01-01", Rice)
	assert.NotZero(t, entry.ID)
}

func TestDatabasesAreIsolated(t *testing.T) {
	first := SetupTestDatabase(t)
	second := SetupTestDatabase(t)

	CreateUser(t, first, "alice")

	var count int64
	require.NoError(t, second.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
