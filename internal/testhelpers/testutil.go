package testhelpers

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/macrolog/macrolog/backend/internal/models"
	"github.com/macrolog/macrolog/backend/internal/nutrition"
)

// TestPassword is the password of users created by CreateUser
const TestPassword = "testpassword123"

// CreateUser inserts a user with the default goal and no goal history
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{Username: username, PasswordHash: string(hash), Goal: nutrition.DefaultGoals}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// CreateProduct inserts a product with macros per referenceGrams
func CreateProduct(t *testing.T, db *gorm.DB, name string, referenceGrams float64, m nutrition.Macros) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, ReferenceGrams: referenceGrams, Macros: m}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return p
}

// CreateMeal inserts a meal with one item per product/grams pair
func CreateMeal(t *testing.T, db *gorm.DB, userID uint, name, date string, items map[*models.Product]float64) *models.Meal {
	t.Helper()
	meal := &models.Meal{UserID: userID, Name: name, Date: date}
	if err := db.Create(meal).Error; err != nil {
		t.Fatalf("failed to create meal: %v", err)
	}
	for p, grams := range items {
		if err := db.Create(&models.MealItem{MealID: meal.ID, ProductID: p.ID, Grams: grams}).Error; err != nil {
			t.Fatalf("failed to create meal item: %v", err)
		}
	}
	return meal
}

// AddGoal appends a goal history entry
func AddGoal(t *testing.T, db *gorm.DB, userID uint, effectiveDate string, m nutrition.Macros) *models.GoalHistory {
	t.Helper()
	h := &models.GoalHistory{UserID: userID, EffectiveDate: effectiveDate, Macros: m}
	if err := db.Create(h).Error; err != nil {
		t.Fatalf("failed to create goal history: %v", err)
	}
	return h
}

// ChickenBreast is 165 kcal / 31 g protein / 0 g carbs / 3.6 g fats per 100 g
var ChickenBreast = nutrition.Macros{Calories: 165, Protein: 31, Carbs: 0, Fats: 3.6}

// Rice is 130 kcal / 2.7 g protein / 28.2 g carbs / 0.3 g fats per 100 g
var Rice = nutrition.Macros{Calories: 130, Protein: 2.7, Carbs: 28.2, Fats: 0.3}
