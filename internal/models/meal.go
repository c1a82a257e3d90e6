package models

import (
	"time"

	"github.com/macrolog/macrolog/backend/internal/nutrition"
)

// DailyLogName is the name of the meal created on first access to a day.
const DailyLogName = "Daily Log"

// Meal groups the items a user ate on Date (YYYY-MM-DD). A user has at
// most one DailyLogName meal per date.
type Meal struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	UserID    uint       `gorm:"not null;index:idx_meals_user_date;uniqueIndex:idx_meals_daily_log,where:name = 'Daily Log'" json:"user_id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Date      string     `gorm:"size:10;not null;index:idx_meals_user_date;uniqueIndex:idx_meals_daily_log" json:"date"`
	Items     []MealItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// MealItem records Grams of a product eaten as part of a meal.
type MealItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	MealID    uint      `gorm:"not null;index" json:"meal_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Grams     float64   `gorm:"not null;check:grams > 0" json:"grams"`
}

// Nutrition returns the view of i the aggregator works with.
func (i MealItem) Nutrition() nutrition.Item {
	return nutrition.Item{
		ID:            i.ID,
		MealID:        i.MealID,
		ProductID:     i.ProductID,
		ConsumedGrams: i.Grams,
	}
}
