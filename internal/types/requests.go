package types

import "github.com/macrolog/macrolog/backend/internal/nutrition"

// RegisterRequest represents the request body for registration. Field
// rules are enforced by the auth service so every violation is reported
// with its field name.
type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ProductRequest represents the request body for creating or editing a
// product. On create, values are totals for Quantity units when Quantity
// is greater than one and are stored per unit. On edit, values are the
// per-unit values as returned by the API and Quantity is only recorded.
type ProductRequest struct {
	Name           string  `json:"name" binding:"required,max=255"`
	ReferenceGrams float64 `json:"reference_grams" binding:"required,gt=0"`
	Quantity       *int    `json:"quantity" binding:"omitempty,gte=1"`
	Calories       float64 `json:"calories" binding:"gte=0"`
	Protein        float64 `json:"protein" binding:"gte=0"`
	Carbs          float64 `json:"carbs" binding:"gte=0"`
	Fats           float64 `json:"fats" binding:"gte=0"`
}

// Macros returns the macro fields of r
func (r ProductRequest) Macros() nutrition.Macros {
	return nutrition.Macros{Calories: r.Calories, Protein: r.Protein, Carbs: r.Carbs, Fats: r.Fats}
}

// CreateMealRequest represents the request body for creating a meal
type CreateMealRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Date string `json:"date" binding:"required"`
}

// AddMealItemRequest represents the request body for adding an item to a
// meal. Exactly one of Grams and Units is set; Units counts product
// servings of ReferenceGrams each.
type AddMealItemRequest struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Grams     float64 `json:"grams"`
	Units     float64 `json:"units"`
}

// UpdateGoalRequest represents the request body for setting the goal.
// EffectiveDate defaults to today.
type UpdateGoalRequest struct {
	Calories      float64 `json:"calories" binding:"gte=0"`
	Protein       float64 `json:"protein" binding:"gte=0"`
	Carbs         float64 `json:"carbs" binding:"gte=0"`
	Fats          float64 `json:"fats" binding:"gte=0"`
	EffectiveDate string  `json:"effective_date"`
}

// Macros returns the macro fields of r
func (r UpdateGoalRequest) Macros() nutrition.Macros {
	return nutrition.Macros{Calories: r.Calories, Protein: r.Protein, Carbs: r.Carbs, Fats: r.Fats}
}
