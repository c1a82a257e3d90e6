package models

import (
	"time"

	"github.com/macrolog/macrolog/backend/internal/nutrition"
	"gorm.io/gorm"
)

// Product is shared reference data. The embedded macros are the totals for
// ReferenceGrams of the product. Deleting a product is soft, which leaves
// meal items pointing at it orphaned.
type Product struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Name           string         `gorm:"size:255;not null;index" json:"name"`
	ReferenceGrams float64        `gorm:"not null;check:reference_grams > 0" json:"reference_grams"`
	Quantity       *int           `json:"quantity,omitempty"`
	nutrition.Macros
}

// Nutrition returns the view of p the scaler works with.
func (p Product) Nutrition() nutrition.Product {
	return nutrition.Product{
		ID:             p.ID,
		Name:           p.Name,
		ReferenceGrams: p.ReferenceGrams,
		Macros:         p.Macros,
	}
}
