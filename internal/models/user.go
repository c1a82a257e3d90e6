package models

import (
	"time"

	"github.com/macrolog/macrolog/backend/internal/nutrition"
)

// User is an account. Goal is the fallback goal used for dates no goal
// history entry covers.
type User struct {
	ID           uint             `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Username     string           `gorm:"size:50;not null;uniqueIndex" json:"username"`
	PasswordHash string           `gorm:"not null" json:"-"`
	Goal         nutrition.Macros `gorm:"embedded;embeddedPrefix:goal_" json:"goal"`
}
