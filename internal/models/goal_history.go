package models

import (
	"time"

	"github.com/macrolog/macrolog/backend/internal/nutrition"
)

// GoalHistory is an append-only record of a goal change taking effect on
// EffectiveDate (YYYY-MM-DD).
type GoalHistory struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UserID        uint      `gorm:"not null;index:idx_goal_history_user_date" json:"user_id"`
	EffectiveDate string    `gorm:"size:10;not null;index:idx_goal_history_user_date" json:"effective_date"`
	nutrition.Macros
}

// TableName specifies the table name for GoalHistory
func (GoalHistory) TableName() string {
	return "goal_history"
}

// Entry returns the view of h the goal resolver works with.
func (h GoalHistory) Entry() nutrition.GoalEntry {
	return nutrition.GoalEntry{ID: h.ID, EffectiveDate: h.EffectiveDate, Goals: h.Macros}
}

// GoalEntries converts rows for the goal resolver.
func GoalEntries(rows []GoalHistory) []nutrition.GoalEntry {
	out := make([]nutrition.GoalEntry, len(rows))
	for i, r := range rows {
		out[i] = r.Entry()
	}
	return out
}
