package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/macrolog/macrolog/backend/internal/models"
	"github.com/macrolog/macrolog/backend/internal/nutrition"
	"github.com/macrolog/macrolog/backend/internal/types"
	"gorm.io/gorm"
)

var _ IGoalService = (*GoalService)(nil)

// GoalSummary is a goal with the share of its calories per macro
type GoalSummary struct {
	Goal          nutrition.Macros       `json:"goal"`
	Split         nutrition.CalorieSplit `json:"split"`
	EffectiveDate string                 `json:"effective_date,omitempty"`
}

// GoalService manages the user's goal and its history
type GoalService struct {
	db    *gorm.DB
	store Store
	cache ReportCache
	now   func() time.Time
}

func NewGoalService(db *gorm.DB, store Store, cache ReportCache) *GoalService {
	return &GoalService{db: db, store: store, cache: cacheOrNop(cache), now: time.Now}
}

// WithClock replaces the clock used to decide what "today" is
func (s *GoalService) WithClock(now func() time.Time) *GoalService {
	s.now = now
	return s
}

// GetCurrentGoal returns the goal in effect today
func (s *GoalService) GetCurrentGoal(ctx context.Context, userID uint) (*GoalSummary, error) {
	goal, err := s.GetGoalForDate(ctx, userID, s.today())
	if err != nil {
		return nil, err
	}
	return &GoalSummary{Goal: goal, Split: nutrition.SplitCalories(goal)}, nil
}

// UpdateGoal appends a history entry effective on req.EffectiveDate, or
// today when empty. The user's fallback goal follows the new values unless
// the entry only takes effect in the future.
func (s *GoalService) UpdateGoal(ctx context.Context, userID uint, req *types.UpdateGoalRequest) (*GoalSummary, error) {
	goal := req.Macros()
	if err := validateMacros(goal); err != nil {
		return nil, err
	}
	if goal.Calories <= 0 {
		return nil, ValidationError{Field: "calories", Message: "must be greater than zero"}
	}

	today := s.today()
	effective := today
	if req.EffectiveDate != "" {
		var err error
		if effective, err = nutrition.ParseDate(req.EffectiveDate); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}
		if err := tx.Create(&models.GoalHistory{UserID: userID, EffectiveDate: effective, Macros: goal}).Error; err != nil {
			return fmt.Errorf("failed to record goal history: %w", err)
		}
		if effective > today {
			return nil
		}
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"goal_calories": goal.Calories,
			"goal_protein":  goal.Protein,
			"goal_carbs":    goal.Carbs,
			"goal_fats":     goal.Fats,
		}).Error; err != nil {
			return fmt.Errorf("failed to update goal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		log.Printf("Warning: failed to invalidate report cache for user %d: %v", userID, err)
	}

	return &GoalSummary{Goal: goal, Split: nutrition.SplitCalories(goal), EffectiveDate: effective}, nil
}

// GetHistory returns every goal entry of the user, oldest first
func (s *GoalService) GetHistory(ctx context.Context, userID uint) ([]nutrition.GoalEntry, error) {
	rows, err := s.store.ListGoalHistory(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	return models.GoalEntries(rows), nil
}

// GetGoalForDate resolves the goal in effect on date
func (s *GoalService) GetGoalForDate(ctx context.Context, userID uint, date string) (nutrition.Macros, error) {
	date, err := nutrition.ParseDate(date)
	if err != nil {
		return nutrition.Macros{}, err
	}
	fallback, err := s.store.GetCurrentGoal(ctx, userID)
	if err != nil {
		return nutrition.Macros{}, err
	}
	rows, err := s.store.ListGoalHistory(ctx, userID, date)
	if err != nil {
		return nutrition.Macros{}, err
	}
	return nutrition.ResolveGoal(date, models.GoalEntries(rows), fallback), nil
}

func (s *GoalService) today() string {
	return s.now().Format(nutrition.DateLayout)
}
