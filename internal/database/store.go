package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/macrolog/macrolog/backend/internal/models"
	"github.com/macrolog/macrolog/backend/internal/nutrition"
	"github.com/macrolog/macrolog/backend/internal/service"
	"gorm.io/gorm"
)

var _ service.Store = (*GormStore)(nil)

// GormStore implements service.Store on top of GORM
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, notFound(err, "product")
	}
	return &product, nil
}

func (s *GormStore) ListProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	out := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []models.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (s *GormStore) ListMealsForUserAndDate(ctx context.Context, userID uint, date string) ([]models.Meal, error) {
	meals := []models.Meal{}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("id ASC").
		Find(&meals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return meals, nil
}

func (s *GormStore) ListMealsForUserBetween(ctx context.Context, userID uint, from, to string) ([]models.Meal, error) {
	meals := []models.Meal{}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").Order("id ASC").
		Find(&meals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return meals, nil
}

func (s *GormStore) ListItemsForMeal(ctx context.Context, mealID uint) ([]models.MealItem, error) {
	return s.ListItemsForMeals(ctx, []uint{mealID})
}

func (s *GormStore) ListItemsForMeals(ctx context.Context, mealIDs []uint) ([]models.MealItem, error) {
	items := []models.MealItem{}
	if len(mealIDs) == 0 {
		return items, nil
	}
	err := s.db.WithContext(ctx).
		Where("meal_id IN ?", mealIDs).
		Order("meal_id ASC").Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list meal items: %w", err)
	}
	return items, nil
}

func (s *GormStore) ListGoalHistory(ctx context.Context, userID uint, upTo string) ([]models.GoalHistory, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if upTo != "" {
		q = q.Where("effective_date <= ?", upTo)
	}
	rows := []models.GoalHistory{}
	if err := q.Order("effective_date ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list goal history: %w", err)
	}
	return rows, nil
}

func (s *GormStore) GetCurrentGoal(ctx context.Context, userID uint) (nutrition.Macros, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "goal_calories", "goal_protein", "goal_carbs", "goal_fats").First(&user, userID).Error; err != nil {
		return nutrition.Macros{}, notFound(err, "user")
	}
	return user.Goal, nil
}

// notFound maps a missing row to service.ErrNotFound and wraps anything else
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, service.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
