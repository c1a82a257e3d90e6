package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/macrolog/macrolog/backend/internal/models"
	"github.com/macrolog/macrolog/backend/internal/nutrition"
	"github.com/macrolog/macrolog/backend/internal/types"
	"gorm.io/gorm"
)

var _ IMealService = (*MealService)(nil)

// MealItemView is a logged item with its macros scaled to the consumed
// grams. Orphaned items keep their grams but carry no product or macros.
type MealItemView struct {
	ID          uint             `json:"id"`
	ProductID   uint             `json:"product_id"`
	ProductName string           `json:"product_name,omitempty"`
	Grams       float64          `json:"grams"`
	Macros      nutrition.Macros `json:"macros"`
	Skipped     string           `json:"skipped,omitempty"`
}

// MealView is a meal with its items and totals
type MealView struct {
	ID     uint             `json:"id"`
	Name   string           `json:"name"`
	Date   string           `json:"date"`
	Items  []MealItemView   `json:"items"`
	Totals nutrition.Totals `json:"totals"`
}

// MealService records what a user ate
type MealService struct {
	db    *gorm.DB
	store Store
	cache ReportCache
	now   func() time.Time
}

func NewMealService(db *gorm.DB, store Store, cache ReportCache) *MealService {
	return &MealService{db: db, store: store, cache: cacheOrNop(cache), now: time.Now}
}

// WithClock replaces the clock used to decide what "today" is
func (s *MealService) WithClock(now func() time.Time) *MealService {
	s.now = now
	return s
}

// GetOrCreateDailyLog returns today's "Daily Log" meal, creating it on the
// first access of the day.
func (s *MealService) GetOrCreateDailyLog(ctx context.Context, userID uint) (*MealView, error) {
	today := s.now().Format(nutrition.DateLayout)
	dailyLog := func() *gorm.DB {
		return s.db.WithContext(ctx).
			Where(models.Meal{UserID: userID, Name: models.DailyLogName, Date: today}).
			Order("id ASC")
	}

	var meal models.Meal
	err := dailyLog().FirstOrCreate(&meal).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent first access inserted it between our lookup and insert
		meal = models.Meal{}
		err = dailyLog().First(&meal).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily log: %w", err)
	}

	views, err := s.buildViews(ctx, []models.Meal{meal})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListMeals returns the user's meals on date in creation order
func (s *MealService) ListMeals(ctx context.Context, userID uint, date string) ([]MealView, error) {
	date, err := nutrition.ParseDate(date)
	if err != nil {
		return nil, err
	}
	meals, err := s.store.ListMealsForUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, meals)
}

func (s *MealService) CreateMeal(ctx context.Context, userID uint, req *types.CreateMealRequest) (*MealView, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ValidationError{Field: "name", Message: "is required"}
	}
	date, err := nutrition.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	meal := models.Meal{UserID: userID, Name: name, Date: date}
	err = s.db.WithContext(ctx).Create(&meal).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ValidationError{Field: "name", Message: "a daily log already exists for this date"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}

	return &MealView{ID: meal.ID, Name: meal.Name, Date: meal.Date, Items: []MealItemView{}}, nil
}

// DeleteMeal removes a meal of the user together with its items
func (s *MealService) DeleteMeal(ctx context.Context, userID, mealID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedMeal(tx, userID, mealID); err != nil {
			return err
		}
		if err := tx.Where("meal_id = ?", mealID).Delete(&models.MealItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete meal items: %w", err)
		}
		if err := tx.Delete(&models.Meal{}, mealID).Error; err != nil {
			return fmt.Errorf("failed to delete meal: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateReports(ctx, userID)
	return nil
}

// AddItem logs a product in one of the user's meals, either by grams or by
// a count of units of the product's reference grams.
func (s *MealService) AddItem(ctx context.Context, userID, mealID uint, req *types.AddMealItemRequest) (*MealItemView, error) {
	switch {
	case req.Grams != 0 && req.Units != 0:
		return nil, ValidationError{Field: "units", Message: "cannot be combined with grams"}
	case req.Units != 0 && !(req.Units > 0):
		return nil, nutrition.ErrInvalidQuantity
	case req.Units == 0 && !(req.Grams > 0):
		return nil, nutrition.ErrInvalidQuantity
	}
	if _, err := findOwnedMeal(s.db.WithContext(ctx), userID, mealID); err != nil {
		return nil, err
	}
	product, err := s.store.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	grams := req.Grams
	if req.Units > 0 {
		grams = nutrition.Round(req.Units*product.ReferenceGrams, 1)
	}
	scaled, err := nutrition.Scale(product.Nutrition(), grams)
	if err != nil {
		return nil, err
	}

	item := models.MealItem{MealID: mealID, ProductID: product.ID, Grams: grams}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to add meal item: %w", err)
	}
	s.invalidateReports(ctx, userID)

	return &MealItemView{
		ID:          item.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Grams:       item.Grams,
		Macros:      scaled,
	}, nil
}

// RemoveItem deletes an item from one of the user's meals
func (s *MealService) RemoveItem(ctx context.Context, userID, itemID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND meal_id IN (?)", itemID,
			s.db.Model(&models.Meal{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.MealItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove meal item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.invalidateReports(ctx, userID)
	return nil
}

func (s *MealService) invalidateReports(ctx context.Context, userID uint) {
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		log.Printf("Warning: failed to invalidate report cache for user %d: %v", userID, err)
	}
}

func findOwnedMeal(db *gorm.DB, userID, mealID uint) (*models.Meal, error) {
	var meal models.Meal
	err := db.Where("id = ? AND user_id = ?", mealID, userID).First(&meal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load meal: %w", err)
	}
	return &meal, nil
}

// buildViews loads the items and products of meals in two batched reads
// and scales every item.
func (s *MealService) buildViews(ctx context.Context, meals []models.Meal) ([]MealView, error) {
	itemsByMeal, products, err := loadMealData(ctx, s.store, meals)
	if err != nil {
		return nil, err
	}

	views := make([]MealView, 0, len(meals))
	for _, m := range meals {
		items := itemsByMeal[m.ID]
		view := MealView{
			ID:     m.ID,
			Name:   m.Name,
			Date:   m.Date,
			Items:  make([]MealItemView, 0, len(items)),
			Totals: nutrition.AggregateMeal(items, products),
		}
		for _, it := range items {
			view.Items = append(view.Items, itemView(it, products))
		}
		views = append(views, view)
	}
	return views, nil
}

func itemView(it nutrition.Item, products map[uint]nutrition.Product) MealItemView {
	v := MealItemView{ID: it.ID, ProductID: it.ProductID, Grams: it.ConsumedGrams}
	p, ok := products[it.ProductID]
	if !ok {
		v.Skipped = nutrition.SkipOrphanedProduct
		return v
	}
	v.ProductName = p.Name
	m, err := nutrition.Scale(p, it.ConsumedGrams)
	switch {
	case errors.Is(err, nutrition.ErrInvalidProduct):
		v.Skipped = nutrition.SkipInvalidProduct
	case err != nil:
		v.Skipped = nutrition.SkipInvalidQuantity
	default:
		v.Macros = m
	}
	return v
}

// loadMealData fetches the items of meals grouped by meal, and the
// products they reference keyed by id. Deleted products are absent.
func loadMealData(ctx context.Context, store Store, meals []models.Meal) (map[uint][]nutrition.Item, map[uint]nutrition.Product, error) {
	mealIDs := make([]uint, len(meals))
	for i, m := range meals {
		mealIDs[i] = m.ID
	}
	rows, err := store.ListItemsForMeals(ctx, mealIDs)
	if err != nil {
		return nil, nil, err
	}

	itemsByMeal := make(map[uint][]nutrition.Item, len(meals))
	seen := make(map[uint]bool)
	var productIDs []uint
	for _, r := range rows {
		itemsByMeal[r.MealID] = append(itemsByMeal[r.MealID], r.Nutrition())
		if !seen[r.ProductID] {
			seen[r.ProductID] = true
			productIDs = append(productIDs, r.ProductID)
		}
	}

	rowsByID, err := store.ListProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, err
	}
	products := make(map[uint]nutrition.Product, len(rowsByID))
	for id, p := range rowsByID {
		products[id] = p.Nutrition()
	}
	return itemsByMeal, products, nil
}
