package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/macrolog/macrolog/backend/internal/database"
	"github.com/macrolog/macrolog/backend/internal/models"
	"github.com/macrolog/macrolog/backend/internal/nutrition"
	"github.com/macrolog/macrolog/backend/internal/service"
	"github.com/macrolog/macrolog/backend/internal/testhelpers"
	"github.com/macrolog/macrolog/backend/internal/types"
)

var (
	goalJanuary  = nutrition.Macros{Calories: 2000, Protein: 150, Carbs: 200, Fats: 65}
	goalFebruary = nutrition.Macros{Calories: 1800, Protein: 160, Carbs: 150, Fats: 60}
)

func dailyStore(products map[uint]models.Product) *testhelpers.MockStore {
	store := new(testhelpers.MockStore)
	store.On("GetCurrentGoal", mock.Anything, uint(1)).Return(nutrition.DefaultGoals, nil)
	store.On("ListGoalHistory", mock.Anything, uint(1), "2024-02-20").Return([]models.GoalHistory{
		{ID: 1, UserID: 1, EffectiveDate: "2024-01-01", Macros: goalJanuary},
		{ID: 2, UserID: 1, EffectiveDate: "2024-02-15", Macros: goalFebruary},
	}, nil)
	store.On("ListMealsForUserAndDate", mock.Anything, uint(1), "2024-02-20").Return([]models.Meal{
		{ID: 10, UserID: 1, Name: "Lunch", Date: "2024-02-20"},
	}, nil)
	store.On("ListItemsForMeals", mock.Anything, []uint{10}).Return([]models.MealItem{
		{ID: 1, MealID: 10, ProductID: 5, Grams: 150},
		{ID: 2, MealID: 10, ProductID: 6, Grams: 200},
	}, nil)
	store.On("ListProductsByIDs", mock.Anything, []uint{5, 6}).Return(products, nil)
	return store
}

func TestComputeDailyReport(t *testing.T) {
	store := dailyStore(map[uint]models.Product{
		5: {ID: 5, Name: "Chicken Breast", ReferenceGrams: 100, Macros: testhelpers.ChickenBreast},
		6: {ID: 6, Name: "Rice", ReferenceGrams: 100, Macros: testhelpers.Rice},
	})
	reportSvc := service.NewReportService(store, nil)

	report, err := reportSvc.ComputeDailyReport(context.Background(), 1, "2024-02-20")
	require.NoError(t, err)

	assert.Equal(t, "2024-02-20", report.Date)
	assert.Equal(t, goalFebruary, report.Goal)
	assert.Equal(t, nutrition.Macros{Calories: 508, Protein: 51.9, Carbs: 56.4, Fats: 6}, report.Totals)
	assert.Equal(t, nutrition.Macros{Calories: 1292, Protein: 108.1, Carbs: 93.6, Fats: 54}, report.Remaining)
	assert.False(t, report.OnGoal)
	assert.Zero(t, report.SkippedItems)
	store.AssertExpectations(t)
}

func TestComputeDailyReportSkipsOrphanedItems(t *testing.T) {
	store := dailyStore(map[uint]models.Product{
		5: {ID: 5, Name: "Chicken Breast", ReferenceGrams: 100, Macros: testhelpers.ChickenBreast},
	})
	reportSvc := service.NewReportService(store, nil)

	report, err := reportSvc.ComputeDailyReport(context.Background(), 1, "2024-02-20")
	require.NoError(t, err)

	assert.Equal(t, nutrition.Macros{Calories: 248, Protein: 46.5, Carbs: 0, Fats: 5.4}, report.Totals)
	assert.Equal(t, 1, report.SkippedItems)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, nutrition.SkippedItem{ItemID: 2, MealID: 10, ProductID: 6, Reason: nutrition.SkipOrphanedProduct}, report.Skipped[0])
}

func TestComputeDailyReportErrors(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		store := new(testhelpers.MockStore)
		store.On("GetCurrentGoal", mock.Anything, uint(42)).
			Return(nutrition.Macros{}, fmt.Errorf("user: %w", service.ErrNotFound))

		_, err := service.NewReportService(store, nil).ComputeDailyReport(context.Background(), 42, "2024-02-20")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("malformed date", func(t *testing.T) {
		store := new(testhelpers.MockStore)

		_, err := service.NewReportService(store, nil).ComputeDailyReport(context.Background(), 1, "2024-2-20")
		assert.ErrorIs(t, err, nutrition.ErrInvalidDate)
		store.AssertNotCalled(t, "GetCurrentGoal", mock.Anything, mock.Anything)
	})
}

func TestComputeMonthlyReport(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	store := database.NewGormStore(db)
	cache := testhelpers.NewMemoryReportCache()
	reportSvc := service.NewReportService(store, cache)
	mealSvc := service.NewMealService(db, store, cache)
	ctx := context.Background()

	user := testhelpers.CreateUser(t, db, "alice")
	food := testhelpers.CreateProduct(t, db, "Protein Mix", 100, nutrition.Macros{Calories: 100, Protein: 10})
	testhelpers.AddGoal(t, db, user.ID, "2024-01-01", goalJanuary)
	testhelpers.AddGoal(t, db, user.ID, "2024-02-15", goalFebruary)

	testhelpers.CreateMeal(t, db, user.ID, "Daily Log", "2024-02-01", map[*models.Product]float64{food: 2100})
	testhelpers.CreateMeal(t, db, user.ID, "Empty", "2024-02-10", nil)
	testhelpers.CreateMeal(t, db, user.ID, "Daily Log", "2024-02-20", map[*models.Product]float64{food: 1700})
	late := testhelpers.CreateMeal(t, db, user.ID, "Daily Log", "2024-02-21", map[*models.Product]float64{food: 900})
	testhelpers.CreateMeal(t, db, user.ID, "Daily Log", "2024-03-01", map[*models.Product]float64{food: 500})

	report, err := reportSvc.ComputeMonthlyReport(ctx, user.ID, 2024, 2)
	require.NoError(t, err)

	assert.Equal(t, nutrition.PeriodStats{AvgCalories: 1567, AvgProtein: 157, DaysTracked: 3, DaysOnGoal: 2}, report.Stats)
	assert.Len(t, report.PerDay, 3)
	assert.NotContains(t, report.PerDay, "2024-02-10")
	assert.NotContains(t, report.PerDay, "2024-03-01")
	assert.Equal(t, 2100.0, report.PerDay["2024-02-01"].Calories)

	assert.Len(t, report.GoalsPerDay, 29)
	assert.Equal(t, goalJanuary, report.GoalsPerDay["2024-02-14"])
	assert.Equal(t, goalFebruary, report.GoalsPerDay["2024-02-15"])
	assert.Equal(t, goalFebruary, report.GoalsPerDay["2024-02-29"])
	assert.Len(t, report.GoalHistory, 2)
	assert.Zero(t, report.SkippedItems)

	again, err := reportSvc.ComputeMonthlyReport(ctx, user.ID, 2024, 2)
	require.NoError(t, err)
	assert.Same(t, report, again)
	assert.Equal(t, 1, cache.Hits)

	_, err = mealSvc.AddItem(ctx, user.ID, late.ID, &types.AddMealItemRequest{ProductID: food.ID, Grams: 100})
	require.NoError(t, err)

	fresh, err := reportSvc.ComputeMonthlyReport(ctx, user.ID, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, fresh.PerDay["2024-02-21"].Calories)
	assert.Equal(t, 1, cache.Hits)
}

// writeDuringRead runs write once, right after the first batch of meal
// items has been read.
type writeDuringRead struct {
	*database.GormStore
	write func()
}

func (s *writeDuringRead) ListItemsForMeals(ctx context.Context, mealIDs []uint) ([]models.MealItem, error) {
	items, err := s.GormStore.ListItemsForMeals(ctx, mealIDs)
	if w := s.write; w != nil {
		s.write = nil
		w()
	}
	return items, err
}

func TestComputeMonthlyReportDoesNotCacheAcrossWrites(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	store := &writeDuringRead{GormStore: database.NewGormStore(db)}
	cache := testhelpers.NewMemoryReportCache()
	reportSvc := service.NewReportService(store, cache)
	mealSvc := service.NewMealService(db, store, cache)
	ctx := context.Background()

	user := testhelpers.CreateUser(t, db, "alice")
	food := testhelpers.CreateProduct(t, db, "Protein Mix", 100, nutrition.Macros{Calories: 100, Protein: 10})
	meal := testhelpers.CreateMeal(t, db, user.ID, "Daily Log", "2024-02-05", map[*models.Product]float64{food: 100})

	store.write = func() {
		_, err := mealSvc.AddItem(ctx, user.ID, meal.ID, &types.AddMealItemRequest{ProductID: food.ID, Grams: 100})
		require.NoError(t, err)
	}

	first, err := reportSvc.ComputeMonthlyReport(ctx, user.ID, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, 100.0, first.PerDay["2024-02-05"].Calories)

	second, err := reportSvc.ComputeMonthlyReport(ctx, user.ID, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, 200.0, second.PerDay["2024-02-05"].Calories)
	assert.Zero(t, cache.Hits)
}

func TestComputeMonthlyReportCountsSkippedItems(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	reportSvc := service.NewReportService(database.NewGormStore(db), nil)
	ctx := context.Background()

	user := testhelpers.CreateUser(t, db, "alice")
	gone := testhelpers.CreateProduct(t, db, "Discontinued Bar", 50, nutrition.Macros{Calories: 200, Protein: 20})
	testhelpers.CreateMeal(t, db, user.ID, "Snack", "2024-02-03", map[*models.Product]float64{gone: 50})
	require.NoError(t, db.Delete(&models.Product{}, gone.ID).Error)

	report, err := reportSvc.ComputeMonthlyReport(ctx, user.ID, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, report.SkippedItems)
	assert.Empty(t, report.PerDay)
	assert.Zero(t, report.Stats.DaysTracked)
	assert.Equal(t, nutrition.DefaultGoals, report.GoalsPerDay["2024-02-03"])
}

func TestComputeMonthlyReportRejectsInvalidMonth(t *testing.T) {
	reportSvc := service.NewReportService(new(testhelpers.MockStore), nil)

	_, err := reportSvc.ComputeMonthlyReport(context.Background(), 1, 2024, 13)
	assert.ErrorIs(t, err, nutrition.ErrInvalidDate)
}
