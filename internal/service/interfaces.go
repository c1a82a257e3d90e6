package service

import (
	"context"

	"github.com/macrolog/macrolog/backend/internal/models"
	"github.com/macrolog/macrolog/backend/internal/nutrition"
	"github.com/macrolog/macrolog/backend/internal/types"
)

// Store is the read side the report and meal views are computed from.
// Lookups by id return ErrNotFound when the row does not exist. List
// operations return an empty result, not an error, when nothing matches.
type Store interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	// ListProductsByIDs omits ids that do not exist or are deleted.
	ListProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error)
	ListMealsForUserAndDate(ctx context.Context, userID uint, date string) ([]models.Meal, error)
	// ListMealsForUserBetween covers from and to inclusive.
	ListMealsForUserBetween(ctx context.Context, userID uint, from, to string) ([]models.Meal, error)
	ListItemsForMeal(ctx context.Context, mealID uint) ([]models.MealItem, error)
	ListItemsForMeals(ctx context.Context, mealIDs []uint) ([]models.MealItem, error)
	// ListGoalHistory returns entries effective on or before upTo ordered by
	// effective date then id. An empty upTo returns every entry.
	ListGoalHistory(ctx context.Context, userID uint, upTo string) ([]models.GoalHistory, error)
	GetCurrentGoal(ctx context.Context, userID uint) (nutrition.Macros, error)
}

// ReportKey names a cached monthly report at the cache version observed
// when it was looked up. The zero value names nothing.
type ReportKey string

// ReportCache stores computed monthly reports. Implementations must make
// Invalidate calls visible to subsequent Get calls. GetMonthly returns the
// key to store a freshly computed report under, even on a miss. A key taken
// before an invalidation must never be returned by a later GetMonthly.
type ReportCache interface {
	GetMonthly(ctx context.Context, userID uint, year, month int) (*MonthlyReport, ReportKey, error)
	SetMonthly(ctx context.Context, key ReportKey, report *MonthlyReport) error
	// InvalidateUser drops every cached report of one user.
	InvalidateUser(ctx context.Context, userID uint) error
	// InvalidateAll drops every cached report, used when shared product
	// data changes.
	InvalidateAll(ctx context.Context) error
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, username, password, confirmPassword string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, userID uint) (*models.User, error)
}

// IProductService defines the interface for product catalog operations
type IProductService interface {
	ListProducts(ctx context.Context, query string) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, req *types.ProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, req *types.ProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

// IMealService defines the interface for meal logging operations
type IMealService interface {
	GetOrCreateDailyLog(ctx context.Context, userID uint) (*MealView, error)
	ListMeals(ctx context.Context, userID uint, date string) ([]MealView, error)
	CreateMeal(ctx context.Context, userID uint, req *types.CreateMealRequest) (*MealView, error)
	DeleteMeal(ctx context.Context, userID, mealID uint) error
	AddItem(ctx context.Context, userID, mealID uint, req *types.AddMealItemRequest) (*MealItemView, error)
	RemoveItem(ctx context.Context, userID, itemID uint) error
}

// IGoalService defines the interface for goal operations
type IGoalService interface {
	GetCurrentGoal(ctx context.Context, userID uint) (*GoalSummary, error)
	UpdateGoal(ctx context.Context, userID uint, req *types.UpdateGoalRequest) (*GoalSummary, error)
	GetHistory(ctx context.Context, userID uint) ([]nutrition.GoalEntry, error)
	GetGoalForDate(ctx context.Context, userID uint, date string) (nutrition.Macros, error)
}

// IReportService defines the interface for progress reports
type IReportService interface {
	ComputeDailyReport(ctx context.Context, userID uint, date string) (*DailyReport, error)
	ComputeMonthlyReport(ctx context.Context, userID uint, year, month int) (*MonthlyReport, error)
}

type nopReportCache struct{}

func (nopReportCache) GetMonthly(context.Context, uint, int, int) (*MonthlyReport, ReportKey, error) {
	return nil, "", nil
}
func (nopReportCache) SetMonthly(context.Context, ReportKey, *MonthlyReport) error { return nil }
func (nopReportCache) InvalidateUser(context.Context, uint) error                  { return nil }
func (nopReportCache) InvalidateAll(context.Context) error                         { return nil }

func cacheOrNop(cache ReportCache) ReportCache {
	if cache == nil {
		return nopReportCache{}
	}
	return cache
}
