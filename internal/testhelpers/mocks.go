package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/macrolog/macrolog/backend/internal/models"
	"github.com/macrolog/macrolog/backend/internal/nutrition"
	"github.com/macrolog/macrolog/backend/internal/service"
	"github.com/macrolog/macrolog/backend/internal/types"
)

// MockTokenValidator is a mock implementation of middleware.TokenValidator
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

// MockStore is a mock implementation of service.Store
type MockStore struct {
	mock.Mock
}

var _ service.Store = (*MockStore)(nil)

func (m *MockStore) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockStore) ListProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]models.Product), args.Error(1)
}

func (m *MockStore) ListMealsForUserAndDate(ctx context.Context, userID uint, date string) ([]models.Meal, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Meal), args.Error(1)
}

func (m *MockStore) ListMealsForUserBetween(ctx context.Context, userID uint, from, to string) ([]models.Meal, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Meal), args.Error(1)
}

func (m *MockStore) ListItemsForMeal(ctx context.Context, mealID uint) ([]models.MealItem, error) {
	args := m.Called(ctx, mealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MealItem), args.Error(1)
}

func (m *MockStore) ListItemsForMeals(ctx context.Context, mealIDs []uint) ([]models.MealItem, error) {
	args := m.Called(ctx, mealIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MealItem), args.Error(1)
}

func (m *MockStore) ListGoalHistory(ctx context.Context, userID uint, upTo string) ([]models.GoalHistory, error) {
	args := m.Called(ctx, userID, upTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GoalHistory), args.Error(1)
}

func (m *MockStore) GetCurrentGoal(ctx context.Context, userID uint) (nutrition.Macros, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(nutrition.Macros), args.Error(1)
}

// MemoryReportCache is an in-process service.ReportCache. Like the Redis
// cache it keys reports by version, so a key handed out before an
// invalidation stores a report nobody reads.
type MemoryReportCache struct {
	mu       sync.Mutex
	reports  map[service.ReportKey]*service.MonthlyReport
	global   int
	versions map[uint]int
	Gets     int
	Hits     int
}

var _ service.ReportCache = (*MemoryReportCache)(nil)

func NewMemoryReportCache() *MemoryReportCache {
	return &MemoryReportCache{
		reports:  make(map[service.ReportKey]*service.MonthlyReport),
		versions: make(map[uint]int),
	}
}

func (c *MemoryReportCache) GetMonthly(_ context.Context, userID uint, year, month int) (*service.MonthlyReport, service.ReportKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Gets++
	key := c.key(userID, year, month)
	r, ok := c.reports[key]
	if ok {
		c.Hits++
	}
	return r, key, nil
}

func (c *MemoryReportCache) SetMonthly(_ context.Context, key service.ReportKey, report *service.MonthlyReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[key] = report
	return nil
}

func (c *MemoryReportCache) InvalidateUser(_ context.Context, userID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[userID]++
	return nil
}

func (c *MemoryReportCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.global++
	return nil
}

// Prime stores report as the current cached report of userID
func (c *MemoryReportCache) Prime(t *testing.T, userID uint, report *service.MonthlyReport) {
	t.Helper()
	ctx := context.Background()
	_, key, err := c.GetMonthly(ctx, userID, report.Year, report.Month)
	if err != nil {
		t.Fatalf("failed to look up report key: %v", err)
	}
	if err := c.SetMonthly(ctx, key, report); err != nil {
		t.Fatalf("failed to prime report cache: %v", err)
	}
}

// Cached returns the report a fresh lookup would hit, or nil
func (c *MemoryReportCache) Cached(userID uint, year, month int) *service.MonthlyReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reports[c.key(userID, year, month)]
}

// key must be called with mu held
func (c *MemoryReportCache) key(userID uint, year, month int) service.ReportKey {
	return service.ReportKey(fmt.Sprintf("%d:%04d-%02d:g%d:u%d", userID, year, month, c.global, c.versions[userID]))
}
