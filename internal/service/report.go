package service

import (
	"context"
	"log"
	"time"

	"github.com/macrolog/macrolog/backend/internal/models"
	"github.com/macrolog/macrolog/backend/internal/nutrition"
)

var _ IReportService = (*ReportService)(nil)

// DailyReport is a day's consumption against the goal in effect that day
type DailyReport struct {
	Date         string                  `json:"date"`
	Totals       nutrition.Macros        `json:"totals"`
	Goal         nutrition.Macros        `json:"goal"`
	Remaining    nutrition.Macros        `json:"remaining"`
	OnGoal       bool                    `json:"on_goal"`
	SkippedItems int                     `json:"skipped_items"`
	Skipped      []nutrition.SkippedItem `json:"skipped,omitempty"`
}

// MonthlyReport covers one calendar month. PerDay only holds tracked days,
// days with at least one counted item. GoalsPerDay holds every day.
type MonthlyReport struct {
	Year         int                         `json:"year"`
	Month        int                         `json:"month"`
	PerDay       map[string]nutrition.Macros `json:"per_day"`
	GoalsPerDay  map[string]nutrition.Macros `json:"goals_per_day"`
	GoalHistory  []nutrition.GoalEntry       `json:"goal_history"`
	Stats        nutrition.PeriodStats       `json:"stats"`
	SkippedItems int                         `json:"skipped_items"`
}

// ReportService computes progress reports from the store
type ReportService struct {
	store Store
	cache ReportCache
}

func NewReportService(store Store, cache ReportCache) *ReportService {
	return &ReportService{store: store, cache: cacheOrNop(cache)}
}

func (s *ReportService) ComputeDailyReport(ctx context.Context, userID uint, date string) (*DailyReport, error) {
	date, err := nutrition.ParseDate(date)
	if err != nil {
		return nil, err
	}

	fallback, err := s.store.GetCurrentGoal(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.store.ListGoalHistory(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	meals, err := s.store.ListMealsForUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	itemsByMeal, products, err := loadMealData(ctx, s.store, meals)
	if err != nil {
		return nil, err
	}

	totals := nutrition.AggregateDay(mealItems(meals, itemsByMeal), products)
	goal := nutrition.ResolveGoal(date, models.GoalEntries(history), fallback)

	return &DailyReport{
		Date:         date,
		Totals:       totals.Macros,
		Goal:         goal,
		Remaining:    nutrition.Remaining(goal, totals.Macros),
		OnGoal:       nutrition.IsOnGoal(totals.Calories, goal.Calories),
		SkippedItems: len(totals.Skipped),
		Skipped:      totals.Skipped,
	}, nil
}

// ComputeMonthlyReport judges every tracked day of the month against the
// goal in effect on that day. Results are cached until the user's data
// changes.
func (s *ReportService) ComputeMonthlyReport(ctx context.Context, userID uint, year, month int) (*MonthlyReport, error) {
	first, last, err := nutrition.MonthRange(year, month)
	if err != nil {
		return nil, err
	}

	// key is taken before any data is read; a write landing mid-computation
	// leaves the stored result unreachable.
	cached, key, err := s.cache.GetMonthly(ctx, userID, year, month)
	if err != nil {
		log.Printf("Warning: report cache read failed for user %d: %v", userID, err)
	} else if cached != nil {
		return cached, nil
	}

	fallback, err := s.store.GetCurrentGoal(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListGoalHistory(ctx, userID, last)
	if err != nil {
		return nil, err
	}
	history := models.GoalEntries(rows)

	meals, err := s.store.ListMealsForUserBetween(ctx, userID, first, last)
	if err != nil {
		return nil, err
	}
	itemsByMeal, products, err := loadMealData(ctx, s.store, meals)
	if err != nil {
		return nil, err
	}

	mealsByDate := make(map[string][]models.Meal)
	for _, m := range meals {
		mealsByDate[m.Date] = append(mealsByDate[m.Date], m)
	}

	report := &MonthlyReport{
		Year:        year,
		Month:       month,
		PerDay:      make(map[string]nutrition.Macros),
		GoalsPerDay: make(map[string]nutrition.Macros),
		GoalHistory: history,
	}

	var tracked []nutrition.DayTotals
	for _, date := range daysBetween(first, last) {
		report.GoalsPerDay[date] = nutrition.ResolveGoal(date, history, fallback)

		dayMeals, ok := mealsByDate[date]
		if !ok {
			continue
		}
		totals := nutrition.AggregateDay(mealItems(dayMeals, itemsByMeal), products)
		report.SkippedItems += len(totals.Skipped)
		if totals.Counted == 0 {
			continue
		}
		report.PerDay[date] = totals.Macros
		tracked = append(tracked, nutrition.DayTotals{Date: date, Totals: totals.Macros})
	}
	report.Stats = nutrition.Summarize(tracked, history, fallback)

	if key != "" {
		if err := s.cache.SetMonthly(ctx, key, report); err != nil {
			log.Printf("Warning: report cache write failed for user %d: %v", userID, err)
		}
	}
	return report, nil
}

func mealItems(meals []models.Meal, itemsByMeal map[uint][]nutrition.Item) []nutrition.MealItems {
	out := make([]nutrition.MealItems, len(meals))
	for i, m := range meals {
		out[i] = nutrition.MealItems{MealID: m.ID, Items: itemsByMeal[m.ID]}
	}
	return out
}

// daysBetween lists the date keys from first to last inclusive. Both must
// be valid date keys.
func daysBetween(first, last string) []string {
	start, _ := time.Parse(nutrition.DateLayout, first)
	end, _ := time.Parse(nutrition.DateLayout, last)
	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(nutrition.DateLayout))
	}
	return days
}
