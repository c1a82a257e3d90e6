package nutrition

import (
	"errors"
	"math"
)

// GoalTolerance is the on-goal band around the calorie goal: a day is on
// goal when 0.9*goal <= actual <= 1.1*goal.
const GoalTolerance = 0.10

// Reasons an item is left out of totals.
const (
	SkipOrphanedProduct = "orphaned_product"
	SkipInvalidProduct  = "invalid_product"
	SkipInvalidQuantity = "invalid_quantity"
)

// Item is one consumed portion of a product within a meal.
type Item struct {
	ID            uint
	MealID        uint
	ProductID     uint
	ConsumedGrams float64
}

// MealItems groups the items of a single meal.
type MealItems struct {
	MealID uint
	Items  []Item
}

// SkippedItem describes an item excluded from totals.
type SkippedItem struct {
	ItemID    uint   `json:"item_id"`
	MealID    uint   `json:"meal_id"`
	ProductID uint   `json:"product_id"`
	Reason    string `json:"reason"`
}

// Totals is the result of aggregating items. Skipped is empty when every
// item counted.
type Totals struct {
	Macros
	Counted int           `json:"counted_items"`
	Skipped []SkippedItem `json:"skipped,omitempty"`
}

// AggregateMeal sums the scaled macros of items. Items whose product is
// missing from products, or that fail scaling preconditions, are skipped and
// reported instead of failing the whole meal.
func AggregateMeal(items []Item, products map[uint]Product) Totals {
	var t Totals
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			t.Skipped = append(t.Skipped, skipped(it, SkipOrphanedProduct))
			continue
		}
		m, err := Scale(p, it.ConsumedGrams)
		if err != nil {
			reason := SkipInvalidQuantity
			if errors.Is(err, ErrInvalidProduct) {
				reason = SkipInvalidProduct
			}
			t.Skipped = append(t.Skipped, skipped(it, reason))
			continue
		}
		t.Macros = t.Macros.Add(m)
		t.Counted++
	}
	t.Macros = t.Macros.rounded()
	return t
}

// AggregateDay sums AggregateMeal over every meal of a day.
func AggregateDay(meals []MealItems, products map[uint]Product) Totals {
	var t Totals
	for _, m := range meals {
		mt := AggregateMeal(m.Items, products)
		t.Macros = t.Macros.Add(mt.Macros)
		t.Counted += mt.Counted
		t.Skipped = append(t.Skipped, mt.Skipped...)
	}
	t.Macros = t.Macros.rounded()
	return t
}

func skipped(it Item, reason string) SkippedItem {
	return SkippedItem{ItemID: it.ID, MealID: it.MealID, ProductID: it.ProductID, Reason: reason}
}

// Remaining is what is left of goal after totals, never below zero.
func Remaining(goal, totals Macros) Macros {
	return Macros{
		Calories: math.Max(0, goal.Calories-totals.Calories),
		Protein:  Round(math.Max(0, goal.Protein-totals.Protein), 1),
		Carbs:    Round(math.Max(0, goal.Carbs-totals.Carbs), 1),
		Fats:     Round(math.Max(0, goal.Fats-totals.Fats), 1),
	}
}

// IsOnGoal reports whether actual calories fall within GoalTolerance of the
// calorie goal.
func IsOnGoal(actual, goal float64) bool {
	return actual >= goal*(1-GoalTolerance) && actual <= goal*(1+GoalTolerance)
}
