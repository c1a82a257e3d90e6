// Package nutrition holds the pure macro arithmetic: scaling product macros
// to consumed grams, resolving the goal in effect on a date, and summing
// consumption per meal, day and period.
package nutrition

import (
	"errors"
	"math"
	"time"
)

// DateLayout is the ISO calendar date format used for every date key.
const DateLayout = "2006-01-02"

var (
	ErrInvalidProduct  = errors.New("product reference grams must be greater than zero")
	ErrInvalidQuantity = errors.New("consumed grams must be greater than zero")
	ErrInvalidDate     = errors.New("date must be formatted as YYYY-MM-DD")
)

// Macros holds the four tracked nutrients. It is used for product values,
// consumed totals and goals alike.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// DefaultGoals is assigned to new users and used when nothing else applies.
var DefaultGoals = Macros{Calories: 2000, Protein: 150, Carbs: 200, Fats: 65}

// Add returns the element-wise sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fats:     m.Fats + o.Fats,
	}
}

// IsZero reports whether all fields are zero.
func (m Macros) IsZero() bool {
	return m == Macros{}
}

// rounded trims accumulated float noise from sums of rounded values.
func (m Macros) rounded() Macros {
	return Macros{
		Calories: Round(m.Calories, 0),
		Protein:  Round(m.Protein, 1),
		Carbs:    Round(m.Carbs, 1),
		Fats:     Round(m.Fats, 1),
	}
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ParseDate validates an ISO date key and returns it unchanged.
func ParseDate(s string) (string, error) {
	if len(s) != len(DateLayout) {
		return "", ErrInvalidDate
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", ErrInvalidDate
	}
	return s, nil
}

// MonthRange returns the first and last date keys of a calendar month.
func MonthRange(year, month int) (string, string, error) {
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return "", "", ErrInvalidDate
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout), nil
}

// CalorieSplit is the share of goal calories contributed by each macro, in
// whole percent.
type CalorieSplit struct {
	ProteinPct float64 `json:"protein_pct"`
	CarbsPct   float64 `json:"carbs_pct"`
	FatsPct    float64 `json:"fats_pct"`
}

// SplitCalories uses 4 kcal/g for protein and carbs and 9 kcal/g for fats.
func SplitCalories(goal Macros) CalorieSplit {
	if goal.Calories <= 0 {
		return CalorieSplit{}
	}
	pct := func(kcal float64) float64 { return math.Round(kcal / goal.Calories * 100) }
	return CalorieSplit{
		ProteinPct: pct(goal.Protein * 4),
		CarbsPct:   pct(goal.Carbs * 4),
		FatsPct:    pct(goal.Fats * 9),
	}
}
