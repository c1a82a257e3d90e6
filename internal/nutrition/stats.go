package nutrition

import "math"

// DayTotals pairs a date key with what was consumed that day.
type DayTotals struct {
	Date   string `json:"date"`
	Totals Macros `json:"totals"`
}

// PeriodStats summarizes a run of tracked days.
type PeriodStats struct {
	AvgCalories float64 `json:"avg_calories"`
	AvgProtein  float64 `json:"avg_protein"`
	DaysTracked int     `json:"days_tracked"`
	DaysOnGoal  int     `json:"days_on_goal"`
}

// Summarize averages calories and protein over days and counts the days on
// goal, judging each day against the goal resolved for that day's date.
func Summarize(days []DayTotals, history []GoalEntry, fallback Macros) PeriodStats {
	var (
		s              PeriodStats
		sumCal, sumPro float64
	)
	for _, d := range days {
		s.DaysTracked++
		sumCal += d.Totals.Calories
		sumPro += d.Totals.Protein
		goal := ResolveGoal(d.Date, history, fallback)
		if IsOnGoal(d.Totals.Calories, goal.Calories) {
			s.DaysOnGoal++
		}
	}
	if s.DaysTracked > 0 {
		s.AvgCalories = math.Round(sumCal / float64(s.DaysTracked))
		s.AvgProtein = math.Round(sumPro / float64(s.DaysTracked))
	}
	return s
}
