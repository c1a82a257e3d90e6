package nutrition

// GoalEntry records that starting on EffectiveDate the user's goal became
// Goals.
type GoalEntry struct {
	ID            uint   `json:"id"`
	EffectiveDate string `json:"effective_date"`
	Goals         Macros `json:"goals"`
}

// ResolveGoal returns the goal in effect on date: the entry with the latest
// EffectiveDate not after date, the highest ID winning among entries sharing
// that date. entries may be in any order. fallback applies when no entry has
// taken effect yet.
func ResolveGoal(date string, entries []GoalEntry, fallback Macros) Macros {
	var (
		best  GoalEntry
		found bool
	)
	for _, e := range entries {
		if e.EffectiveDate > date {
			continue
		}
		if !found || e.EffectiveDate > best.EffectiveDate ||
			(e.EffectiveDate == best.EffectiveDate && e.ID > best.ID) {
			best = e
			found = true
		}
	}
	if !found {
		return fallback
	}
	return best.Goals
}
