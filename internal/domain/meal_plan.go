package domain

import (
	"fmt"
	"time"
)

// MacroTotals are the weekly nutrition targets of a meal plan.
type MacroTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type Meal struct {
	MealType string   `json:"meal_type"`
	Foods    []string `json:"foods"`
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
}

type MealDay struct {
	Day   int    `json:"day"`
	Meals []Meal `json:"meals"`
}

// MealPlan is a parsed seven day meal plan.
type MealPlan struct {
	WeeklyTotals *MacroTotals `json:"weekly_totals"`
	Days         []MealDay    `json:"days"`
}

// Validate enforces non-negative totals and one entry with at least one meal
// for each day of the week.
func (p *MealPlan) Validate() error {
	var problems []string
	if t := p.WeeklyTotals; t != nil {
		for _, f := range []struct {
			name  string
			value float64
		}{{"calories", t.Calories}, {"protein", t.Protein}, {"carbs", t.Carbs}, {"fat", t.Fat}} {
			if f.value < 0 {
				problems = append(problems, fmt.Sprintf("weekly %s %v negative", f.name, f.value))
			}
		}
	} else {
		problems = append(problems, "missing weekly_totals")
	}
	if len(p.Days) != DaysInPlan {
		problems = append(problems, fmt.Sprintf("plan has %d day entries, want %d", len(p.Days), DaysInPlan))
	}
	seen := make(map[int]bool, DaysInPlan)
	for i, d := range p.Days {
		if d.Day < 1 || d.Day > DaysInPlan {
			problems = append(problems, fmt.Sprintf("day entry %d: day %d outside 1-%d", i+1, d.Day, DaysInPlan))
		} else if seen[d.Day] {
			problems = append(problems, fmt.Sprintf("day entry %d: day %d repeated", i+1, d.Day))
		}
		seen[d.Day] = true
		if len(d.Meals) == 0 {
			problems = append(problems, fmt.Sprintf("day entry %d lists no meals", i+1))
		}
		for j, m := range d.Meals {
			if m.Calories < 0 || m.Protein < 0 {
				problems = append(problems, fmt.Sprintf("day entry %d meal %d has negative macros", i+1, j+1))
			}
		}
	}
	return joinProblems(problems)
}

// MealPlanRecord is a stored generated meal plan.
type MealPlanRecord struct {
	ID             string    `json:"mealPlanId"`
	ClientID       string    `json:"clientId"`
	Week           int       `json:"planWeek"`
	DurationDays   int       `json:"durationDays"`
	Plan           MealPlan  `json:"plan"`
	Prompt         string    `json:"-"`
	Model          string    `json:"model"`
	GenerationDate time.Time `json:"generationDate"`
}
