package planner

import (
	"time"

	"alcyxob/trainer-ai/internal/domain"
)

// WorkoutRecord maps a validated workout result to the rows that store it:
// the plan itself and one GeneratedWorkout per training day. Identifiers are
// left empty for the repository to assign.
func WorkoutRecord(profile domain.ClientProfile, week int, res *Result[domain.WorkoutPlan], at time.Time) domain.WorkoutPlanRecord {
	rec := domain.WorkoutPlanRecord{
		ClientID:       profile.ID,
		Week:           week,
		TrainingDays:   res.Plan.TrainingDays(),
		Plan:           *res.Plan,
		Prompt:         res.Prompt,
		Model:          res.Model,
		GenerationDate: at,
	}
	for _, d := range res.Plan.Days {
		if d.Rest {
			continue
		}
		rec.Workouts = append(rec.Workouts, domain.GeneratedWorkout{
			ClientID:       profile.ID,
			Week:           week,
			Day:            d.Day,
			Focus:          d.Focus,
			DurationMin:    profile.WorkoutDurationMin,
			WarmUp:         d.WarmUp,
			Exercises:      d.Exercises,
			CoolDown:       d.CoolDown,
			Prompt:         res.Prompt,
			Model:          res.Model,
			GenerationDate: at,
		})
	}
	return rec
}

// MealPlanRecord maps a validated meal plan result to its stored row.
func MealPlanRecord(clientID string, week int, res *Result[domain.MealPlan], at time.Time) domain.MealPlanRecord {
	return domain.MealPlanRecord{
		ClientID:       clientID,
		Week:           week,
		DurationDays:   len(res.Plan.Days),
		Plan:           *res.Plan,
		Prompt:         res.Prompt,
		Model:          res.Model,
		GenerationDate: at,
	}
}
