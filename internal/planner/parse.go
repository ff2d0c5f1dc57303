package planner

import (
	"fmt"

	"alcyxob/trainer-ai/internal/domain"
)

var (
	workoutRequired  = []string{"days"}
	mealPlanRequired = []string{"weekly_totals", "days"}
)

// ParseWorkoutPlan extracts and validates a workout plan from completion text.
// Prose before and after the JSON object is tolerated.
func ParseWorkoutPlan(raw string) (*domain.WorkoutPlan, error) {
	shape, err := workoutShape()
	if err != nil {
		return nil, fmt.Errorf("workout plan schema: %w", err)
	}
	return decodeFirst(raw, workoutRequired, shape, (*domain.WorkoutPlan).Validate)
}

// ParseMealPlan extracts and validates a meal plan from completion text.
func ParseMealPlan(raw string) (*domain.MealPlan, error) {
	shape, err := mealPlanShape()
	if err != nil {
		return nil, fmt.Errorf("meal plan schema: %w", err)
	}
	return decodeFirst(raw, mealPlanRequired, shape, (*domain.MealPlan).Validate)
}
