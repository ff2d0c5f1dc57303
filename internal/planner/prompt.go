package planner

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"alcyxob/trainer-ai/internal/domain"
)

// Defaults used in the meal plan prompt when the client has no targets set.
const (
	DefaultTargetCalories = 2000
	DefaultTargetProteinG = 150
)

// BuildWorkoutPrompt renders the instruction for one week of training. The
// embedded example is itself a valid plan with the requested number of
// training days, so a model echoing it back still produces a parseable answer.
func BuildWorkoutPrompt(req domain.WorkoutPlanRequest) string {
	p := req.Profile
	rest := domain.DaysInPlan - p.DaysPerWeek

	var b strings.Builder
	b.WriteString("You are an expert personal trainer. Generate a detailed 7-day workout plan for week ")
	b.WriteString(strconv.Itoa(req.Week))
	b.WriteString(" of a client's program.\n\n")
	writeProfileBlock(&b, p)

	b.WriteString("\nPrevious weeks:\n")
	if len(req.PriorWeeks) == 0 {
		b.WriteString("- None, this is the first generated week.\n")
	}
	for _, w := range req.PriorWeeks {
		focuses := "not recorded"
		if len(w.Focuses) > 0 {
			focuses = strings.Join(w.Focuses, ", ")
		}
		fmt.Fprintf(&b, "- Week %d: %s (%d minutes per session)\n", w.Week, focuses, w.DurationMin)
	}

	b.WriteString("\nRequirements:\n")
	fmt.Fprintf(&b, "1. Exactly 7 day entries: exactly %d training days and %d rest days.\n", p.DaysPerWeek, rest)
	fmt.Fprintf(&b, "2. Each training day fits in %d minutes and must include a warm-up and cool-down.\n", p.WorkoutDurationMin)
	b.WriteString("3. Vary the focus from prior weeks and across the training days of this week.\n")
	fmt.Fprintf(&b, "4. Sets, reps and rest periods appropriate to a %s client, using only the available equipment.\n", p.FitnessLevel)
	b.WriteString("5. Rest days carry only a recovery recommendation and no exercises.\n")

	b.WriteString("\nFormat EXACTLY as this JSON structure (no extra text before or after):\n")
	b.WriteString(mustIndent(ExampleWorkoutPlan(p.DaysPerWeek)))
	return b.String()
}

// BuildMealPlanPrompt renders the instruction for a seven day meal plan.
func BuildMealPlanPrompt(p domain.ClientProfile) string {
	calories, protein := mealTargets(p)

	var b strings.Builder
	b.WriteString("You are a sports nutritionist. Create a detailed 7-day meal plan for a client.\n\n")
	writeProfileBlock(&b, p)

	b.WriteString("\nRequirements:\n")
	fmt.Fprintf(&b, "1. Daily meals (breakfast, lunch, dinner, snacks) totalling about %d kcal and %dg protein.\n", calories, protein)
	b.WriteString("2. Respect the dietary preferences and never include anything from the allergies list.\n")
	b.WriteString("3. Exactly 7 day entries, each with at least one meal listing specific foods or recipes.\n")
	b.WriteString("4. All calorie and macronutrient values are non-negative numbers.\n")

	b.WriteString("\nFormat EXACTLY as this JSON structure (no extra text before or after):\n")
	b.WriteString(mustIndent(ExampleMealPlan(calories, protein)))
	return b.String()
}

func writeProfileBlock(b *strings.Builder, p domain.ClientProfile) {
	b.WriteString("Client Profile:\n")
	fmt.Fprintf(b, "- Age: %d\n", p.Age)
	fmt.Fprintf(b, "- Gender: %s\n", p.Gender)
	fmt.Fprintf(b, "- Current Weight: %s kg\n", FormatFloat(p.CurrentWeightKg))
	fmt.Fprintf(b, "- Height: %d cm\n", p.HeightCm)
	fmt.Fprintf(b, "- Fitness Level: %s\n", p.FitnessLevel)
	fmt.Fprintf(b, "- Goals: %s\n", listOrNone(p.FitnessGoals))
	fmt.Fprintf(b, "- Available Equipment: %s\n", listOrNone(p.AvailableEquipment))
	fmt.Fprintf(b, "- Days Available per Week: %d\n", p.DaysPerWeek)
	fmt.Fprintf(b, "- Preferred Duration: %d minutes\n", p.WorkoutDurationMin)
	fmt.Fprintf(b, "- Dietary Preferences: %s\n", listOrNone(p.DietaryPreferences))
	allergies := strings.TrimSpace(p.Allergies)
	if allergies == "" {
		allergies = "None"
	}
	fmt.Fprintf(b, "- Allergies/Restrictions: %s\n", allergies)
	if p.TargetCalories != nil {
		fmt.Fprintf(b, "- Target Daily Calories: %d\n", *p.TargetCalories)
	}
	if p.TargetProteinG != nil {
		fmt.Fprintf(b, "- Target Protein: %dg\n", *p.TargetProteinG)
	}
}

func mealTargets(p domain.ClientProfile) (int, int) {
	calories, protein := DefaultTargetCalories, DefaultTargetProteinG
	if p.TargetCalories != nil {
		calories = *p.TargetCalories
	}
	if p.TargetProteinG != nil {
		protein = *p.TargetProteinG
	}
	return calories, protein
}

// FormatFloat prints a float without trailing zeros, as it appears in prompts.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func listOrNone(values []string) string {
	if len(values) == 0 {
		return "None"
	}
	return strings.Join(values, ", ")
}

// ExampleWorkoutPlan is the literal output contract shown to the model.
// Training days are spread across the week, starting on day 1.
func ExampleWorkoutPlan(trainingDays int) domain.WorkoutPlan {
	plan := domain.WorkoutPlan{Days: make([]domain.WorkoutDay, 0, domain.DaysInPlan)}
	for d := 0; d < domain.DaysInPlan; d++ {
		day := domain.WorkoutDay{Day: d + 1}
		if ceilDiv((d+1)*trainingDays, domain.DaysInPlan) > ceilDiv(d*trainingDays, domain.DaysInPlan) {
			day.Focus = "Focus Area"
			day.WarmUp = "warm-up description here"
			day.Exercises = []domain.PlannedExercise{
				{Name: "Exercise Name", Sets: 3, Reps: "8-10", RestSec: 60, Notes: "form cues"},
				{Name: "Exercise Name", Sets: 3, Reps: "8-10", RestSec: 60, Notes: "form cues"},
			}
			day.CoolDown = "cool-down description here"
		} else {
			day.Rest = true
			day.Recovery = "recovery recommendation here"
		}
		plan.Days = append(plan.Days, day)
	}
	return plan
}

// ExampleMealPlan is the literal output contract shown to the model.
func ExampleMealPlan(calories, protein int) domain.MealPlan {
	plan := domain.MealPlan{
		WeeklyTotals: &domain.MacroTotals{Calories: float64(calories), Protein: float64(protein), Carbs: 200, Fat: 70},
		Days:         make([]domain.MealDay, 0, domain.DaysInPlan),
	}
	for d := 1; d <= domain.DaysInPlan; d++ {
		plan.Days = append(plan.Days, domain.MealDay{
			Day: d,
			Meals: []domain.Meal{
				{MealType: "breakfast", Foods: []string{"food 1", "food 2"}, Calories: 500, Protein: 30},
				{MealType: "lunch", Foods: []string{"food 1", "food 2"}, Calories: 600, Protein: 40},
				{MealType: "dinner", Foods: []string{"food 1", "food 2"}, Calories: 650, Protein: 45},
				{MealType: "snacks", Foods: []string{"snack"}, Calories: 250, Protein: 35},
			},
		})
	}
	return plan
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func mustIndent(v any) string {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// Only plain structs are passed in.
		panic(err)
	}
	return string(out)
}
