package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrValidation is wrapped by every Validate method in this package.
var ErrValidation = errors.New("validation failed")

// FitnessLevel is the self-reported training experience of a client.
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "Beginner"
	LevelIntermediate FitnessLevel = "Intermediate"
	LevelAdvanced     FitnessLevel = "Advanced"
)

// Gender values offered by the client form.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Enumerations accepted in the multi-select fields of a client profile.
var (
	FitnessGoals = []string{"Weight Loss", "Muscle Gain", "Endurance", "Strength", "General Fitness", "Flexibility"}
	Equipment    = []string{"Dumbbells", "Barbell", "Gym Machine", "Cardio Equipment", "Bodyweight Only", "Resistance Bands"}
	DietaryPrefs = []string{"Vegetarian", "Vegan", "Keto", "Paleo", "Mediterranean", "None"}
)

// ClientProfile holds everything the trainer knows about a client.
// It is the input of both prompt builders.
type ClientProfile struct {
	ID                 string       `json:"clientId"`
	Name               string       `json:"clientName"`
	Age                int          `json:"age"`
	Gender             string       `json:"gender"`
	CurrentWeightKg    float64      `json:"currentWeightKg"`
	HeightCm           int          `json:"heightCm"`
	FitnessLevel       FitnessLevel `json:"fitnessLevel"`
	FitnessGoals       []string     `json:"fitnessGoals"`
	AvailableEquipment []string     `json:"availableEquipment"`
	DaysPerWeek        int          `json:"daysPerWeek"`
	WorkoutDurationMin int          `json:"workoutDurationMin"`
	DietaryPreferences []string     `json:"dietaryPreferences"`
	Allergies          string       `json:"allergies,omitempty"`
	TargetCalories     *int         `json:"targetCalories,omitempty"`
	TargetProteinG     *int         `json:"targetProteinG,omitempty"`
	CreatedAt          time.Time    `json:"createdAt"`
}

// Validate checks the form ranges and enumerations. The ID is not checked,
// it is assigned by the repository on creation.
func (p *ClientProfile) Validate() error {
	var problems []string
	if strings.TrimSpace(p.Name) == "" {
		problems = append(problems, "client name is required")
	}
	if p.Age < 18 || p.Age > 100 {
		problems = append(problems, fmt.Sprintf("age %d outside 18-100", p.Age))
	}
	switch p.Gender {
	case GenderMale, GenderFemale, GenderOther:
	default:
		problems = append(problems, fmt.Sprintf("unknown gender %q", p.Gender))
	}
	if p.CurrentWeightKg < 30 || p.CurrentWeightKg > 300 {
		problems = append(problems, fmt.Sprintf("weight %v kg outside 30-300", p.CurrentWeightKg))
	}
	if p.HeightCm < 100 || p.HeightCm > 250 {
		problems = append(problems, fmt.Sprintf("height %d cm outside 100-250", p.HeightCm))
	}
	switch p.FitnessLevel {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
	default:
		problems = append(problems, fmt.Sprintf("unknown fitness level %q", p.FitnessLevel))
	}
	if len(p.FitnessGoals) == 0 {
		problems = append(problems, "at least one fitness goal is required")
	}
	problems = append(problems, checkSubset("fitness goal", p.FitnessGoals, FitnessGoals)...)
	problems = append(problems, checkSubset("equipment", p.AvailableEquipment, Equipment)...)
	problems = append(problems, checkSubset("dietary preference", p.DietaryPreferences, DietaryPrefs)...)
	if p.DaysPerWeek < 1 || p.DaysPerWeek > 7 {
		problems = append(problems, fmt.Sprintf("days per week %d outside 1-7", p.DaysPerWeek))
	}
	if p.WorkoutDurationMin < 15 || p.WorkoutDurationMin > 180 {
		problems = append(problems, fmt.Sprintf("workout duration %d min outside 15-180", p.WorkoutDurationMin))
	}
	if p.TargetCalories != nil && (*p.TargetCalories < 1200 || *p.TargetCalories > 5000) {
		problems = append(problems, fmt.Sprintf("target calories %d outside 1200-5000", *p.TargetCalories))
	}
	if p.TargetProteinG != nil && (*p.TargetProteinG < 50 || *p.TargetProteinG > 300) {
		problems = append(problems, fmt.Sprintf("target protein %d g outside 50-300", *p.TargetProteinG))
	}
	return joinProblems(problems)
}

func checkSubset(field string, values, allowed []string) []string {
	var problems []string
	for _, v := range values {
		if !contains(allowed, v) {
			problems = append(problems, fmt.Sprintf("unknown %s %q", field, v))
		}
	}
	return problems
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func joinProblems(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
}
