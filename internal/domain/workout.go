package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DaysInPlan is the fixed length of every generated plan.
const DaysInPlan = 7

// RepSpec is the prescribed repetitions of an exercise. Models emit either a
// string ("8-10", "AMRAP"), a bare number (10) or a two element range ([8, 10]);
// all three decode into the same textual form.
type RepSpec string

func (r *RepSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RepSpec(s)
		return nil
	case '[':
		var bounds []json.Number
		if err := json.Unmarshal(data, &bounds); err != nil {
			return err
		}
		if len(bounds) != 2 {
			return fmt.Errorf("rep range needs 2 bounds, got %d", len(bounds))
		}
		*r = RepSpec(bounds[0].String() + "-" + bounds[1].String())
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*r = RepSpec(n.String())
		return nil
	}
}

// PlannedExercise is one exercise prescription inside a training day.
type PlannedExercise struct {
	Name    string  `json:"name"`
	Sets    int     `json:"sets"`
	Reps    RepSpec `json:"reps"`
	RestSec int     `json:"rest_sec"`
	Notes   string  `json:"notes,omitempty"`
}

// WorkoutDay is either a rest day (Rest set, Recovery filled) or a training day.
type WorkoutDay struct {
	Day       int               `json:"day"`
	Rest      bool              `json:"rest"`
	Recovery  string            `json:"recovery,omitempty"`
	Focus     string            `json:"focus,omitempty"`
	WarmUp    string            `json:"warm_up,omitempty"`
	Exercises []PlannedExercise `json:"exercises,omitempty"`
	CoolDown  string            `json:"cool_down,omitempty"`
}

// WorkoutPlan is a parsed week of training.
type WorkoutPlan struct {
	Days []WorkoutDay `json:"days"`
}

// TrainingDays counts the non-rest entries.
func (p *WorkoutPlan) TrainingDays() int {
	n := 0
	for _, d := range p.Days {
		if !d.Rest {
			n++
		}
	}
	return n
}

// Validate enforces the structural invariants of a plan. It never coerces values.
func (p *WorkoutPlan) Validate() error {
	if len(p.Days) != DaysInPlan {
		return fmt.Errorf("%w: plan has %d day entries, want %d", ErrValidation, len(p.Days), DaysInPlan)
	}
	seen := make(map[int]bool, DaysInPlan)
	var problems []string
	for i, d := range p.Days {
		label := "entry " + strconv.Itoa(i+1)
		if d.Day < 1 || d.Day > DaysInPlan {
			problems = append(problems, fmt.Sprintf("%s: day %d outside 1-%d", label, d.Day, DaysInPlan))
		} else if seen[d.Day] {
			problems = append(problems, fmt.Sprintf("%s: day %d repeated", label, d.Day))
		}
		seen[d.Day] = true

		if d.Rest {
			if len(d.Exercises) > 0 {
				problems = append(problems, fmt.Sprintf("%s: rest day lists %d exercises", label, len(d.Exercises)))
			}
			continue
		}
		if d.WarmUp == "" {
			problems = append(problems, label+": missing warm_up")
		}
		if d.CoolDown == "" {
			problems = append(problems, label+": missing cool_down")
		}
		if len(d.Exercises) == 0 {
			problems = append(problems, label+": training day without exercises")
		}
		for j, ex := range d.Exercises {
			exLabel := fmt.Sprintf("%s exercise %d", label, j+1)
			if ex.Name == "" {
				problems = append(problems, exLabel+": missing name")
			}
			if ex.Sets <= 0 {
				problems = append(problems, fmt.Sprintf("%s: sets %d not positive", exLabel, ex.Sets))
			}
			if ex.Reps == "" {
				problems = append(problems, exLabel+": missing reps")
			}
			if ex.RestSec < 0 {
				problems = append(problems, fmt.Sprintf("%s: rest_sec %d negative", exLabel, ex.RestSec))
			}
		}
	}
	return joinProblems(problems)
}

// PriorWeek summarizes an earlier generated week so the next prompt can vary it.
type PriorWeek struct {
	Week        int      `json:"week"`
	Focuses     []string `json:"focuses"`
	DurationMin int      `json:"durationMin"`
}

// WorkoutPlanRequest is the input of the workout prompt builder.
type WorkoutPlanRequest struct {
	Profile    ClientProfile
	Week       int
	PriorWeeks []PriorWeek
}

// Validate checks the request and its profile.
func (r *WorkoutPlanRequest) Validate() error {
	if r.Week < 1 || r.Week > 52 {
		return fmt.Errorf("%w: week %d outside 1-52", ErrValidation, r.Week)
	}
	return r.Profile.Validate()
}

// WorkoutPlanRecord is a stored generated week with one GeneratedWorkout per
// training day.
type WorkoutPlanRecord struct {
	ID             string             `json:"workoutPlanId"`
	ClientID       string             `json:"clientId"`
	Week           int                `json:"week"`
	TrainingDays   int                `json:"trainingDays"`
	Plan           WorkoutPlan        `json:"plan"`
	Prompt         string             `json:"-"`
	Model          string             `json:"model"`
	GenerationDate time.Time          `json:"generationDate"`
	Workouts       []GeneratedWorkout `json:"workouts"`
}

// GeneratedWorkout is one stored training day of a plan. Exercise results
// reference it by WorkoutID.
type GeneratedWorkout struct {
	WorkoutID      string            `json:"workoutId"`
	PlanID         string            `json:"workoutPlanId"`
	ClientID       string            `json:"clientId"`
	Week           int               `json:"workoutWeek"`
	Day            int               `json:"workoutDay"`
	Focus          string            `json:"workoutFocus"`
	DurationMin    int               `json:"durationMin"`
	WarmUp         string            `json:"warmUp"`
	Exercises      []PlannedExercise `json:"exercises"`
	CoolDown       string            `json:"coolDown"`
	Prompt         string            `json:"-"`
	Model          string            `json:"model"`
	GenerationDate time.Time         `json:"generationDate"`
}
