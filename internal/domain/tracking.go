package domain

import (
	"fmt"
	"time"
)

// WeighIn is a single body weight entry.
type WeighIn struct {
	ID         string    `json:"weighInId"`
	ClientID   string    `json:"clientId"`
	Date       time.Time `json:"weighInDate"`
	WeightKg   float64   `json:"weightKg"`
	BodyFatPct *float64  `json:"bodyFatPct,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (w *WeighIn) Validate() error {
	var problems []string
	if w.ClientID == "" {
		problems = append(problems, "client id is required")
	}
	if w.Date.IsZero() {
		problems = append(problems, "weigh-in date is required")
	}
	if w.WeightKg < 30 || w.WeightKg > 300 {
		problems = append(problems, fmt.Sprintf("weight %v kg outside 30-300", w.WeightKg))
	}
	if w.BodyFatPct != nil && (*w.BodyFatPct < 5 || *w.BodyFatPct > 50) {
		problems = append(problems, fmt.Sprintf("body fat %v%% outside 5-50", *w.BodyFatPct))
	}
	return joinProblems(problems)
}

// BodyMeasurement is a set of circumference measurements taken on one date.
type BodyMeasurement struct {
	ID        string    `json:"measurementId"`
	ClientID  string    `json:"clientId"`
	Date      time.Time `json:"measurementDate"`
	NeckCm    float64   `json:"neckCm"`
	ChestCm   float64   `json:"chestCm"`
	WaistCm   float64   `json:"waistCm"`
	HipCm     float64   `json:"hipCm"`
	ThighCm   float64   `json:"thighCm"`
	CalfCm    float64   `json:"calfCm"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m *BodyMeasurement) Validate() error {
	var problems []string
	if m.ClientID == "" {
		problems = append(problems, "client id is required")
	}
	if m.Date.IsZero() {
		problems = append(problems, "measurement date is required")
	}
	ranges := []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"neck", m.NeckCm, 20, 50},
		{"chest", m.ChestCm, 70, 150},
		{"waist", m.WaistCm, 50, 150},
		{"hip", m.HipCm, 70, 150},
		{"thigh", m.ThighCm, 35, 80},
		{"calf", m.CalfCm, 25, 50},
	}
	for _, r := range ranges {
		if r.value < r.min || r.value > r.max {
			problems = append(problems, fmt.Sprintf("%s %v cm outside %v-%v", r.name, r.value, r.min, r.max))
		}
	}
	return joinProblems(problems)
}

// ExerciseResultSet is one performed set. It is created on manual entry and
// never mutated or deleted afterwards.
type ExerciseResultSet struct {
	ID            string    `json:"resultId"`
	ClientID      string    `json:"clientId"`
	WorkoutID     string    `json:"workoutId"`
	ExerciseName  string    `json:"exerciseName"`
	PerformedDate time.Time `json:"performedDate"`
	SetNumber     int       `json:"setNumber"`
	Reps          int       `json:"reps"`
	WeightKg      *float64  `json:"weightKg,omitempty"`
	RPE           *float64  `json:"rpe,omitempty"`
	RestSec       *int      `json:"restSec,omitempty"`
	DurationSec   *int      `json:"durationSec,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (s *ExerciseResultSet) Validate() error {
	var problems []string
	if s.ClientID == "" {
		problems = append(problems, "client id is required")
	}
	if s.WorkoutID == "" {
		problems = append(problems, "workout id is required")
	}
	if s.ExerciseName == "" {
		problems = append(problems, "exercise name is required")
	}
	if s.PerformedDate.IsZero() {
		problems = append(problems, "performed date is required")
	}
	if s.SetNumber <= 0 {
		problems = append(problems, fmt.Sprintf("set number %d not positive", s.SetNumber))
	}
	if s.Reps < 0 {
		problems = append(problems, fmt.Sprintf("reps %d negative", s.Reps))
	}
	if s.WeightKg != nil && *s.WeightKg < 0 {
		problems = append(problems, "weight negative")
	}
	if s.RPE != nil && (*s.RPE < 0 || *s.RPE > 10) {
		problems = append(problems, fmt.Sprintf("rpe %v outside 0-10", *s.RPE))
	}
	if s.RestSec != nil && *s.RestSec < 0 {
		problems = append(problems, "rest negative")
	}
	if s.DurationSec != nil && *s.DurationSec < 0 {
		problems = append(problems, "duration negative")
	}
	return joinProblems(problems)
}

// RunningSession is a logged run.
type RunningSession struct {
	ID          string    `json:"runId"`
	ClientID    string    `json:"clientId"`
	RunDate     time.Time `json:"runDate"`
	DistanceKm  float64   `json:"distanceKm"`
	DurationSec int       `json:"durationSec"`
	AvgHR       *int      `json:"avgHeartRate,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (r *RunningSession) Validate() error {
	var problems []string
	if r.ClientID == "" {
		problems = append(problems, "client id is required")
	}
	if r.RunDate.IsZero() {
		problems = append(problems, "run date is required")
	}
	if r.DistanceKm <= 0 {
		problems = append(problems, fmt.Sprintf("distance %v km not positive", r.DistanceKm))
	}
	if r.DurationSec <= 0 {
		problems = append(problems, fmt.Sprintf("duration %d s not positive", r.DurationSec))
	}
	if r.AvgHR != nil && (*r.AvgHR < 30 || *r.AvgHR > 250) {
		problems = append(problems, fmt.Sprintf("heart rate %d outside 30-250", *r.AvgHR))
	}
	return joinProblems(problems)
}

// PaceSecPerKm is the average pace of the run.
func (r *RunningSession) PaceSecPerKm() float64 {
	if r.DistanceKm <= 0 {
		return 0
	}
	return float64(r.DurationSec) / r.DistanceKm
}
