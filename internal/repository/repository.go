package repository

import (
	"context"

	"alcyxob/trainer-ai/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound = RepositoryError("not found")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ClientRepository stores client profiles.
type ClientRepository interface {
	// Create assigns a new ID to the profile and inserts it.
	Create(ctx context.Context, profile *domain.ClientProfile) (string, error)
	GetByID(ctx context.Context, id string) (*domain.ClientProfile, error)
	// List returns every client ordered by name.
	List(ctx context.Context) ([]domain.ClientProfile, error)
}

// WorkoutRepository stores generated workout plans and their training days.
type WorkoutRepository interface {
	// CreatePlan inserts the plan and all of its workouts in one transaction,
	// assigning fresh IDs to each row.
	CreatePlan(ctx context.Context, plan *domain.WorkoutPlanRecord) (string, error)
	// ListByClient returns plans newest first, with their workouts.
	ListByClient(ctx context.Context, clientID string) ([]domain.WorkoutPlanRecord, error)
	GetWorkout(ctx context.Context, workoutID string) (*domain.GeneratedWorkout, error)
	// PriorWeeks summarizes the stored weeks before the given one, oldest
	// first, at most limit of them.
	PriorWeeks(ctx context.Context, clientID string, beforeWeek, limit int) ([]domain.PriorWeek, error)
}

// MealPlanRepository stores generated meal plans.
type MealPlanRepository interface {
	Create(ctx context.Context, plan *domain.MealPlanRecord) (string, error)
	// ListByClient returns plans newest first.
	ListByClient(ctx context.Context, clientID string) ([]domain.MealPlanRecord, error)
}

// WeighInRepository stores body weight entries.
type WeighInRepository interface {
	Create(ctx context.Context, w *domain.WeighIn) (string, error)
	// History returns entries ordered by date, oldest first.
	History(ctx context.Context, clientID string) ([]domain.WeighIn, error)
}

// MeasurementRepository stores body measurements.
type MeasurementRepository interface {
	Create(ctx context.Context, m *domain.BodyMeasurement) (string, error)
	// ListByClient returns measurements newest first.
	ListByClient(ctx context.Context, clientID string) ([]domain.BodyMeasurement, error)
}

// ExerciseResultRepository stores performed sets. There is no update or
// delete.
type ExerciseResultRepository interface {
	Create(ctx context.Context, s *domain.ExerciseResultSet) (string, error)
	// ListByWorkout returns sets by exercise and set number.
	ListByWorkout(ctx context.Context, workoutID string) ([]domain.ExerciseResultSet, error)
	// ListByClient returns sets newest first.
	ListByClient(ctx context.Context, clientID string) ([]domain.ExerciseResultSet, error)
}

// RunningRepository stores running sessions.
type RunningRepository interface {
	Create(ctx context.Context, r *domain.RunningSession) (string, error)
	// ListByClient returns runs newest first.
	ListByClient(ctx context.Context, clientID string) ([]domain.RunningSession, error)
}

// EventRepository is the application activity log.
type EventRepository interface {
	Record(ctx context.Context, e *domain.Event) error
}
