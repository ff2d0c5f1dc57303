package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/repository"
)

// WeightHistory is the weigh-in history of a client with its summary.
// The summary fields are nil when there are no entries.
type WeightHistory struct {
	Entries    []domain.WeighIn `json:"entries"`
	LatestKg   *float64         `json:"latestKg,omitempty"`
	StartingKg *float64         `json:"startingKg,omitempty"`
	ChangeKg   *float64         `json:"changeKg,omitempty"`
}

// RunSummary is a running session with its derived pace.
type RunSummary struct {
	domain.RunningSession
	PaceSecPerKm float64 `json:"paceSecPerKm"`
}

// TrackingService records progress data entered for a client.
type TrackingService interface {
	RecordWeighIn(ctx context.Context, w *domain.WeighIn) (*domain.WeighIn, error)
	WeightHistory(ctx context.Context, clientID string) (*WeightHistory, error)

	RecordMeasurement(ctx context.Context, m *domain.BodyMeasurement) (*domain.BodyMeasurement, error)
	Measurements(ctx context.Context, clientID string) ([]domain.BodyMeasurement, error)

	// RecordExerciseResult logs one performed set against a stored workout of
	// the same client. Results are never updated or deleted.
	RecordExerciseResult(ctx context.Context, set *domain.ExerciseResultSet) (*domain.ExerciseResultSet, error)
	// ExerciseResults lists a client's sets, limited to one workout when
	// workoutID is set.
	ExerciseResults(ctx context.Context, clientID, workoutID string) ([]domain.ExerciseResultSet, error)

	RecordRun(ctx context.Context, r *domain.RunningSession) (*RunSummary, error)
	Runs(ctx context.Context, clientID string) ([]RunSummary, error)
}

type trackingService struct {
	clientRepo      repository.ClientRepository
	workoutRepo     repository.WorkoutRepository
	weighInRepo     repository.WeighInRepository
	measurementRepo repository.MeasurementRepository
	resultRepo      repository.ExerciseResultRepository
	runRepo         repository.RunningRepository
	events          *eventLog
	clock           clockwork.Clock
	log             *slog.Logger
}

// TrackingServiceDeps groups the collaborators of the tracking service.
type TrackingServiceDeps struct {
	Clients         repository.ClientRepository
	Workouts        repository.WorkoutRepository
	WeighIns        repository.WeighInRepository
	Measurements    repository.MeasurementRepository
	ExerciseResults repository.ExerciseResultRepository
	Runs            repository.RunningRepository
	Events          repository.EventRepository
	Clock           clockwork.Clock
	Log             *slog.Logger
}

// NewTrackingService creates a new instance of trackingService.
func NewTrackingService(d TrackingServiceDeps) TrackingService {
	return &trackingService{
		clientRepo:      d.Clients,
		workoutRepo:     d.Workouts,
		weighInRepo:     d.WeighIns,
		measurementRepo: d.Measurements,
		resultRepo:      d.ExerciseResults,
		runRepo:         d.Runs,
		events:          newEventLog(d.Events, d.Clock, d.Log),
		clock:           d.Clock,
		log:             d.Log,
	}
}

// today is the default for entries submitted without a date.
func (s *trackingService) today() time.Time {
	return s.clock.Now().UTC().Truncate(24 * time.Hour)
}

// === Weigh-ins ===

func (s *trackingService) RecordWeighIn(ctx context.Context, w *domain.WeighIn) (*domain.WeighIn, error) {
	if w.Date.IsZero() {
		w.Date = s.today()
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if _, err := loadClient(ctx, s.clientRepo, w.ClientID); err != nil {
		return nil, err
	}
	w.CreatedAt = s.clock.Now().UTC()
	if _, err := s.weighInRepo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("record weigh-in: %w", err)
	}
	s.events.recordInfo(ctx, domain.EventWeighInRecorded, w.ClientID, "weigh-in recorded",
		map[string]any{"weightKg": w.WeightKg})
	return w, nil
}

func (s *trackingService) WeightHistory(ctx context.Context, clientID string) (*WeightHistory, error) {
	if _, err := loadClient(ctx, s.clientRepo, clientID); err != nil {
		return nil, err
	}
	entries, err := s.weighInRepo.History(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("weight history: %w", err)
	}
	return summarizeWeight(entries), nil
}

// summarizeWeight expects entries oldest first.
func summarizeWeight(entries []domain.WeighIn) *WeightHistory {
	h := &WeightHistory{Entries: entries}
	if len(entries) == 0 {
		h.Entries = []domain.WeighIn{}
		return h
	}
	start := entries[0].WeightKg
	latest := entries[len(entries)-1].WeightKg
	change := latest - start
	h.StartingKg, h.LatestKg, h.ChangeKg = &start, &latest, &change
	return h
}

// === Body measurements ===

func (s *trackingService) RecordMeasurement(ctx context.Context, m *domain.BodyMeasurement) (*domain.BodyMeasurement, error) {
	if m.Date.IsZero() {
		m.Date = s.today()
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if _, err := loadClient(ctx, s.clientRepo, m.ClientID); err != nil {
		return nil, err
	}
	m.CreatedAt = s.clock.Now().UTC()
	if _, err := s.measurementRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("record measurement: %w", err)
	}
	s.events.recordInfo(ctx, domain.EventMeasurementsRecorded, m.ClientID, "body measurements recorded",
		map[string]any{"waistCm": m.WaistCm})
	return m, nil
}

func (s *trackingService) Measurements(ctx context.Context, clientID string) ([]domain.BodyMeasurement, error) {
	if _, err := loadClient(ctx, s.clientRepo, clientID); err != nil {
		return nil, err
	}
	out, err := s.measurementRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	return out, nil
}

// === Exercise results ===

func (s *trackingService) RecordExerciseResult(ctx context.Context, set *domain.ExerciseResultSet) (*domain.ExerciseResultSet, error) {
	if set.PerformedDate.IsZero() {
		set.PerformedDate = s.today()
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	if _, err := loadClient(ctx, s.clientRepo, set.ClientID); err != nil {
		return nil, err
	}
	workout, err := s.workoutRepo.GetWorkout(ctx, set.WorkoutID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && workout.ClientID != set.ClientID) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get workout %s: %w", set.WorkoutID, err)
	}

	set.CreatedAt = s.clock.Now().UTC()
	if _, err := s.resultRepo.Create(ctx, set); err != nil {
		return nil, fmt.Errorf("record exercise result: %w", err)
	}
	s.events.recordInfo(ctx, domain.EventExerciseResultLogged, set.ClientID,
		fmt.Sprintf("%s set %d recorded", set.ExerciseName, set.SetNumber),
		map[string]any{"workoutId": set.WorkoutID, "reps": set.Reps})
	return set, nil
}

func (s *trackingService) ExerciseResults(ctx context.Context, clientID, workoutID string) ([]domain.ExerciseResultSet, error) {
	if _, err := loadClient(ctx, s.clientRepo, clientID); err != nil {
		return nil, err
	}
	if workoutID == "" {
		out, err := s.resultRepo.ListByClient(ctx, clientID)
		if err != nil {
			return nil, fmt.Errorf("list exercise results: %w", err)
		}
		return out, nil
	}

	all, err := s.resultRepo.ListByWorkout(ctx, workoutID)
	if err != nil {
		return nil, fmt.Errorf("list exercise results: %w", err)
	}
	out := all[:0]
	for _, r := range all {
		if r.ClientID == clientID {
			out = append(out, r)
		}
	}
	return out, nil
}

// === Running ===

func (s *trackingService) RecordRun(ctx context.Context, r *domain.RunningSession) (*RunSummary, error) {
	if r.RunDate.IsZero() {
		r.RunDate = s.today()
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if _, err := loadClient(ctx, s.clientRepo, r.ClientID); err != nil {
		return nil, err
	}
	r.CreatedAt = s.clock.Now().UTC()
	if _, err := s.runRepo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	s.events.recordInfo(ctx, domain.EventRunRecorded, r.ClientID, "running session recorded",
		map[string]any{"distanceKm": r.DistanceKm, "durationSec": r.DurationSec})
	return &RunSummary{RunningSession: *r, PaceSecPerKm: r.PaceSecPerKm()}, nil
}

func (s *trackingService) Runs(ctx context.Context, clientID string) ([]RunSummary, error) {
	if _, err := loadClient(ctx, s.clientRepo, clientID); err != nil {
		return nil, err
	}
	runs, err := s.runRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	out := make([]RunSummary, len(runs))
	for i, r := range runs {
		out[i] = RunSummary{RunningSession: r, PaceSecPerKm: r.PaceSecPerKm()}
	}
	return out, nil
}
