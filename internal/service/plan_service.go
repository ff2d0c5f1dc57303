package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/metrics"
	"alcyxob/trainer-ai/internal/planner"
	"alcyxob/trainer-ai/internal/repository"
	"alcyxob/trainer-ai/internal/storage"
)

// Number of earlier weeks summarized in a workout prompt.
const priorWeeksInPrompt = 4

// Generation is the outcome of one plan generation attempt. On
// planner.ErrMalformedPlan it is returned together with the error so callers
// can show the raw text and, when archived, a link to the transcript.
type Generation[P any] struct {
	Profile       domain.ClientProfile `json:"-"`
	Week          int                  `json:"week"`
	Result        *planner.Result[P]   `json:"-"`
	TranscriptKey string               `json:"transcriptKey,omitempty"`
	TranscriptURL string               `json:"transcriptUrl,omitempty"`
}

type (
	WorkoutGeneration  = Generation[domain.WorkoutPlan]
	MealPlanGeneration = Generation[domain.MealPlan]
)

// PlanService generates workout and meal plans and stores them.
type PlanService interface {
	GenerateWorkout(ctx context.Context, clientID string, week int) (*WorkoutGeneration, error)
	SaveWorkout(ctx context.Context, gen *WorkoutGeneration) (*domain.WorkoutPlanRecord, error)
	GenerateAndSaveWorkout(ctx context.Context, clientID string, week int) (*WorkoutGeneration, *domain.WorkoutPlanRecord, error)
	ListWorkoutPlans(ctx context.Context, clientID string) ([]domain.WorkoutPlanRecord, error)

	GenerateMealPlan(ctx context.Context, clientID string, week int) (*MealPlanGeneration, error)
	SaveMealPlan(ctx context.Context, gen *MealPlanGeneration) (*domain.MealPlanRecord, error)
	GenerateAndSaveMealPlan(ctx context.Context, clientID string, week int) (*MealPlanGeneration, *domain.MealPlanRecord, error)
	ListMealPlans(ctx context.Context, clientID string) ([]domain.MealPlanRecord, error)
}

type planService struct {
	clientRepo   repository.ClientRepository
	workoutRepo  repository.WorkoutRepository
	mealPlanRepo repository.MealPlanRepository
	generator    *planner.Generator
	archive      storage.TranscriptArchive
	presignTTL   time.Duration
	events       *eventLog
	clock        clockwork.Clock
	log          *slog.Logger
}

// PlanServiceDeps groups the collaborators of the plan service.
type PlanServiceDeps struct {
	Clients    repository.ClientRepository
	Workouts   repository.WorkoutRepository
	MealPlans  repository.MealPlanRepository
	Events     repository.EventRepository
	Generator  *planner.Generator
	Archive    storage.TranscriptArchive
	PresignTTL time.Duration
	Clock      clockwork.Clock
	Log        *slog.Logger
}

// NewPlanService creates a new instance of planService.
func NewPlanService(d PlanServiceDeps) PlanService {
	archive := d.Archive
	if archive == nil {
		archive = storage.NewNoopArchive()
	}
	return &planService{
		clientRepo:   d.Clients,
		workoutRepo:  d.Workouts,
		mealPlanRepo: d.MealPlans,
		generator:    d.Generator,
		archive:      archive,
		presignTTL:   d.PresignTTL,
		events:       newEventLog(d.Events, d.Clock, d.Log),
		clock:        d.Clock,
		log:          d.Log,
	}
}

// === Workouts ===

func (s *planService) GenerateWorkout(ctx context.Context, clientID string, week int) (*WorkoutGeneration, error) {
	profile, err := loadClient(ctx, s.clientRepo, clientID)
	if err != nil {
		return nil, err
	}
	prior, err := s.workoutRepo.PriorWeeks(ctx, clientID, week, priorWeeksInPrompt)
	if err != nil {
		return nil, fmt.Errorf("load prior weeks: %w", err)
	}

	res, genErr := s.generator.Workout(ctx, domain.WorkoutPlanRequest{Profile: *profile, Week: week, PriorWeeks: prior})
	gen := &WorkoutGeneration{Profile: *profile, Week: week, Result: res}
	if res == nil {
		metrics.Generations.WithLabelValues("workout", metrics.OutcomeInvalidRequest).Inc()
		return nil, genErr
	}
	gen.TranscriptKey, gen.TranscriptURL = finishAttempt(ctx, s, clientID, week, res, genErr)
	if genErr != nil {
		return gen, genErr
	}
	s.events.recordInfo(ctx, domain.EventWorkoutGenerated, clientID, fmt.Sprintf("week %d workout plan generated", week),
		map[string]any{"week": week, "trainingDays": res.Plan.TrainingDays(), "model": res.Model})
	return gen, nil
}

func (s *planService) SaveWorkout(ctx context.Context, gen *WorkoutGeneration) (*domain.WorkoutPlanRecord, error) {
	if gen == nil || gen.Result == nil || gen.Result.Plan == nil {
		return nil, fmt.Errorf("%w: no validated workout plan to save", domain.ErrValidation)
	}
	rec := planner.WorkoutRecord(gen.Profile, gen.Week, gen.Result, s.clock.Now().UTC())
	if _, err := s.workoutRepo.CreatePlan(ctx, &rec); err != nil {
		return nil, fmt.Errorf("save workout plan: %w", err)
	}
	metrics.PlansSaved.WithLabelValues("workout").Inc()
	s.log.Info("workout plan saved", "client_id", rec.ClientID, "plan_id", rec.ID, "week", rec.Week,
		"workouts", len(rec.Workouts))
	return &rec, nil
}

func (s *planService) GenerateAndSaveWorkout(ctx context.Context, clientID string, week int) (*WorkoutGeneration, *domain.WorkoutPlanRecord, error) {
	gen, err := s.GenerateWorkout(ctx, clientID, week)
	if err != nil {
		return gen, nil, err
	}
	rec, err := s.SaveWorkout(ctx, gen)
	return gen, rec, err
}

func (s *planService) ListWorkoutPlans(ctx context.Context, clientID string) ([]domain.WorkoutPlanRecord, error) {
	if _, err := loadClient(ctx, s.clientRepo, clientID); err != nil {
		return nil, err
	}
	plans, err := s.workoutRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list workout plans: %w", err)
	}
	return plans, nil
}

// === Meal plans ===

func (s *planService) GenerateMealPlan(ctx context.Context, clientID string, week int) (*MealPlanGeneration, error) {
	if week < 1 || week > 52 {
		return nil, fmt.Errorf("%w: week %d outside 1-52", domain.ErrValidation, week)
	}
	profile, err := loadClient(ctx, s.clientRepo, clientID)
	if err != nil {
		return nil, err
	}

	res, genErr := s.generator.MealPlan(ctx, *profile)
	gen := &MealPlanGeneration{Profile: *profile, Week: week, Result: res}
	if res == nil {
		metrics.Generations.WithLabelValues("meal_plan", metrics.OutcomeInvalidRequest).Inc()
		return nil, genErr
	}
	gen.TranscriptKey, gen.TranscriptURL = finishAttempt(ctx, s, clientID, week, res, genErr)
	if genErr != nil {
		return gen, genErr
	}
	s.events.recordInfo(ctx, domain.EventMealPlanGenerated, clientID, fmt.Sprintf("week %d meal plan generated", week),
		map[string]any{"week": week, "model": res.Model})
	return gen, nil
}

func (s *planService) SaveMealPlan(ctx context.Context, gen *MealPlanGeneration) (*domain.MealPlanRecord, error) {
	if gen == nil || gen.Result == nil || gen.Result.Plan == nil {
		return nil, fmt.Errorf("%w: no validated meal plan to save", domain.ErrValidation)
	}
	rec := planner.MealPlanRecord(gen.Profile.ID, gen.Week, gen.Result, s.clock.Now().UTC())
	if _, err := s.mealPlanRepo.Create(ctx, &rec); err != nil {
		return nil, fmt.Errorf("save meal plan: %w", err)
	}
	metrics.PlansSaved.WithLabelValues("meal_plan").Inc()
	s.log.Info("meal plan saved", "client_id", rec.ClientID, "plan_id", rec.ID, "week", rec.Week)
	return &rec, nil
}

func (s *planService) GenerateAndSaveMealPlan(ctx context.Context, clientID string, week int) (*MealPlanGeneration, *domain.MealPlanRecord, error) {
	gen, err := s.GenerateMealPlan(ctx, clientID, week)
	if err != nil {
		return gen, nil, err
	}
	rec, err := s.SaveMealPlan(ctx, gen)
	return gen, rec, err
}

func (s *planService) ListMealPlans(ctx context.Context, clientID string) ([]domain.MealPlanRecord, error) {
	if _, err := loadClient(ctx, s.clientRepo, clientID); err != nil {
		return nil, err
	}
	plans, err := s.mealPlanRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list meal plans: %w", err)
	}
	return plans, nil
}

// finishAttempt records metrics, the transcript and, on failure, an error
// event for a completed generation attempt. It returns the transcript key
// and, for malformed plans, a presigned link to it.
func finishAttempt[P any](ctx context.Context, s *planService, clientID string, week int, res *planner.Result[P], genErr error) (string, string) {
	outcome := outcomeOf(genErr)
	metrics.Generations.WithLabelValues(res.Kind, outcome).Inc()
	metrics.CompletionDuration.WithLabelValues(res.Backend).Observe(res.Duration.Seconds())
	if len(res.Warnings) > 0 {
		metrics.GenerationWarnings.WithLabelValues(res.Kind).Add(float64(len(res.Warnings)))
		s.log.Warn("plan accepted with warnings", "kind", res.Kind, "client_id", clientID, "warnings", res.Warnings)
	}

	t := storage.Transcript{
		Kind:      res.Kind,
		ClientID:  clientID,
		Week:      week,
		Model:     res.Model,
		Backend:   res.Backend,
		Prompt:    res.Prompt,
		Raw:       res.Raw,
		Outcome:   outcome,
		Warnings:  res.Warnings,
		CreatedAt: s.clock.Now().UTC(),
	}
	if genErr != nil {
		t.Error = genErr.Error()
	}
	key, err := s.archive.Put(ctx, t)
	if err != nil {
		metrics.ArchiveErrs.Inc()
		s.log.Warn("failed to archive transcript", "kind", res.Kind, "client_id", clientID, "error", err)
		key = ""
	}

	var url string
	if genErr != nil {
		s.events.recordError(ctx, domain.EventGenerationFailed, clientID, genErr.Error(),
			map[string]any{"kind": res.Kind, "week": week, "model": res.Model, "outcome": outcome})
		if key != "" && outcome == metrics.OutcomeMalformedPlan {
			if url, err = s.archive.PresignDownload(ctx, key, s.presignTTL); err != nil {
				s.log.Warn("failed to presign transcript", "key", key, "error", err)
				url = ""
			}
		}
	}
	s.log.Info("generation finished", "kind", res.Kind, "client_id", clientID, "week", week,
		"model", res.Model, "outcome", outcome, "duration", res.Duration)
	return key, url
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, planner.ErrMalformedPlan):
		return metrics.OutcomeMalformedPlan
	default:
		return metrics.OutcomeGenerationFailed
	}
}
