package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"

	"alcyxob/trainer-ai/internal/domain"
)

// CompletionRequest is one call to a hosted completion model.
type CompletionRequest struct {
	Model  string
	Prompt string
	// Schema, when set, asks the backend for structured output matching it.
	Schema *jsonschema.Schema
}

// Completer sends a prompt to a completion model and returns the raw text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// Name identifies the backend in logs and metrics.
	Name() string
}

// Result carries everything a generation produced. On ErrMalformedPlan the
// result is still returned with Plan nil, so callers can show Raw.
type Result[P any] struct {
	Kind     string
	Prompt   string
	Model    string
	Backend  string
	Raw      string
	Plan     *P
	Warnings []string
	Duration time.Duration
}

// Generator runs prompt construction, completion and extraction for one plan.
type Generator struct {
	completer  Completer
	model      string
	structured bool
	log        *slog.Logger
}

// NewGenerator creates a generator for the given model. With structured set,
// the plan schema is sent along so backends that support it constrain output.
func NewGenerator(log *slog.Logger, completer Completer, model string, structured bool) *Generator {
	return &Generator{
		completer:  completer,
		model:      model,
		structured: structured,
		log:        log,
	}
}

// Model returns the model identifier used for every request.
func (g *Generator) Model() string {
	return g.model
}

// Workout generates and validates one week of training.
func (g *Generator) Workout(ctx context.Context, req domain.WorkoutPlanRequest) (*Result[domain.WorkoutPlan], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	res := &Result[domain.WorkoutPlan]{
		Kind:    "workout",
		Prompt:  BuildWorkoutPrompt(req),
		Model:   g.model,
		Backend: g.completer.Name(),
	}
	var (
		schema *jsonschema.Schema
		err    error
	)
	if g.structured {
		if schema, err = WorkoutSchema(); err != nil {
			return nil, fmt.Errorf("workout schema: %w", err)
		}
	}
	res.Raw, res.Duration, err = g.complete(ctx, res.Prompt, schema)
	if err != nil {
		return res, err
	}

	plan, err := ParseWorkoutPlan(res.Raw)
	if err != nil {
		g.log.Warn("workout plan rejected", "client_id", req.Profile.ID, "week", req.Week, "error", err)
		return res, err
	}
	res.Plan = plan
	if got := plan.TrainingDays(); got != req.Profile.DaysPerWeek {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("requested %d training days, plan has %d", req.Profile.DaysPerWeek, got))
	}
	return res, nil
}

// MealPlan generates and validates a seven day meal plan.
func (g *Generator) MealPlan(ctx context.Context, profile domain.ClientProfile) (*Result[domain.MealPlan], error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	res := &Result[domain.MealPlan]{
		Kind:    "meal_plan",
		Prompt:  BuildMealPlanPrompt(profile),
		Model:   g.model,
		Backend: g.completer.Name(),
	}
	var (
		schema *jsonschema.Schema
		err    error
	)
	if g.structured {
		if schema, err = MealPlanSchema(); err != nil {
			return nil, fmt.Errorf("meal plan schema: %w", err)
		}
	}
	res.Raw, res.Duration, err = g.complete(ctx, res.Prompt, schema)
	if err != nil {
		return res, err
	}

	plan, err := ParseMealPlan(res.Raw)
	if err != nil {
		g.log.Warn("meal plan rejected", "client_id", profile.ID, "error", err)
		return res, err
	}
	res.Plan = plan
	return res, nil
}

func (g *Generator) complete(ctx context.Context, prompt string, schema *jsonschema.Schema) (string, time.Duration, error) {
	start := time.Now()
	text, err := g.completer.Complete(ctx, CompletionRequest{Model: g.model, Prompt: prompt, Schema: schema})
	took := time.Since(start)
	if err != nil {
		g.log.Error("completion failed", "backend", g.completer.Name(), "model", g.model, "duration", took, "error", err)
		return "", took, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		g.log.Error("completion returned empty text", "backend", g.completer.Name(), "model", g.model)
		return "", took, fmt.Errorf("%w: empty completion", ErrGenerationFailed)
	}
	g.log.Debug("completion received", "backend", g.completer.Name(), "model", g.model,
		"duration", took, "chars", len(text))
	return text, took, nil
}
