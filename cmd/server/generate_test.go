package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/planner"
	"alcyxob/trainer-ai/internal/service"
)

func TestPrintWorkoutPlan(t *testing.T) {
	plan := planner.ExampleWorkoutPlan(3)
	gen := &service.WorkoutGeneration{
		Profile: domain.ClientProfile{Name: "Jane Doe"},
		Week:    2,
		Result: &planner.Result[domain.WorkoutPlan]{
			Model:    "mistral-7b",
			Plan:     &plan,
			Warnings: []string{"requested 4 training days, plan has 3"},
		},
	}

	var buf bytes.Buffer
	printWorkoutPlan(&buf, gen)
	out := buf.String()
	assert.Contains(t, out, "Week 2 workout plan for Jane Doe (mistral-7b)")
	assert.Contains(t, out, "Warning: requested 4 training days, plan has 3")
	assert.Contains(t, out, "Exercise Name")
	assert.Contains(t, out, "recovery recommendation here")
}

func TestPrintMealPlan(t *testing.T) {
	plan := planner.ExampleMealPlan(2000, 140)
	gen := &service.MealPlanGeneration{
		Profile: domain.ClientProfile{Name: "Jane Doe"},
		Week:    1,
		Result:  &planner.Result[domain.MealPlan]{Model: "mistral-7b", Plan: &plan},
	}

	var buf bytes.Buffer
	printMealPlan(&buf, gen)
	out := buf.String()
	assert.Contains(t, out, "Weekly totals: 2000 kcal, 140 g protein")
	assert.Contains(t, out, "breakfast")
	assert.Contains(t, out, "food 1, food 2")
}

func TestReportFailure(t *testing.T) {
	malformed := fmt.Errorf("%w: no JSON object found", planner.ErrMalformedPlan)
	gen := &service.WorkoutGeneration{
		Result:        &planner.Result[domain.WorkoutPlan]{Raw: "Sorry, no plan today."},
		TranscriptURL: "https://s3.example/t.json",
	}

	var buf bytes.Buffer
	err := reportFailure(&buf, malformed, gen)
	require.ErrorIs(t, err, planner.ErrMalformedPlan)
	assert.Contains(t, buf.String(), "Sorry, no plan today.")
	assert.Contains(t, buf.String(), "Transcript: https://s3.example/t.json")

	buf.Reset()
	other := errors.New("boom")
	assert.Equal(t, other, reportFailure(&buf, other, gen))
	assert.Empty(t, buf.String())
}
