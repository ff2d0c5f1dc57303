package sqlrepo_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/planner"
	"alcyxob/trainer-ai/internal/repository"
	"alcyxob/trainer-ai/internal/repository/sqlrepo"
	"alcyxob/trainer-ai/internal/warehouse/warehousetest"
)

var day1 = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func newClient(name string) *domain.ClientProfile {
	return &domain.ClientProfile{
		Name:               name,
		Age:                41,
		Gender:             domain.GenderMale,
		CurrentWeightKg:    92.4,
		HeightCm:           181,
		FitnessLevel:       domain.LevelBeginner,
		FitnessGoals:       []string{"Weight Loss", "Endurance"},
		AvailableEquipment: []string{"Bodyweight Only"},
		DaysPerWeek:        3,
		WorkoutDurationMin: 30,
		DietaryPreferences: []string{"None"},
		TargetCalories:     intPtr(2400),
		CreatedAt:          day1,
	}
}

func TestClientRepository(t *testing.T) {
	t.Parallel()

	db := warehousetest.Open(t)
	repo := sqlrepo.NewClientRepository(db)
	ctx := t.Context()

	bob := newClient("Bob")
	id, err := repo.Create(ctx, bob)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, id, bob.ID)

	_, err = repo.Create(ctx, newClient("Alice"))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	if diff := cmp.Diff(bob, got); diff != "" {
		t.Errorf("GetByID mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, got.TargetProteinG)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alice", all[0].Name)
	assert.Equal(t, "Bob", all[1].Name)
}

func TestClientRepository_ProfileTextIsNotSQL(t *testing.T) {
	t.Parallel()

	db := warehousetest.Open(t)
	repo := sqlrepo.NewClientRepository(db)

	p := newClient("O'Brien'); DROP TABLE clients; --")
	p.Allergies = "it's \"complicated\""
	id, err := repo.Create(t.Context(), p)
	require.NoError(t, err)

	got, err := repo.GetByID(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Allergies, got.Allergies)
}

func workoutRecord(t *testing.T, clientID string, week int, focus string, at time.Time) *domain.WorkoutPlanRecord {
	t.Helper()
	plan := planner.ExampleWorkoutPlan(3)
	for i := range plan.Days {
		if !plan.Days[i].Rest {
			plan.Days[i].Focus = focus
		}
	}
	res := &planner.Result[domain.WorkoutPlan]{Prompt: "prompt", Model: "mistral-7b", Plan: &plan}
	p := newClient("x")
	p.ID = clientID
	rec := planner.WorkoutRecord(*p, week, res, at)
	return &rec
}

func TestWorkoutRepository_CreateAndList(t *testing.T) {
	t.Parallel()

	db := warehousetest.Open(t)
	repo := sqlrepo.NewWorkoutRepository(db)
	ctx := t.Context()

	first := workoutRecord(t, "c-1", 1, "Full Body", day1)
	id, err := repo.CreatePlan(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, id, first.ID)
	require.Len(t, first.Workouts, 3)
	for _, w := range first.Workouts {
		assert.NotEmpty(t, w.WorkoutID)
		assert.Equal(t, id, w.PlanID)
	}

	second := workoutRecord(t, "c-1", 1, "Upper Body", day1.Add(time.Hour))
	_, err = repo.CreatePlan(ctx, second)
	require.NoError(t, err)

	plans, err := repo.ListByClient(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, plans, 2, "regeneration appends")
	assert.Equal(t, second.ID, plans[0].ID)
	assert.Equal(t, first.ID, plans[1].ID)
	if diff := cmp.Diff(first.Plan, plans[1].Plan); diff != "" {
		t.Errorf("plan JSON mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, plans[1].Workouts, 3)
	assert.Equal(t, []int{1, 3, 5}, []int{plans[1].Workouts[0].Day, plans[1].Workouts[1].Day, plans[1].Workouts[2].Day})

	w, err := repo.GetWorkout(ctx, first.Workouts[0].WorkoutID)
	require.NoError(t, err)
	assert.Equal(t, "Full Body", w.Focus)
	assert.Equal(t, first.Workouts[0].Exercises, w.Exercises)

	_, err = repo.GetWorkout(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	none, err := repo.ListByClient(ctx, "c-2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWorkoutRepository_PriorWeeks(t *testing.T) {
	t.Parallel()

	db := warehousetest.Open(t)
	repo := sqlrepo.NewWorkoutRepository(db)
	ctx := t.Context()

	for _, rec := range []*domain.WorkoutPlanRecord{
		workoutRecord(t, "c-1", 1, "Full Body", day1),
		workoutRecord(t, "c-1", 1, "Legs", day1.Add(time.Hour)),
		workoutRecord(t, "c-1", 2, "Push", day1.Add(24*time.Hour)),
		workoutRecord(t, "c-1", 3, "Pull", day1.Add(48*time.Hour)),
		workoutRecord(t, "c-2", 1, "Other", day1),
	} {
		_, err := repo.CreatePlan(ctx, rec)
		require.NoError(t, err)
	}

	weeks, err := repo.PriorWeeks(ctx, "c-1", 3, 0)
	require.NoError(t, err)
	want := []domain.PriorWeek{
		{Week: 1, Focuses: []string{"Legs", "Legs", "Legs"}, DurationMin: 30},
		{Week: 2, Focuses: []string{"Push", "Push", "Push"}, DurationMin: 30},
	}
	if diff := cmp.Diff(want, weeks); diff != "" {
		t.Errorf("PriorWeeks mismatch (-want +got):\n%s", diff)
	}

	weeks, err = repo.PriorWeeks(ctx, "c-1", 10, 1)
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.Equal(t, 3, weeks[0].Week)
}

func TestWorkoutRepository_PriorWeeksSameGenerationDate(t *testing.T) {
	t.Parallel()

	db := warehousetest.Open(t)
	repo := sqlrepo.NewWorkoutRepository(db)
	ctx := t.Context()

	for _, rec := range []*domain.WorkoutPlanRecord{
		workoutRecord(t, "c-1", 1, "Full Body", day1),
		workoutRecord(t, "c-1", 1, "Legs", day1),
	} {
		_, err := repo.CreatePlan(ctx, rec)
		require.NoError(t, err)
	}

	weeks, err := repo.PriorWeeks(ctx, "c-1", 2, 0)
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	focuses := weeks[0].Focuses
	require.Len(t, focuses, 3, "one plan's workouts only")
	for _, f := range focuses {
		assert.Equal(t, focuses[0], f)
	}
}

func TestMealPlanRepository(t *testing.T) {
	t.Parallel()

	db := warehousetest.Open(t)
	repo := sqlrepo.NewMealPlanRepository(db)
	ctx := t.Context()

	plan := planner.ExampleMealPlan(2200, 140)
	res := &planner.Result[domain.MealPlan]{Prompt: "meal prompt", Model: "mistral-7b", Plan: &plan}
	older := planner.MealPlanRecord("c-1", 1, res, day1)
	newer := planner.MealPlanRecord("c-1", 2, res, day1.Add(time.Hour))
	_, err := repo.Create(ctx, &older)
	require.NoError(t, err)
	_, err = repo.Create(ctx, &newer)
	require.NoError(t, err)

	got, err := repo.ListByClient(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, 7, got[0].DurationDays)
	assert.Equal(t, "meal prompt", got[0].Prompt)
	if diff := cmp.Diff(plan, got[1].Plan); diff != "" {
		t.Errorf("meal plan mismatch (-want +got):\n%s", diff)
	}
}

func TestWeighInRepository_HistoryOldestFirst(t *testing.T) {
	t.Parallel()

	db := warehousetest.Open(t)
	repo := sqlrepo.NewWeighInRepository(db)
	ctx := t.Context()

	later := &domain.WeighIn{ClientID: "c-1", Date: day1.AddDate(0, 0, 7), WeightKg: 90.1, CreatedAt: day1}
	earlier := &domain.WeighIn{ClientID: "c-1", Date: day1, WeightKg: 92.4, BodyFatPct: floatPtr(24.5), Notes: "morning", CreatedAt: day1}
	for _, w := range []*domain.WeighIn{later, earlier} {
		_, err := repo.Create(ctx, w)
		require.NoError(t, err)
	}

	got, err := repo.History(ctx, "c-1")
	require.NoError(t, err)
	if diff := cmp.Diff([]domain.WeighIn{*earlier, *later}, got); diff != "" {
		t.Errorf("History mismatch (-want +got):\n%s", diff)
	}
}

func TestMeasurementRepository(t *testing.T) {
	t.Parallel()

	db := warehousetest.Open(t)
	repo := sqlrepo.NewMeasurementRepository(db)

	m := &domain.BodyMeasurement{ClientID: "c-1", Date: day1, NeckCm: 38, ChestCm: 102, WaistCm: 88.5,
		HipCm: 99, ThighCm: 58, CalfCm: 38.5, CreatedAt: day1}
	_, err := repo.Create(t.Context(), m)
	require.NoError(t, err)

	got, err := repo.ListByClient(t.Context(), "c-1")
	require.NoError(t, err)
	if diff := cmp.Diff([]domain.BodyMeasurement{*m}, got); diff != "" {
		t.Errorf("ListByClient mismatch (-want +got):\n%s", diff)
	}
}

func TestExerciseResultRepository(t *testing.T) {
	t.Parallel()

	db := warehousetest.Open(t)
	repo := sqlrepo.NewExerciseResultRepository(db)
	ctx := t.Context()

	sets := []*domain.ExerciseResultSet{
		{ClientID: "c-1", WorkoutID: "w-1", ExerciseName: "Squat", PerformedDate: day1, SetNumber: 2, Reps: 8,
			WeightKg: floatPtr(60), RPE: floatPtr(8), CreatedAt: day1},
		{ClientID: "c-1", WorkoutID: "w-1", ExerciseName: "Squat", PerformedDate: day1, SetNumber: 1, Reps: 10,
			WeightKg: floatPtr(55), RestSec: intPtr(90), CreatedAt: day1},
		{ClientID: "c-1", WorkoutID: "w-2", ExerciseName: "Plank", PerformedDate: day1.AddDate(0, 0, 1), SetNumber: 1,
			DurationSec: intPtr(45), Notes: "held", CreatedAt: day1},
	}
	for _, s := range sets {
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)
	}

	byWorkout, err := repo.ListByWorkout(ctx, "w-1")
	require.NoError(t, err)
	if diff := cmp.Diff([]domain.ExerciseResultSet{*sets[1], *sets[0]}, byWorkout); diff != "" {
		t.Errorf("ListByWorkout mismatch (-want +got):\n%s", diff)
	}

	byClient, err := repo.ListByClient(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, byClient, 3)
	assert.Equal(t, "Plank", byClient[0].ExerciseName)
}

func TestRunningRepository(t *testing.T) {
	t.Parallel()

	db := warehousetest.Open(t)
	repo := sqlrepo.NewRunningRepository(db)

	run := &domain.RunningSession{ClientID: "c-1", RunDate: day1, DistanceKm: 5.2, DurationSec: 1680,
		AvgHR: intPtr(152), CreatedAt: day1}
	_, err := repo.Create(t.Context(), run)
	require.NoError(t, err)

	got, err := repo.ListByClient(t.Context(), "c-1")
	require.NoError(t, err)
	if diff := cmp.Diff([]domain.RunningSession{*run}, got); diff != "" {
		t.Errorf("ListByClient mismatch (-want +got):\n%s", diff)
	}
}

func TestEventRepository(t *testing.T) {
	t.Parallel()

	db := warehousetest.Open(t)
	repo := sqlrepo.NewEventRepository(db)
	ctx := t.Context()

	require.NoError(t, repo.Record(ctx, &domain.Event{
		Type: domain.EventWorkoutGenerated, Severity: domain.SeverityInfo, ClientID: "c-1",
		Message: "week 1", Context: map[string]any{"week": 1}, CreatedAt: day1,
	}))
	require.NoError(t, repo.Record(ctx, &domain.Event{
		Type: domain.EventGenerationFailed, Severity: domain.SeverityError, CreatedAt: day1,
	}))

	var (
		n       int
		context string
	)
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM app_logs").Scan(&n))
	assert.Equal(t, 2, n)
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT context FROM app_logs WHERE event_type = ?", "workout_generated").Scan(&context))
	assert.JSONEq(t, `{"week":1}`, context)
}
