package planner

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/trainer-ai/internal/domain"
)

func intPtr(v int) *int { return &v }

func testProfile() domain.ClientProfile {
	return domain.ClientProfile{
		ID:                 "c-1",
		Name:               "Jane Doe",
		Age:                34,
		Gender:             domain.GenderFemale,
		CurrentWeightKg:    68.5,
		HeightCm:           170,
		FitnessLevel:       domain.LevelIntermediate,
		FitnessGoals:       []string{"Muscle Gain", "Strength"},
		AvailableEquipment: []string{"Dumbbells", "Resistance Bands"},
		DaysPerWeek:        4,
		WorkoutDurationMin: 45,
		DietaryPreferences: []string{"Mediterranean"},
		Allergies:          "peanuts, shellfish",
		TargetCalories:     intPtr(2200),
		TargetProteinG:     intPtr(140),
	}
}

func exampleJSON(t *testing.T, prompt string) string {
	t.Helper()
	const marker = "(no extra text before or after):\n"
	i := strings.Index(prompt, marker)
	require.GreaterOrEqual(t, i, 0, "prompt has no output contract")
	return prompt[i+len(marker):]
}

func TestBuildWorkoutPrompt_ContainsEveryAttribute(t *testing.T) {
	p := testProfile()
	prompt := BuildWorkoutPrompt(domain.WorkoutPlanRequest{Profile: p, Week: 1})

	values := []string{
		"34", p.Gender, "68.5", "170", string(p.FitnessLevel), "45", p.Allergies, "2200", "140",
	}
	values = append(values, p.FitnessGoals...)
	values = append(values, p.AvailableEquipment...)
	values = append(values, p.DietaryPreferences...)
	for _, v := range values {
		assert.Contains(t, prompt, v)
	}
}

func TestBuildMealPlanPrompt_ContainsEveryAttribute(t *testing.T) {
	p := testProfile()
	prompt := BuildMealPlanPrompt(p)
	for _, v := range append(append([]string{p.Allergies, "2200", "140g", "68.5"}, p.DietaryPreferences...), p.FitnessGoals...) {
		assert.Contains(t, prompt, v)
	}
}

func TestBuildWorkoutPrompt_FourDaysNoHistory(t *testing.T) {
	prompt := BuildWorkoutPrompt(domain.WorkoutPlanRequest{Profile: testProfile(), Week: 1})
	assert.Contains(t, prompt, "4 training days")
	assert.Contains(t, prompt, "3 rest days")
	assert.Contains(t, prompt, "warm-up and cool-down")
	assert.Contains(t, prompt, "Vary the focus from prior weeks")
	assert.Contains(t, prompt, "None, this is the first generated week")
}

func TestBuildWorkoutPrompt_PriorWeeks(t *testing.T) {
	prompt := BuildWorkoutPrompt(domain.WorkoutPlanRequest{
		Profile: testProfile(),
		Week:    3,
		PriorWeeks: []domain.PriorWeek{
			{Week: 1, Focuses: []string{"Upper Body", "Lower Body"}, DurationMin: 45},
			{Week: 2, DurationMin: 50},
		},
	})
	assert.Contains(t, prompt, "week 3")
	assert.Contains(t, prompt, "- Week 1: Upper Body, Lower Body (45 minutes per session)")
	assert.Contains(t, prompt, "- Week 2: not recorded (50 minutes per session)")
}

func TestWorkoutExample_RoundTrip(t *testing.T) {
	for days := 1; days <= 7; days++ {
		p := testProfile()
		p.DaysPerWeek = days
		prompt := BuildWorkoutPrompt(domain.WorkoutPlanRequest{Profile: p, Week: 1})

		plan, err := ParseWorkoutPlan(exampleJSON(t, prompt))
		require.NoError(t, err, "days=%d", days)
		assert.Len(t, plan.Days, 7)
		assert.Equal(t, days, plan.TrainingDays(), "days=%d", days)
	}
}

func TestMealExample_RoundTrip(t *testing.T) {
	plan, err := ParseMealPlan(exampleJSON(t, BuildMealPlanPrompt(testProfile())))
	require.NoError(t, err)
	require.NotNil(t, plan.WeeklyTotals)
	assert.Equal(t, 2200.0, plan.WeeklyTotals.Calories)
	assert.Len(t, plan.Days, 7)
}

func TestExtractObjects(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "bare", in: `{"a":1}`, want: []string{`{"a":1}`}},
		{name: "prose around", in: "Sure! {\"a\":1}\nEnjoy.", want: []string{`{"a":1}`}},
		{name: "braces in strings", in: `{"a":"}{","b":{"c":"\"}"}}`, want: []string{`{"a":"}{","b":{"c":"\"}"}}`}},
		{name: "two fragments", in: `example {"x":1} answer {"y":2}`, want: []string{`{"x":1}`, `{"y":2}`}},
		{name: "stray opener", in: `use { carefully {"a":1}`, want: []string{`{"a":1}`}},
		{name: "unbalanced", in: `{"days": [`, want: nil},
		{name: "none", in: "no json here", want: nil},
		{name: "quotes in prose", in: `He said "look: {"a":1}`, want: []string{`{"a":1}`}},
		{name: "spans inside unclosed", in: `{"note": {"b":1} and later {"c":{"d":2}}`, want: []string{`{"b":1}`, `{"c":{"d":2}}`}},
		{name: "stray closer", in: `} {"a":1} }`, want: []string{`{"a":1}`}},
		{name: "many stray openers", in: strings.Repeat("{ ", 200000) + `{"a":1}`, want: []string{`{"a":1}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractObjects(tt.in))
		})
	}
}

func workoutJSON(t *testing.T, plan domain.WorkoutPlan) string {
	t.Helper()
	out, err := json.Marshal(plan)
	require.NoError(t, err)
	return string(out)
}

func TestParseWorkoutPlan_ProseMatchesBare(t *testing.T) {
	bare := workoutJSON(t, ExampleWorkoutPlan(4))
	wrapped := "Here is the plan you asked for:\n```json\n" + bare + "\n```\nLet me know if you need changes."

	a, err := ParseWorkoutPlan(bare)
	require.NoError(t, err)
	b, err := ParseWorkoutPlan(wrapped)
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("plans differ (-bare +wrapped):\n%s", diff)
	}
}

func TestParseWorkoutPlan_Idempotent(t *testing.T) {
	raw := "Plan: " + workoutJSON(t, ExampleWorkoutPlan(3))
	a, err := ParseWorkoutPlan(raw)
	require.NoError(t, err)
	b, err := ParseWorkoutPlan(raw)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(a, b))
}

func TestParseWorkoutPlan_Failures(t *testing.T) {
	six := ExampleWorkoutPlan(4)
	six.Days = six.Days[:6]
	zeroSets := ExampleWorkoutPlan(4)
	zeroSets.Days[0].Exercises[0].Sets = 0
	negRest := ExampleWorkoutPlan(4)
	negRest.Days[0].Exercises[1].RestSec = -5
	full := workoutJSON(t, ExampleWorkoutPlan(4))
	without := func(field string) string {
		t.Helper()
		require.Contains(t, full, field)
		return strings.Replace(full, field, "", 1)
	}

	tests := []struct {
		name       string
		raw        string
		validation bool
	}{
		{name: "unbalanced", raw: `{"days": [{"day": 1}`},
		{name: "no object", raw: "I cannot help with that."},
		{name: "missing days", raw: `{"weeks": []}`},
		{name: "null days", raw: `{"days": null}`},
		{name: "invalid json", raw: `{days: 1}`},
		{name: "wrong type", raw: `{"days": [{"day": 1, "rest": false, "exercises": [{"name": "x", "sets": "three"}]}]}`},
		{name: "six days", raw: workoutJSON(t, six), validation: true},
		{name: "zero sets", raw: workoutJSON(t, zeroSets), validation: true},
		{name: "negative rest", raw: workoutJSON(t, negRest), validation: true},
		{name: "exercise without sets", raw: without(`"sets":3,`)},
		{name: "exercise without reps", raw: without(`"reps":"8-10",`)},
		{name: "exercise without rest_sec", raw: without(`"rest_sec":60,`)},
		{name: "day without number", raw: without(`"day":2,`)},
		{name: "reps as object", raw: strings.Replace(full, `"reps":"8-10"`, `"reps":{"min":8}`, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ParseWorkoutPlan(tt.raw)
			require.Error(t, err)
			assert.Nil(t, plan)
			assert.ErrorIs(t, err, ErrMalformedPlan)
			assert.Equal(t, tt.validation, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestParseWorkoutPlan_SkipsInvalidFragment(t *testing.T) {
	raw := `For example {"days": []} but the real answer is ` + workoutJSON(t, ExampleWorkoutPlan(2))
	plan, err := ParseWorkoutPlan(raw)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.TrainingDays())
}

func TestParseWorkoutPlan_RepForms(t *testing.T) {
	plan := ExampleWorkoutPlan(7)
	raw := workoutJSON(t, plan)
	raw = strings.Replace(raw, `"reps":"8-10"`, `"reps":12`, 1)
	raw = strings.Replace(raw, `"reps":"8-10"`, `"reps":[6,8]`, 1)

	got, err := ParseWorkoutPlan(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.RepSpec("12"), got.Days[0].Exercises[0].Reps)
	assert.Equal(t, domain.RepSpec("6-8"), got.Days[0].Exercises[1].Reps)
}

func TestParseMealPlan(t *testing.T) {
	valid := mealPlanJSON(t, 2000, 150, 200, 70)
	plan, err := ParseMealPlan(valid)
	require.NoError(t, err)
	assert.Equal(t, 200.0, plan.WeeklyTotals.Carbs)

	withExtra := strings.Replace(valid, `"meal_type":"breakfast",`, `"meal_type":"breakfast","fiber":12,`, 1)
	_, err = ParseMealPlan(withExtra)
	require.NoError(t, err)
}

func TestParseMealPlan_Failures(t *testing.T) {
	valid := mealPlanJSON(t, 2000, 150, 200, 70)
	without := func(field string) string {
		t.Helper()
		require.Contains(t, valid, field)
		return strings.Replace(valid, field, "", 1)
	}
	emptyDay := ExampleMealPlan(2000, 150)
	emptyDay.Days[3].Meals = []domain.Meal{}
	repeated := ExampleMealPlan(2000, 150)
	repeated.Days[6].Day = 1
	outside := ExampleMealPlan(2000, 150)
	outside.Days[0].Day = 0
	marshal := func(p domain.MealPlan) string {
		t.Helper()
		out, err := json.Marshal(p)
		require.NoError(t, err)
		return string(out)
	}

	tests := []struct {
		name       string
		raw        string
		validation bool
	}{
		{name: "no weekly totals", raw: `{"days": []}`},
		{name: "null weekly totals", raw: strings.Replace(valid, `"weekly_totals":{"calories":2000,"protein":150,"carbs":200,"fat":70}`, `"weekly_totals":null`, 1)},
		{name: "totals without fat", raw: without(`,"fat":70`)},
		{name: "totals without calories", raw: without(`"calories":2000,`)},
		{name: "meal without calories", raw: without(`"calories":500,`)},
		{name: "meal without protein", raw: without(`,"protein":30`)},
		{name: "meals null", raw: strings.Replace(valid, `"day":4,"meals":[`, `"day":4,"meals":null,"x":[`, 1)},
		{name: "negative carbs", raw: mealPlanJSON(t, 2000, 150, -10, 70), validation: true},
		{name: "day with no meals", raw: marshal(emptyDay), validation: true},
		{name: "repeated day", raw: marshal(repeated), validation: true},
		{name: "day outside week", raw: marshal(outside), validation: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ParseMealPlan(tt.raw)
			require.Error(t, err)
			assert.Nil(t, plan)
			assert.ErrorIs(t, err, ErrMalformedPlan)
			assert.Equal(t, tt.validation, errors.Is(err, domain.ErrValidation))
		})
	}
}

// mealPlanJSON is a seven day meal plan payload with the given weekly totals.
func mealPlanJSON(t *testing.T, calories, protein, carbs, fat float64) string {
	t.Helper()
	plan := ExampleMealPlan(2000, 150)
	plan.WeeklyTotals = &domain.MacroTotals{Calories: calories, Protein: protein, Carbs: carbs, Fat: fat}
	out, err := json.Marshal(plan)
	require.NoError(t, err)
	return string(out)
}

type fakeCompleter struct {
	text string
	err  error
	got  []CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	f.got = append(f.got, req)
	return f.text, f.err
}

func (f *fakeCompleter) Name() string { return "fake" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerator_Workout(t *testing.T) {
	plan := ExampleWorkoutPlan(4)
	fc := &fakeCompleter{text: "Here you go: " + workoutJSON(t, plan)}
	g := NewGenerator(discardLogger(), fc, "mistral-7b", false)

	res, err := g.Workout(context.Background(), domain.WorkoutPlanRequest{Profile: testProfile(), Week: 1})
	require.NoError(t, err)
	require.NotNil(t, res.Plan)
	assert.Equal(t, 4, res.Plan.TrainingDays())
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "mistral-7b", res.Model)
	assert.Equal(t, "fake", res.Backend)
	require.Len(t, fc.got, 1)
	assert.Equal(t, "mistral-7b", fc.got[0].Model)
	assert.Equal(t, res.Prompt, fc.got[0].Prompt)
	assert.Nil(t, fc.got[0].Schema)
}

func TestGenerator_TrainingDayMismatchWarns(t *testing.T) {
	fc := &fakeCompleter{text: workoutJSON(t, ExampleWorkoutPlan(5))}
	g := NewGenerator(discardLogger(), fc, "m", false)

	res, err := g.Workout(context.Background(), domain.WorkoutPlanRequest{Profile: testProfile(), Week: 1})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "requested 4 training days, plan has 5")
}

func TestGenerator_Errors(t *testing.T) {
	ctx := context.Background()
	req := domain.WorkoutPlanRequest{Profile: testProfile(), Week: 1}

	g := NewGenerator(discardLogger(), &fakeCompleter{err: errors.New("warehouse down")}, "m", false)
	res, err := g.Workout(ctx, req)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	require.NotNil(t, res)
	assert.NotEmpty(t, res.Prompt)

	g = NewGenerator(discardLogger(), &fakeCompleter{text: "   "}, "m", false)
	_, err = g.Workout(ctx, req)
	assert.ErrorIs(t, err, ErrGenerationFailed)

	g = NewGenerator(discardLogger(), &fakeCompleter{text: "sorry, no plan"}, "m", false)
	res, err = g.Workout(ctx, req)
	assert.ErrorIs(t, err, ErrMalformedPlan)
	require.NotNil(t, res)
	assert.Equal(t, "sorry, no plan", res.Raw)
	assert.Nil(t, res.Plan)

	bad := req
	bad.Week = 0
	_, err = g.Workout(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGenerator_StructuredSendsSchema(t *testing.T) {
	out, err := json.Marshal(ExampleMealPlan(2000, 150))
	require.NoError(t, err)
	fc := &fakeCompleter{text: string(out)}
	g := NewGenerator(discardLogger(), fc, "m", true)

	res, err := g.MealPlan(context.Background(), testProfile())
	require.NoError(t, err)
	require.NotNil(t, res.Plan)
	require.Len(t, fc.got, 1)
	require.NotNil(t, fc.got[0].Schema)
	assert.Contains(t, fc.got[0].Schema.Properties, "weekly_totals")
	assert.Contains(t, fc.got[0].Schema.Properties, "days")
}
