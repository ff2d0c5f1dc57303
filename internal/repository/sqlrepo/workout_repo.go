package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/repository"
	"alcyxob/trainer-ai/internal/warehouse"
)

const workoutColumns = `workout_id, workout_plan_id, client_id, workout_week, workout_day, workout_focus,
	duration_min, warm_up, exercises, cool_down, prompt, model, generation_date`

type workoutRepository struct {
	db            *warehouse.DB
	insertPlan    string
	insertWorkout string
}

// NewWorkoutRepository creates a repository.WorkoutRepository on db.
func NewWorkoutRepository(db *warehouse.DB) repository.WorkoutRepository {
	planCols := warehouse.Cols("workout_plan_id", "client_id", "week", "training_days")
	planCols = append(planCols, warehouse.JSONCol("plan_json"))
	planCols = append(planCols, warehouse.Cols("prompt", "model", "generation_date")...)

	workoutCols := warehouse.Cols("workout_id", "workout_plan_id", "client_id", "workout_week", "workout_day",
		"workout_focus", "duration_min", "warm_up")
	workoutCols = append(workoutCols, warehouse.JSONCol("exercises"))
	workoutCols = append(workoutCols, warehouse.Cols("cool_down", "prompt", "model", "generation_date")...)

	return &workoutRepository{
		db:            db,
		insertPlan:    db.Dialect().InsertSQL(warehouse.TableWorkoutPlans, planCols),
		insertWorkout: db.Dialect().InsertSQL(warehouse.TableGeneratedWorkouts, workoutCols),
	}
}

func (r *workoutRepository) CreatePlan(ctx context.Context, plan *domain.WorkoutPlanRecord) (string, error) {
	planJSON, err := toJSON(plan.Plan)
	if err != nil {
		return "", err
	}
	exercises := make([]string, len(plan.Workouts))
	for i, w := range plan.Workouts {
		if exercises[i], err = toJSON(w.Exercises); err != nil {
			return "", err
		}
	}

	planID := newID()
	workoutIDs := make([]string, len(plan.Workouts))
	err = r.db.InTx(ctx, func(tx *warehouse.Tx) error {
		if _, err := tx.ExecContext(ctx, r.insertPlan,
			planID, plan.ClientID, plan.Week, plan.TrainingDays, planJSON,
			plan.Prompt, plan.Model, plan.GenerationDate,
		); err != nil {
			return fmt.Errorf("insert workout plan: %w", err)
		}
		for i, w := range plan.Workouts {
			workoutIDs[i] = newID()
			if _, err := tx.ExecContext(ctx, r.insertWorkout,
				workoutIDs[i], planID, plan.ClientID, w.Week, w.Day, nullString(w.Focus),
				w.DurationMin, nullString(w.WarmUp), exercises[i], nullString(w.CoolDown),
				w.Prompt, w.Model, w.GenerationDate,
			); err != nil {
				return fmt.Errorf("insert workout day %d: %w", w.Day, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	plan.ID = planID
	for i := range plan.Workouts {
		plan.Workouts[i].WorkoutID = workoutIDs[i]
		plan.Workouts[i].PlanID = planID
	}
	return planID, nil
}

func (r *workoutRepository) ListByClient(ctx context.Context, clientID string) ([]domain.WorkoutPlanRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT workout_plan_id, client_id, week, training_days, plan_json,
		prompt, model, generation_date
		FROM workout_plans WHERE client_id = ? ORDER BY generation_date DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list workout plans: %w", err)
	}
	defer rows.Close()

	var (
		plans []domain.WorkoutPlanRecord
		index = map[string]int{}
	)
	for rows.Next() {
		var (
			p        domain.WorkoutPlanRecord
			planJSON string
		)
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Week, &p.TrainingDays, &planJSON,
			&p.Prompt, &p.Model, &p.GenerationDate); err != nil {
			return nil, fmt.Errorf("scan workout plan: %w", err)
		}
		if err := fromJSON(planJSON, &p.Plan); err != nil {
			return nil, err
		}
		index[p.ID] = len(plans)
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, nil
	}

	workouts, err := r.queryWorkouts(ctx,
		"SELECT "+workoutColumns+" FROM generated_workouts WHERE client_id = ? ORDER BY workout_day", clientID)
	if err != nil {
		return nil, err
	}
	for _, w := range workouts {
		if i, ok := index[w.PlanID]; ok {
			plans[i].Workouts = append(plans[i].Workouts, w)
		}
	}
	return plans, nil
}

func (r *workoutRepository) GetWorkout(ctx context.Context, workoutID string) (*domain.GeneratedWorkout, error) {
	workouts, err := r.queryWorkouts(ctx,
		"SELECT "+workoutColumns+" FROM generated_workouts WHERE workout_id = ?", workoutID)
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return nil, repository.ErrNotFound
	}
	return &workouts[0], nil
}

func (r *workoutRepository) queryWorkouts(ctx context.Context, query string, args ...any) ([]domain.GeneratedWorkout, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}
	defer rows.Close()

	var workouts []domain.GeneratedWorkout
	for rows.Next() {
		var (
			w                      domain.GeneratedWorkout
			focus, warmUp, coolDwn sql.NullString
			exercises              string
		)
		if err := rows.Scan(&w.WorkoutID, &w.PlanID, &w.ClientID, &w.Week, &w.Day, &focus,
			&w.DurationMin, &warmUp, &exercises, &coolDwn, &w.Prompt, &w.Model, &w.GenerationDate); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		w.Focus, w.WarmUp, w.CoolDown = focus.String, warmUp.String, coolDwn.String
		if err := fromJSON(exercises, &w.Exercises); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// PriorWeeks uses the latest plan generated for each week, since
// regeneration appends a new plan instead of replacing the old one.
func (r *workoutRepository) PriorWeeks(ctx context.Context, clientID string, beforeWeek, limit int) ([]domain.PriorWeek, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT w.workout_plan_id, w.workout_week, w.workout_focus, w.duration_min
		FROM generated_workouts w
		JOIN workout_plans p ON p.workout_plan_id = w.workout_plan_id
		WHERE w.client_id = ? AND w.workout_week < ?
		ORDER BY w.workout_week, p.generation_date, p.workout_plan_id, w.workout_day`, clientID, beforeWeek)
	if err != nil {
		return nil, fmt.Errorf("query prior weeks: %w", err)
	}
	defer rows.Close()

	var (
		weeks    []domain.PriorWeek
		lastPlan string
	)
	for rows.Next() {
		var (
			planID   string
			week     int
			focus    sql.NullString
			duration int
		)
		if err := rows.Scan(&planID, &week, &focus, &duration); err != nil {
			return nil, fmt.Errorf("scan prior week: %w", err)
		}
		n := len(weeks)
		switch {
		case n == 0 || weeks[n-1].Week != week:
			weeks = append(weeks, domain.PriorWeek{Week: week})
		case planID != lastPlan:
			// A newer plan for the same week supersedes the rows read so far.
			weeks[n-1] = domain.PriorWeek{Week: week}
		}
		cur := &weeks[len(weeks)-1]
		if focus.Valid && focus.String != "" {
			cur.Focuses = append(cur.Focuses, focus.String)
		}
		cur.DurationMin = duration
		lastPlan = planID
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if limit > 0 && len(weeks) > limit {
		weeks = weeks[len(weeks)-limit:]
	}
	return weeks, nil
}
