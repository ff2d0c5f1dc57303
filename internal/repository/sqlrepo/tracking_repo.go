package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/repository"
	"alcyxob/trainer-ai/internal/warehouse"
)

type weighInRepository struct {
	db     *warehouse.DB
	insert string
}

// NewWeighInRepository creates a repository.WeighInRepository on db.
func NewWeighInRepository(db *warehouse.DB) repository.WeighInRepository {
	return &weighInRepository{
		db: db,
		insert: db.Dialect().InsertSQL(warehouse.TableWeighIns,
			warehouse.Cols("weigh_in_id", "client_id", "weigh_in_date", "weight_kg", "body_fat_pct", "notes", "created_at")),
	}
}

func (r *weighInRepository) Create(ctx context.Context, w *domain.WeighIn) (string, error) {
	id := newID()
	if _, err := r.db.ExecContext(ctx, r.insert,
		id, w.ClientID, w.Date, w.WeightKg, nullFloat(w.BodyFatPct), nullString(w.Notes), w.CreatedAt,
	); err != nil {
		return "", fmt.Errorf("insert weigh-in: %w", err)
	}
	w.ID = id
	return id, nil
}

func (r *weighInRepository) History(ctx context.Context, clientID string) ([]domain.WeighIn, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT weigh_in_id, client_id, weigh_in_date, weight_kg, body_fat_pct, notes, created_at
		FROM weigh_ins WHERE client_id = ? ORDER BY weigh_in_date, created_at`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list weigh-ins: %w", err)
	}
	defer rows.Close()

	var out []domain.WeighIn
	for rows.Next() {
		var (
			w       domain.WeighIn
			bodyFat sql.NullFloat64
			notes   sql.NullString
		)
		if err := rows.Scan(&w.ID, &w.ClientID, &w.Date, &w.WeightKg, &bodyFat, &notes, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan weigh-in: %w", err)
		}
		w.BodyFatPct = floatPtr(bodyFat)
		w.Notes = notes.String
		out = append(out, w)
	}
	return out, rows.Err()
}

type measurementRepository struct {
	db     *warehouse.DB
	insert string
}

// NewMeasurementRepository creates a repository.MeasurementRepository on db.
func NewMeasurementRepository(db *warehouse.DB) repository.MeasurementRepository {
	return &measurementRepository{
		db: db,
		insert: db.Dialect().InsertSQL(warehouse.TableBodyMeasurements,
			warehouse.Cols("measurement_id", "client_id", "measurement_date",
				"neck_cm", "chest_cm", "waist_cm", "hip_cm", "thigh_cm", "calf_cm", "created_at")),
	}
}

func (r *measurementRepository) Create(ctx context.Context, m *domain.BodyMeasurement) (string, error) {
	id := newID()
	if _, err := r.db.ExecContext(ctx, r.insert,
		id, m.ClientID, m.Date, m.NeckCm, m.ChestCm, m.WaistCm, m.HipCm, m.ThighCm, m.CalfCm, m.CreatedAt,
	); err != nil {
		return "", fmt.Errorf("insert measurement: %w", err)
	}
	m.ID = id
	return id, nil
}

func (r *measurementRepository) ListByClient(ctx context.Context, clientID string) ([]domain.BodyMeasurement, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT measurement_id, client_id, measurement_date,
		neck_cm, chest_cm, waist_cm, hip_cm, thigh_cm, calf_cm, created_at
		FROM body_measurements WHERE client_id = ? ORDER BY measurement_date DESC, created_at DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	defer rows.Close()

	var out []domain.BodyMeasurement
	for rows.Next() {
		var m domain.BodyMeasurement
		if err := rows.Scan(&m.ID, &m.ClientID, &m.Date,
			&m.NeckCm, &m.ChestCm, &m.WaistCm, &m.HipCm, &m.ThighCm, &m.CalfCm, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const exerciseResultColumns = `result_id, client_id, workout_id, exercise_name, performed_date, set_number, reps,
	weight_kg, rpe, rest_sec, duration_sec, notes, created_at`

type exerciseResultRepository struct {
	db     *warehouse.DB
	insert string
}

// NewExerciseResultRepository creates a repository.ExerciseResultRepository on db.
func NewExerciseResultRepository(db *warehouse.DB) repository.ExerciseResultRepository {
	return &exerciseResultRepository{
		db: db,
		insert: db.Dialect().InsertSQL(warehouse.TableExerciseResults,
			warehouse.Cols("result_id", "client_id", "workout_id", "exercise_name", "performed_date", "set_number",
				"reps", "weight_kg", "rpe", "rest_sec", "duration_sec", "notes", "created_at")),
	}
}

func (r *exerciseResultRepository) Create(ctx context.Context, s *domain.ExerciseResultSet) (string, error) {
	id := newID()
	if _, err := r.db.ExecContext(ctx, r.insert,
		id, s.ClientID, s.WorkoutID, s.ExerciseName, s.PerformedDate, s.SetNumber, s.Reps,
		nullFloat(s.WeightKg), nullFloat(s.RPE), nullInt(s.RestSec), nullInt(s.DurationSec),
		nullString(s.Notes), s.CreatedAt,
	); err != nil {
		return "", fmt.Errorf("insert exercise result: %w", err)
	}
	s.ID = id
	return id, nil
}

func (r *exerciseResultRepository) ListByWorkout(ctx context.Context, workoutID string) ([]domain.ExerciseResultSet, error) {
	return r.query(ctx, "SELECT "+exerciseResultColumns+
		" FROM exercise_results WHERE workout_id = ? ORDER BY exercise_name, set_number", workoutID)
}

func (r *exerciseResultRepository) ListByClient(ctx context.Context, clientID string) ([]domain.ExerciseResultSet, error) {
	return r.query(ctx, "SELECT "+exerciseResultColumns+
		" FROM exercise_results WHERE client_id = ? ORDER BY performed_date DESC, exercise_name, set_number", clientID)
}

func (r *exerciseResultRepository) query(ctx context.Context, query string, args ...any) ([]domain.ExerciseResultSet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exercise results: %w", err)
	}
	defer rows.Close()

	var out []domain.ExerciseResultSet
	for rows.Next() {
		var (
			s                 domain.ExerciseResultSet
			weight, rpe       sql.NullFloat64
			restSec, duration sql.NullInt64
			notes             sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.ClientID, &s.WorkoutID, &s.ExerciseName, &s.PerformedDate, &s.SetNumber, &s.Reps,
			&weight, &rpe, &restSec, &duration, &notes, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan exercise result: %w", err)
		}
		s.WeightKg, s.RPE = floatPtr(weight), floatPtr(rpe)
		s.RestSec, s.DurationSec = intPtr(restSec), intPtr(duration)
		s.Notes = notes.String
		out = append(out, s)
	}
	return out, rows.Err()
}

type runningRepository struct {
	db     *warehouse.DB
	insert string
}

// NewRunningRepository creates a repository.RunningRepository on db.
func NewRunningRepository(db *warehouse.DB) repository.RunningRepository {
	return &runningRepository{
		db: db,
		insert: db.Dialect().InsertSQL(warehouse.TableRunningSessions,
			warehouse.Cols("run_id", "client_id", "run_date", "distance_km", "duration_sec", "avg_heart_rate", "notes", "created_at")),
	}
}

func (r *runningRepository) Create(ctx context.Context, s *domain.RunningSession) (string, error) {
	id := newID()
	if _, err := r.db.ExecContext(ctx, r.insert,
		id, s.ClientID, s.RunDate, s.DistanceKm, s.DurationSec, nullInt(s.AvgHR), nullString(s.Notes), s.CreatedAt,
	); err != nil {
		return "", fmt.Errorf("insert running session: %w", err)
	}
	s.ID = id
	return id, nil
}

func (r *runningRepository) ListByClient(ctx context.Context, clientID string) ([]domain.RunningSession, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT run_id, client_id, run_date, distance_km, duration_sec, avg_heart_rate, notes, created_at
		FROM running_sessions WHERE client_id = ? ORDER BY run_date DESC, created_at DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list running sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.RunningSession
	for rows.Next() {
		var (
			s     domain.RunningSession
			hr    sql.NullInt64
			notes sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.ClientID, &s.RunDate, &s.DistanceKm, &s.DurationSec, &hr, &notes, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan running session: %w", err)
		}
		s.AvgHR = intPtr(hr)
		s.Notes = notes.String
		out = append(out, s)
	}
	return out, rows.Err()
}
