package warehouse

import (
	"context"
	"fmt"
	"strings"
)

// Table names shared by the repositories and the migration.
const (
	TableClients           = "clients"
	TableWorkoutPlans      = "workout_plans"
	TableGeneratedWorkouts = "generated_workouts"
	TableMealPlans         = "meal_plans"
	TableWeighIns          = "weigh_ins"
	TableBodyMeasurements  = "body_measurements"
	TableExerciseResults   = "exercise_results"
	TableRunningSessions   = "running_sessions"
	TableAppLogs           = "app_logs"
)

// {json}, {ts} and {float} are replaced with the dialect's column types.
var tables = []struct {
	name    string
	columns string
}{
	{TableClients, `
		client_id            VARCHAR PRIMARY KEY,
		client_name          VARCHAR NOT NULL,
		age                  INTEGER NOT NULL,
		gender               VARCHAR NOT NULL,
		current_weight_kg    {float} NOT NULL,
		height_cm            INTEGER NOT NULL,
		fitness_level        VARCHAR NOT NULL,
		fitness_goals        {json},
		available_equipment  {json},
		days_per_week        INTEGER NOT NULL,
		workout_duration_min INTEGER NOT NULL,
		dietary_preferences  {json},
		allergies            VARCHAR,
		target_calories      INTEGER,
		target_protein_g     INTEGER,
		created_at           {ts} NOT NULL`},
	{TableWorkoutPlans, `
		workout_plan_id VARCHAR PRIMARY KEY,
		client_id       VARCHAR NOT NULL,
		week            INTEGER NOT NULL,
		training_days   INTEGER NOT NULL,
		plan_json       {json} NOT NULL,
		prompt          VARCHAR NOT NULL,
		model           VARCHAR NOT NULL,
		generation_date {ts} NOT NULL`},
	{TableGeneratedWorkouts, `
		workout_id      VARCHAR PRIMARY KEY,
		workout_plan_id VARCHAR NOT NULL,
		client_id       VARCHAR NOT NULL,
		workout_week    INTEGER NOT NULL,
		workout_day     INTEGER NOT NULL,
		workout_focus   VARCHAR,
		duration_min    INTEGER NOT NULL,
		warm_up         VARCHAR,
		exercises       {json} NOT NULL,
		cool_down       VARCHAR,
		prompt          VARCHAR NOT NULL,
		model           VARCHAR NOT NULL,
		generation_date {ts} NOT NULL`},
	{TableMealPlans, `
		meal_plan_id    VARCHAR PRIMARY KEY,
		client_id       VARCHAR NOT NULL,
		week            INTEGER NOT NULL,
		duration_days   INTEGER NOT NULL,
		plan_json       {json} NOT NULL,
		prompt          VARCHAR NOT NULL,
		model           VARCHAR NOT NULL,
		generation_date {ts} NOT NULL`},
	{TableWeighIns, `
		weigh_in_id   VARCHAR PRIMARY KEY,
		client_id     VARCHAR NOT NULL,
		weigh_in_date {ts} NOT NULL,
		weight_kg     {float} NOT NULL,
		body_fat_pct  {float},
		notes         VARCHAR,
		created_at    {ts} NOT NULL`},
	{TableBodyMeasurements, `
		measurement_id   VARCHAR PRIMARY KEY,
		client_id        VARCHAR NOT NULL,
		measurement_date {ts} NOT NULL,
		neck_cm          {float} NOT NULL,
		chest_cm         {float} NOT NULL,
		waist_cm         {float} NOT NULL,
		hip_cm           {float} NOT NULL,
		thigh_cm         {float} NOT NULL,
		calf_cm          {float} NOT NULL,
		created_at       {ts} NOT NULL`},
	{TableExerciseResults, `
		result_id      VARCHAR PRIMARY KEY,
		client_id      VARCHAR NOT NULL,
		workout_id     VARCHAR NOT NULL,
		exercise_name  VARCHAR NOT NULL,
		performed_date {ts} NOT NULL,
		set_number     INTEGER NOT NULL,
		reps           INTEGER NOT NULL,
		weight_kg      {float},
		rpe            {float},
		rest_sec       INTEGER,
		duration_sec   INTEGER,
		notes          VARCHAR,
		created_at     {ts} NOT NULL`},
	{TableRunningSessions, `
		run_id         VARCHAR PRIMARY KEY,
		client_id      VARCHAR NOT NULL,
		run_date       {ts} NOT NULL,
		distance_km    {float} NOT NULL,
		duration_sec   INTEGER NOT NULL,
		avg_heart_rate INTEGER,
		notes          VARCHAR,
		created_at     {ts} NOT NULL`},
	{TableAppLogs, `
		log_id     VARCHAR PRIMARY KEY,
		event_type VARCHAR NOT NULL,
		severity   VARCHAR NOT NULL,
		client_id  VARCHAR,
		message    VARCHAR,
		context    {json},
		created_at {ts} NOT NULL`},
}

// DDL returns the CREATE TABLE statements for the dialect.
func (d Dialect) DDL() []string {
	r := strings.NewReplacer("{json}", d.JSONType, "{ts}", d.TimestampType, "{float}", d.FloatType)
	stmts := make([]string, len(tables))
	for i, t := range tables {
		stmts[i] = fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s\n)", t.name, r.Replace(t.columns))
	}
	return stmts
}

// Migrate creates every table that does not exist yet. It is safe to run on
// each startup.
func (d *DB) Migrate(ctx context.Context) error {
	for i, stmt := range d.dialect.DDL() {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", tables[i].name, err)
		}
	}
	d.log.Info("warehouse schema ready", "tables", len(tables))
	return nil
}
