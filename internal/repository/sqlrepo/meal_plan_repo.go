package sqlrepo

import (
	"context"
	"fmt"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/repository"
	"alcyxob/trainer-ai/internal/warehouse"
)

type mealPlanRepository struct {
	db     *warehouse.DB
	insert string
}

// NewMealPlanRepository creates a repository.MealPlanRepository on db.
func NewMealPlanRepository(db *warehouse.DB) repository.MealPlanRepository {
	cols := warehouse.Cols("meal_plan_id", "client_id", "week", "duration_days")
	cols = append(cols, warehouse.JSONCol("plan_json"))
	cols = append(cols, warehouse.Cols("prompt", "model", "generation_date")...)
	return &mealPlanRepository{
		db:     db,
		insert: db.Dialect().InsertSQL(warehouse.TableMealPlans, cols),
	}
}

func (r *mealPlanRepository) Create(ctx context.Context, plan *domain.MealPlanRecord) (string, error) {
	planJSON, err := toJSON(plan.Plan)
	if err != nil {
		return "", err
	}
	id := newID()
	if _, err := r.db.ExecContext(ctx, r.insert,
		id, plan.ClientID, plan.Week, plan.DurationDays, planJSON, plan.Prompt, plan.Model, plan.GenerationDate,
	); err != nil {
		return "", fmt.Errorf("insert meal plan: %w", err)
	}
	plan.ID = id
	return id, nil
}

func (r *mealPlanRepository) ListByClient(ctx context.Context, clientID string) ([]domain.MealPlanRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT meal_plan_id, client_id, week, duration_days, plan_json,
		prompt, model, generation_date
		FROM meal_plans WHERE client_id = ? ORDER BY generation_date DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list meal plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.MealPlanRecord
	for rows.Next() {
		var (
			p        domain.MealPlanRecord
			planJSON string
		)
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Week, &p.DurationDays, &planJSON,
			&p.Prompt, &p.Model, &p.GenerationDate); err != nil {
			return nil, fmt.Errorf("scan meal plan: %w", err)
		}
		if err := fromJSON(planJSON, &p.Plan); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
