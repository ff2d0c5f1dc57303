package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/repository"
	"alcyxob/trainer-ai/internal/warehouse"
)

const clientColumns = `client_id, client_name, age, gender, current_weight_kg, height_cm, fitness_level,
	fitness_goals, available_equipment, days_per_week, workout_duration_min, dietary_preferences,
	allergies, target_calories, target_protein_g, created_at`

type clientRepository struct {
	db     *warehouse.DB
	insert string
}

// NewClientRepository creates a repository.ClientRepository on db.
func NewClientRepository(db *warehouse.DB) repository.ClientRepository {
	cols := warehouse.Cols("client_id", "client_name", "age", "gender", "current_weight_kg", "height_cm", "fitness_level")
	cols = append(cols,
		warehouse.JSONCol("fitness_goals"),
		warehouse.JSONCol("available_equipment"),
	)
	cols = append(cols, warehouse.Cols("days_per_week", "workout_duration_min")...)
	cols = append(cols, warehouse.JSONCol("dietary_preferences"))
	cols = append(cols, warehouse.Cols("allergies", "target_calories", "target_protein_g", "created_at")...)
	return &clientRepository{
		db:     db,
		insert: db.Dialect().InsertSQL(warehouse.TableClients, cols),
	}
}

func (r *clientRepository) Create(ctx context.Context, p *domain.ClientProfile) (string, error) {
	goals, err := toJSON(p.FitnessGoals)
	if err != nil {
		return "", err
	}
	equipment, err := toJSON(p.AvailableEquipment)
	if err != nil {
		return "", err
	}
	dietary, err := toJSON(p.DietaryPreferences)
	if err != nil {
		return "", err
	}

	p.ID = newID()
	_, err = r.db.ExecContext(ctx, r.insert,
		p.ID, p.Name, p.Age, p.Gender, p.CurrentWeightKg, p.HeightCm, string(p.FitnessLevel),
		goals, equipment, p.DaysPerWeek, p.WorkoutDurationMin, dietary,
		nullString(p.Allergies), nullInt(p.TargetCalories), nullInt(p.TargetProteinG), p.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert client: %w", err)
	}
	return p.ID, nil
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.ClientProfile, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM clients WHERE client_id = ?", id)
	p, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return p, nil
}

func (r *clientRepository) List(ctx context.Context) ([]domain.ClientProfile, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+clientColumns+" FROM clients ORDER BY client_name, created_at")
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []domain.ClientProfile
	for rows.Next() {
		p, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, *p)
	}
	return clients, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(s scanner) (*domain.ClientProfile, error) {
	var (
		p                         domain.ClientProfile
		level                     string
		goals, equipment, dietary sql.NullString
		allergies                 sql.NullString
		calories, protein         sql.NullInt64
	)
	err := s.Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.CurrentWeightKg, &p.HeightCm, &level,
		&goals, &equipment, &p.DaysPerWeek, &p.WorkoutDurationMin, &dietary,
		&allergies, &calories, &protein, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.FitnessLevel = domain.FitnessLevel(level)
	p.Allergies = allergies.String
	p.TargetCalories = intPtr(calories)
	p.TargetProteinG = intPtr(protein)
	if err := fromJSON(goals.String, &p.FitnessGoals); err != nil {
		return nil, err
	}
	if err := fromJSON(equipment.String, &p.AvailableEquipment); err != nil {
		return nil, err
	}
	if err := fromJSON(dietary.String, &p.DietaryPreferences); err != nil {
		return nil, err
	}
	return &p, nil
}
