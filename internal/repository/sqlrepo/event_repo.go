package sqlrepo

import (
	"context"
	"fmt"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/repository"
	"alcyxob/trainer-ai/internal/warehouse"
)

type eventRepository struct {
	db     *warehouse.DB
	insert string
}

// NewEventRepository writes the activity log to the app_logs table.
func NewEventRepository(db *warehouse.DB) repository.EventRepository {
	cols := warehouse.Cols("log_id", "event_type", "severity", "client_id", "message")
	cols = append(cols, warehouse.JSONCol("context"), warehouse.Column{Name: "created_at"})
	return &eventRepository{
		db:     db,
		insert: db.Dialect().InsertSQL(warehouse.TableAppLogs, cols),
	}
}

func (r *eventRepository) Record(ctx context.Context, e *domain.Event) error {
	var attrs any
	if len(e.Context) > 0 {
		s, err := toJSON(e.Context)
		if err != nil {
			return err
		}
		attrs = s
	}
	if e.ID == "" {
		e.ID = newID()
	}
	if _, err := r.db.ExecContext(ctx, r.insert,
		e.ID, string(e.Type), string(e.Severity), nullString(e.ClientID), nullString(e.Message), attrs, e.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}
