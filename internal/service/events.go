package service

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/metrics"
	"alcyxob/trainer-ai/internal/repository"
)

// eventLog writes the activity log. Writes are best effort: a failure is
// logged and counted but never fails the action being recorded.
type eventLog struct {
	repo  repository.EventRepository
	clock clockwork.Clock
	log   *slog.Logger
}

func newEventLog(repo repository.EventRepository, clock clockwork.Clock, log *slog.Logger) *eventLog {
	return &eventLog{repo: repo, clock: clock, log: log}
}

func (l *eventLog) recordInfo(ctx context.Context, typ domain.EventType, clientID, msg string, attrs map[string]any) {
	l.record(ctx, typ, domain.SeverityInfo, clientID, msg, attrs)
}

func (l *eventLog) recordError(ctx context.Context, typ domain.EventType, clientID, msg string, attrs map[string]any) {
	l.record(ctx, typ, domain.SeverityError, clientID, msg, attrs)
}

func (l *eventLog) record(ctx context.Context, typ domain.EventType, sev domain.Severity, clientID, msg string, attrs map[string]any) {
	if l == nil || l.repo == nil {
		return
	}
	e := &domain.Event{
		Type:      typ,
		Severity:  sev,
		ClientID:  clientID,
		Message:   msg,
		Context:   attrs,
		CreatedAt: l.clock.Now().UTC(),
	}
	if err := l.repo.Record(ctx, e); err != nil {
		metrics.EventRecordErrs.Inc()
		l.log.Warn("failed to record event", "event_type", typ, "client_id", clientID, "error", err)
	}
}
