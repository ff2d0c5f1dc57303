package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/repository"
)

// --- Error Definitions ---
var (
	ErrClientNotFound  = errors.New("client not found")
	ErrWorkoutNotFound = errors.New("workout not found for this client")
)

// ClientService manages client profiles.
type ClientService interface {
	Create(ctx context.Context, profile *domain.ClientProfile) (*domain.ClientProfile, error)
	Get(ctx context.Context, clientID string) (*domain.ClientProfile, error)
	List(ctx context.Context) ([]domain.ClientProfile, error)
}

// clientService implements the ClientService interface.
type clientService struct {
	clientRepo repository.ClientRepository
	events     *eventLog
	clock      clockwork.Clock
	log        *slog.Logger
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	clientRepo repository.ClientRepository,
	eventRepo repository.EventRepository,
	clock clockwork.Clock,
	log *slog.Logger,
) ClientService {
	return &clientService{
		clientRepo: clientRepo,
		events:     newEventLog(eventRepo, clock, log),
		clock:      clock,
		log:        log,
	}
}

func (s *clientService) Create(ctx context.Context, profile *domain.ClientProfile) (*domain.ClientProfile, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	profile.CreatedAt = s.clock.Now().UTC()
	id, err := s.clientRepo.Create(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	s.log.Info("client created", "client_id", id)
	s.events.recordInfo(ctx, domain.EventClientCreated, id, "client "+profile.Name+" added", map[string]any{
		"fitnessLevel": string(profile.FitnessLevel),
		"daysPerWeek":  profile.DaysPerWeek,
	})
	return profile, nil
}

func (s *clientService) Get(ctx context.Context, clientID string) (*domain.ClientProfile, error) {
	return loadClient(ctx, s.clientRepo, clientID)
}

func (s *clientService) List(ctx context.Context) ([]domain.ClientProfile, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func loadClient(ctx context.Context, repo repository.ClientRepository, clientID string) (*domain.ClientProfile, error) {
	profile, err := repo.GetByID(ctx, clientID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client %s: %w", clientID, err)
	}
	return profile, nil
}
