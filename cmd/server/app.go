package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"alcyxob/trainer-ai/internal/completion"
	"alcyxob/trainer-ai/internal/config"
	"alcyxob/trainer-ai/internal/planner"
	"alcyxob/trainer-ai/internal/repository"
	"alcyxob/trainer-ai/internal/repository/mongo"
	"alcyxob/trainer-ai/internal/repository/sqlrepo"
	"alcyxob/trainer-ai/internal/service"
	"alcyxob/trainer-ai/internal/storage"
	"alcyxob/trainer-ai/internal/warehouse"
)

const indexTimeout = time.Minute

// app holds every long-lived component. It is built once per command and
// closed on exit.
type app struct {
	cfg      config.Config
	log      *slog.Logger
	db       *warehouse.DB
	mongo    *mongodriver.Client
	clients  service.ClientService
	plans    service.PlanService
	tracking service.TrackingService
}

// openWarehouse loads config, builds the logger and connects the warehouse.
// The schema is migrated before it returns.
func openWarehouse(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.LoadConfig(*opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg.Log.Level, *opts.verbose)

	db, err := warehouse.Open(ctx, log, cfg.Warehouse)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: db}, nil
}

// loadApp is openWarehouse plus every service.
func loadApp(ctx context.Context, opts *rootOptions) (*app, error) {
	a, err := openWarehouse(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	completer, err := completion.New(a.log, a.cfg.Completion, a.db)
	if err != nil {
		return err
	}
	generator := planner.NewGenerator(a.log, completer, a.cfg.Completion.Model, a.cfg.Completion.Structured)

	events, err := a.eventSink(ctx)
	if err != nil {
		return err
	}

	archive := storage.NewNoopArchive()
	if a.cfg.S3.BucketName != "" {
		if archive, err = storage.NewS3Archive(ctx, a.log, a.cfg.S3); err != nil {
			return fmt.Errorf("transcript archive: %w", err)
		}
	}

	clock := clockwork.NewRealClock()
	clientRepo := sqlrepo.NewClientRepository(a.db)
	workoutRepo := sqlrepo.NewWorkoutRepository(a.db)

	a.clients = service.NewClientService(clientRepo, events, clock, a.log)
	a.plans = service.NewPlanService(service.PlanServiceDeps{
		Clients:    clientRepo,
		Workouts:   workoutRepo,
		MealPlans:  sqlrepo.NewMealPlanRepository(a.db),
		Events:     events,
		Generator:  generator,
		Archive:    archive,
		PresignTTL: a.cfg.S3.PresignTTL,
		Clock:      clock,
		Log:        a.log,
	})
	a.tracking = service.NewTrackingService(service.TrackingServiceDeps{
		Clients:         clientRepo,
		Workouts:        workoutRepo,
		WeighIns:        sqlrepo.NewWeighInRepository(a.db),
		Measurements:    sqlrepo.NewMeasurementRepository(a.db),
		ExerciseResults: sqlrepo.NewExerciseResultRepository(a.db),
		Runs:            sqlrepo.NewRunningRepository(a.db),
		Events:          events,
		Clock:           clock,
		Log:             a.log,
	})
	a.log.Info("components ready", "completion", completer.Name(), "model", generator.Model(),
		"events", a.cfg.Events.Sink, "archive", a.cfg.S3.BucketName != "")
	return nil
}

// eventSink returns nil for the "none" sink, which turns event logging off.
func (a *app) eventSink(ctx context.Context) (repository.EventRepository, error) {
	switch a.cfg.Events.Sink {
	case config.SinkWarehouse:
		return sqlrepo.NewEventRepository(a.db), nil
	case config.SinkMongo:
		client, err := mongo.ConnectDB(ctx, a.cfg.Events.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("event sink: %w", err)
		}
		a.mongo = client
		db := client.Database(a.cfg.Events.MongoDB)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
			defer cancel()
			mongo.EnsureEventIndexes(ctx, a.log, db)
		}()
		return mongo.NewMongoEventRepository(db), nil
	default:
		return nil, nil
	}
}

// Close releases the warehouse and, when used, the Mongo client.
func (a *app) Close() {
	if a.mongo != nil {
		if err := mongo.DisconnectDB(a.mongo); err != nil {
			a.log.Error("failed to disconnect mongo", "error", err)
		}
	}
	if err := a.db.Close(); err != nil {
		a.log.Error("failed to close warehouse", "error", err)
	}
}
