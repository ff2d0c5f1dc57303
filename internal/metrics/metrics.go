package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values of Generations.
const (
	OutcomeOK               = "ok"
	OutcomeGenerationFailed = "generation_failed"
	OutcomeMalformedPlan    = "malformed_plan"
	OutcomeInvalidRequest   = "invalid_request"
)

var (
	Generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trainer_ai_generations_total", Help: "Plan generation attempts by kind and outcome.",
	}, []string{"kind", "outcome"})
	GenerationWarnings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trainer_ai_generation_warnings_total", Help: "Accepted plans that deviated from the request.",
	}, []string{"kind"})

	CompletionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trainer_ai_completion_duration_seconds",
		Help:    "Latency of completion model calls.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
	}, []string{"backend"})

	PlansSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trainer_ai_plans_saved_total", Help: "Plans written to the warehouse.",
	}, []string{"kind"})

	EventRecordErrs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trainer_ai_event_record_errors_total", Help: "Activity log writes that failed.",
	})
	ArchiveErrs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trainer_ai_transcript_archive_errors_total", Help: "Transcript uploads that failed.",
	})
)
