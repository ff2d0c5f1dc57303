package domain

import "time"

// EventType names an entry of the activity log.
type EventType string

const (
	EventClientCreated        EventType = "client_created"
	EventWorkoutGenerated     EventType = "workout_generated"
	EventMealPlanGenerated    EventType = "meal_plan_generated"
	EventGenerationFailed     EventType = "generation_failed"
	EventWeighInRecorded      EventType = "weigh_in_recorded"
	EventMeasurementsRecorded EventType = "measurements_recorded"
	EventExerciseResultLogged EventType = "exercise_result_recorded"
	EventRunRecorded          EventType = "run_recorded"
)

// Severity of an activity log entry.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityError Severity = "ERROR"
)

// Event is one row of the activity log.
type Event struct {
	ID        string         `json:"logId" bson:"_id"`
	Type      EventType      `json:"eventType" bson:"eventType"`
	Severity  Severity       `json:"severity" bson:"severity"`
	ClientID  string         `json:"clientId,omitempty" bson:"clientId,omitempty"`
	Message   string         `json:"message,omitempty" bson:"message,omitempty"`
	Context   map[string]any `json:"context,omitempty" bson:"context,omitempty"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
}
