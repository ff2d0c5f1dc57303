package planner

import (
	"reflect"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"alcyxob/trainer-ai/internal/domain"
)

// Schemas for the structured-output completion mode. They are inferred from
// the plan types, so the contract cannot drift from the decoder.
var (
	workoutSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
		return jsonschema.For[domain.WorkoutPlan](nil)
	})
	mealPlanSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
		return jsonschema.For[domain.MealPlan](nil)
	})
)

// WorkoutSchema returns the JSON schema of a workout plan.
func WorkoutSchema() (*jsonschema.Schema, error) {
	return workoutSchema()
}

// MealPlanSchema returns the JSON schema of a meal plan.
func MealPlanSchema() (*jsonschema.Schema, error) {
	return mealPlanSchema()
}

// Shapes checked against every candidate before it is decoded. They require
// the same fields as the schemas above at every level, so a key the model
// left out fails instead of decoding to zero.
var (
	workoutShape = sync.OnceValues(func() (*jsonschema.Resolved, error) {
		return shapeFor[domain.WorkoutPlan]()
	})
	mealPlanShape = sync.OnceValues(func() (*jsonschema.Resolved, error) {
		return shapeFor[domain.MealPlan]()
	})
)

// repSpecShape admits the string, number and range forms RepSpec decodes.
var repSpecShape = &jsonschema.Schema{Types: []string{"string", "number", "array"}}

func shapeFor[P any]() (*jsonschema.Resolved, error) {
	s, err := jsonschema.For[P](&jsonschema.ForOptions{
		TypeSchemas: map[reflect.Type]*jsonschema.Schema{
			reflect.TypeFor[domain.RepSpec](): repSpecShape,
		},
	})
	if err != nil {
		return nil, err
	}
	allowExtraKeys(s)
	return s.Resolve(nil)
}

// allowExtraKeys drops the additionalProperties:false that inference puts on
// every struct. Keys the decoder ignores are not an error.
func allowExtraKeys(s *jsonschema.Schema) {
	if s == nil {
		return
	}
	if ap := s.AdditionalProperties; ap != nil && ap.Not != nil {
		s.AdditionalProperties = nil
	}
	for _, p := range s.Properties {
		allowExtraKeys(p)
	}
	allowExtraKeys(s.Items)
}
