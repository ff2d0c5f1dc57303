package planner

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

var (
	// ErrGenerationFailed means the completion call errored or returned no text.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrMalformedPlan means no candidate in the completion text decoded into a
	// valid plan. Structural violations wrap domain.ErrValidation as well.
	ErrMalformedPlan = errors.New("malformed plan")
)

// ExtractObjects returns every top-level balanced {...} span of text, in order.
// Braces inside JSON strings are ignored once a span is open; prose outside
// spans is skipped. An opening brace that never closes is treated as prose:
// the spans it encloses are returned in its place. Text is scanned once.
func ExtractObjects(text string) []string {
	var (
		spans    []string
		stack    []frame
		inString bool
		escaped  bool
	)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = len(stack) > 0
		case '{':
			stack = append(stack, frame{open: i})
		case '}':
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			span := text[top.open : i+1]
			if len(stack) == 0 {
				spans = append(spans, span)
			} else {
				parent := &stack[len(stack)-1]
				parent.inner = append(parent.inner, span)
			}
		}
	}
	for _, f := range stack {
		spans = append(spans, f.inner...)
	}
	return spans
}

// frame is an open brace and the closed spans directly inside it.
type frame struct {
	open  int
	inner []string
}

// stage orders candidate failures so the most informative one is reported.
type stage int

const (
	stageSyntax stage = iota
	stageRequired
	stageShape
	stageDecode
	stageValidate
)

type candidateError struct {
	stage stage
	err   error
}

// decodeFirst tries each span of raw in order and returns the first plan that
// carries the required keys, matches shape at every level, decodes and
// validates.
func decodeFirst[P any](raw string, required []string, shape *jsonschema.Resolved, validate func(*P) error) (*P, error) {
	spans := ExtractObjects(raw)
	if len(spans) == 0 {
		return nil, fmt.Errorf("%w: no JSON object in completion text", ErrMalformedPlan)
	}

	var best *candidateError
	for _, span := range spans {
		plan, cerr := decodeCandidate(span, required, shape, validate)
		if cerr == nil {
			return plan, nil
		}
		if best == nil || cerr.stage > best.stage {
			best = cerr
		}
	}
	if len(spans) > 1 {
		return nil, fmt.Errorf("%w (%d candidates): %w", ErrMalformedPlan, len(spans), best.err)
	}
	return nil, fmt.Errorf("%w: %w", ErrMalformedPlan, best.err)
}

func decodeCandidate[P any](span string, required []string, shape *jsonschema.Resolved, validate func(*P) error) (*P, *candidateError) {
	var doc any
	if err := json.Unmarshal([]byte(span), &doc); err != nil {
		return nil, &candidateError{stage: stageSyntax, err: err}
	}
	keys, ok := doc.(map[string]any)
	if !ok {
		return nil, &candidateError{stage: stageSyntax, err: errors.New("candidate is not a JSON object")}
	}
	for _, k := range required {
		if keys[k] == nil {
			return nil, &candidateError{stage: stageRequired, err: fmt.Errorf("missing required field %q", k)}
		}
	}
	if err := shape.Validate(doc); err != nil {
		return nil, &candidateError{stage: stageShape, err: err}
	}

	plan := new(P)
	if err := json.Unmarshal([]byte(span), plan); err != nil {
		return nil, &candidateError{stage: stageDecode, err: err}
	}
	if err := validate(plan); err != nil {
		return nil, &candidateError{stage: stageValidate, err: err}
	}
	return plan, nil
}
