// Package completion implements the completion backends behind
// planner.Completer.
package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"alcyxob/trainer-ai/internal/planner"
)

// Querier runs a query that yields one text value. *warehouse.DB satisfies it.
type Querier interface {
	QueryString(ctx context.Context, query string, args ...any) (string, error)
}

const (
	cortexPlainSQL      = "SELECT SNOWFLAKE.CORTEX.COMPLETE(?, ?)"
	cortexStructuredSQL = "SELECT SNOWFLAKE.CORTEX.COMPLETE(?, PARSE_JSON(?), PARSE_JSON(?))"
)

// Cortex calls SNOWFLAKE.CORTEX.COMPLETE through the owned warehouse
// connection. Model and prompt are always bound parameters.
type Cortex struct {
	db  Querier
	log *slog.Logger
}

func NewCortex(log *slog.Logger, db Querier) *Cortex {
	return &Cortex{db: db, log: log}
}

func (c *Cortex) Name() string { return "cortex" }

func (c *Cortex) Complete(ctx context.Context, req planner.CompletionRequest) (string, error) {
	if req.Schema == nil {
		text, err := c.db.QueryString(ctx, cortexPlainSQL, req.Model, req.Prompt)
		if err != nil {
			return "", fmt.Errorf("cortex complete: %w", err)
		}
		return text, nil
	}

	messages, err := json.Marshal([]cortexMessage{{Role: "user", Content: req.Prompt}})
	if err != nil {
		return "", fmt.Errorf("encode messages: %w", err)
	}
	options, err := json.Marshal(cortexOptions{
		ResponseFormat: cortexResponseFormat{Type: "json", Schema: req.Schema},
	})
	if err != nil {
		return "", fmt.Errorf("encode options: %w", err)
	}
	envelope, err := c.db.QueryString(ctx, cortexStructuredSQL, req.Model, string(messages), string(options))
	if err != nil {
		return "", fmt.Errorf("cortex complete: %w", err)
	}
	text, err := unwrapCortex(envelope)
	if err != nil {
		c.log.Warn("cortex envelope not understood", "model", req.Model, "error", err)
		return "", err
	}
	return text, nil
}

type cortexMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type cortexResponseFormat struct {
	Type   string `json:"type"`
	Schema any    `json:"schema"`
}

type cortexOptions struct {
	ResponseFormat cortexResponseFormat `json:"response_format"`
}

// The array form of COMPLETE returns a JSON document instead of bare text.
type cortexEnvelope struct {
	Choices []struct {
		Messages json.RawMessage `json:"messages"`
	} `json:"choices"`
	StructuredOutput []struct {
		RawMessage json.RawMessage `json:"raw_message"`
	} `json:"structured_output"`
}

var errEmptyEnvelope = errors.New("cortex envelope has no choices")

// unwrapCortex returns choices[0].messages. The model output may arrive as a
// JSON string or as an embedded object, which is returned as its JSON text.
func unwrapCortex(envelope string) (string, error) {
	var env cortexEnvelope
	if err := json.Unmarshal([]byte(envelope), &env); err != nil {
		return "", fmt.Errorf("decode cortex envelope: %w", err)
	}
	var msg json.RawMessage
	switch {
	case len(env.StructuredOutput) > 0 && len(env.StructuredOutput[0].RawMessage) > 0:
		msg = env.StructuredOutput[0].RawMessage
	case len(env.Choices) > 0 && len(env.Choices[0].Messages) > 0:
		msg = env.Choices[0].Messages
	default:
		return "", errEmptyEnvelope
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s, nil
	}
	return string(msg), nil
}
