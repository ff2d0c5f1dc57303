package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"alcyxob/trainer-ai/internal/planner"
)

// Anthropic calls the Messages API directly, for deployments whose warehouse
// has no Cortex.
type Anthropic struct {
	client    anthropic.Client
	maxTokens int64
	log       *slog.Logger
}

func NewAnthropic(log *slog.Logger, apiKey string, maxTokens int64, opts ...option.RequestOption) *Anthropic {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		maxTokens: maxTokens,
		log:       log,
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Complete(ctx context.Context, req planner.CompletionRequest) (string, error) {
	prompt := req.Prompt
	if req.Schema != nil {
		// The Messages API has no schema parameter here, so the schema is
		// appended to the prompt.
		schema, err := json.Marshal(req.Schema)
		if err != nil {
			return "", fmt.Errorf("encode schema: %w", err)
		}
		prompt += "\n\nThe response must be a single JSON object matching this JSON schema:\n" + string(schema)
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}
	a.log.Debug("anthropic call completed", "model", req.Model, "stop_reason", msg.StopReason,
		"output_tokens", msg.Usage.OutputTokens)

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("no text content in response")
	}
	return b.String(), nil
}
