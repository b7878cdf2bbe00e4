package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joakiti/boliganalyse-ai-server/internal/models"
	"github.com/joakiti/boliganalyse-ai-server/internal/tools"
)

const (
	defaultModel       = "claude-3-5-sonnet-20240620"
	defaultMaxTokens   = 4096
	defaultTemperature = 0.5
)

// messageCreator is the slice of the Anthropic client the analyzer uses.
// Tests substitute a scripted implementation.
type messageCreator interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Analyzer drives the tool-calling conversation that turns extracted
// listing text into a structured analysis.
type Analyzer struct {
	logger     *slog.Logger
	messages   messageCreator
	registry   *tools.Registry
	model      anthropic.Model
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
}

// AnalyzerConfig carries the tunables for the LLM conversation.
type AnalyzerConfig struct {
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

func NewAnalyzer(logger *slog.Logger, cfg AnalyzerConfig, registry *tools.Registry) *Analyzer {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return &Analyzer{
		logger:     logger.With("component", "analyzer"),
		messages:   &client.Messages,
		registry:   registry,
		model:      anthropic.Model(cfg.Model),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		timeout:    cfg.Timeout,
	}
}

// GenerateInsights runs the conversation loop until the model stops
// requesting tools, then parses the accumulated text as an analysis
// result. Tool failures are reported back to the model rather than
// aborting the conversation.
func (a *Analyzer) GenerateInsights(ctx context.Context, listingText string) (*models.AnalysisResult, error) {
	prompt := buildAnalysisPrompt(listingText)

	toolParams := make([]anthropic.ToolUnionParam, 0, len(a.registry.Definitions()))
	for _, def := range a.registry.Definitions() {
		toolParams = append(toolParams, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        def.Name,
				Description: anthropic.String(def.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: def.InputSchema.Properties,
					Required:   def.InputSchema.Required,
				},
			},
		})
	}

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
	}

	var accumulated strings.Builder
	var lastTurnText string
	for turn := 0; ; turn++ {
		message, err := a.createMessage(ctx, anthropic.MessageNewParams{
			Model:       a.model,
			MaxTokens:   defaultMaxTokens,
			Temperature: anthropic.Float(defaultTemperature),
			Messages:    messages,
			Tools:       toolParams,
		})
		if err != nil {
			return nil, fmt.Errorf("message request failed on turn %d: %w", turn, err)
		}

		var turnText strings.Builder
		var toolResults []anthropic.ContentBlockParamUnion
		for _, block := range message.Content {
			switch variant := block.AsAny().(type) {
			case anthropic.TextBlock:
				turnText.WriteString(variant.Text)
			case anthropic.ToolUseBlock:
				input := json.RawMessage(variant.JSON.Input.Raw())
				a.logger.Debug("executing tool", "tool", variant.Name)
				result, ok := a.registry.Execute(ctx, variant.Name, input)
				toolResults = append(toolResults, anthropic.NewToolResultBlock(variant.ID, result, !ok))
			}
		}
		accumulated.WriteString(turnText.String())
		lastTurnText = turnText.String()

		messages = append(messages, message.ToParam())
		if len(toolResults) == 0 {
			break
		}
		messages = append(messages, anthropic.NewUserMessage(toolResults...))
	}

	raw := accumulated.String()
	if strings.TrimSpace(raw) == "" {
		raw = lastTurnText
	}
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("model returned no textual response")
	}

	extracted, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}
	return models.ParseAnalysisResult(extracted)
}

// createMessage issues a single request, retrying only on rate limits.
func (a *Analyzer) createMessage(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	for attempt := 0; ; attempt++ {
		reqCtx := ctx
		var cancel context.CancelFunc
		if a.timeout > 0 {
			reqCtx, cancel = context.WithTimeout(ctx, a.timeout)
		}
		message, err := a.messages.New(reqCtx, params)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return message, nil
		}

		var apiErr *anthropic.Error
		rateLimited := errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
		if !rateLimited || attempt >= a.maxRetries {
			return nil, err
		}
		a.logger.Warn("rate limited, retrying", "attempt", attempt+1, "delay", a.retryDelay)
		select {
		case <-time.After(a.retryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// extractJSON pulls the JSON object out of a model response. The prompt
// asks for bare JSON, but models occasionally wrap it in prose or a
// fenced code block.
func extractJSON(text string) (json.RawMessage, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}

	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if fence := strings.Index(rest, "```"); fence >= 0 {
			candidate := strings.TrimSpace(rest[:fence])
			if json.Valid([]byte(candidate)) {
				return json.RawMessage(candidate), nil
			}
		}
	}

	return nil, errors.New("response contains no valid JSON object")
}
