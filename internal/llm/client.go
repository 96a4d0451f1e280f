// Package llm talks to an OpenAI-compatible chat completion API and turns its
// free-form answers into structured data.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"semantiapi/internal/apperr"
	"semantiapi/internal/config"
)

var (
	// ErrUnavailable is returned when the upstream completion call fails.
	ErrUnavailable = apperr.New(http.StatusServiceUnavailable, "AI service is currently unavailable.")
	// ErrNoResponse is returned when the model answered with no content.
	ErrNoResponse = apperr.Internal("No response from AI service")
	// ErrNoJSON is returned when no strategy could recover a JSON object from the answer.
	ErrNoJSON = apperr.Internal("Unable to extract valid JSON from AI service response")
	// ErrBadJSON is returned when an answer that must be plain JSON is not.
	ErrBadJSON = apperr.Internal("Error processing AI service response")
)

// Client sends one system/user exchange to a model and returns the text of the first choice.
type Client interface {
	Complete(ctx context.Context, model, system, user string) (string, error)
}

// WithOption prefixes content as "<option>: <content>" when option is set.
func WithOption(option, content string) string {
	if option == "" {
		return content
	}
	return option + ": " + content
}

// OpenAI is a Client backed by langchaingo's OpenAI provider.
type OpenAI struct {
	model       llms.Model
	temperature float64
	timeout     time.Duration
	log         *zap.Logger
}

// New builds an OpenAI client from cfg.
func New(cfg config.LLMConfig, log *zap.Logger) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	m, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	return NewWithModel(m, cfg, log), nil
}

// NewWithModel wraps an already constructed langchaingo model.
func NewWithModel(m llms.Model, cfg config.LLMConfig, log *zap.Logger) *OpenAI {
	if log == nil {
		log = zap.NewNop()
	}
	temp := cfg.Temperature
	if temp <= 0 {
		temp = 0.3
	}
	return &OpenAI{model: m, temperature: temp, timeout: cfg.Timeout, log: log}
}

func (c *OpenAI) Complete(ctx context.Context, model, system, user string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, user),
	}
	opts := []llms.CallOption{
		llms.WithTemperature(c.temperature),
		llms.WithTopP(1),
	}
	if model != "" {
		opts = append(opts, llms.WithModel(model))
	}

	resp, err := c.model.GenerateContent(ctx, content, opts...)
	if err != nil {
		c.log.Error("llm_request_failed", zap.String("model", model), zap.Error(err))
		return "", apperr.Wrap(ErrUnavailable.Status, ErrUnavailable.Message, err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

// Unavailable is a Client used when no API key is configured. Every call fails with ErrUnavailable.
type Unavailable struct{}

func (Unavailable) Complete(context.Context, string, string, string) (string, error) {
	return "", ErrUnavailable
}
