package generativeAI

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"

	"github.com/geulda/go-tour-recommendations/app/observability/metrics"
)

// TextGenerator is the text-generation capability consumed by the
// recommendation pipeline. Implementations return raw model text; all JSON
// shape enforcement happens on the caller's side.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string, opts *GenerateOptions) (string, error)
}

// Embedder produces the vectors used by the semantic index.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// GenerateOptions carries per-call sampling knobs.
type GenerateOptions struct {
	Temperature float32
}

const (
	defaultModel          = "gemini-2.0-flash"
	defaultEmbeddingModel = "gemini-embedding-001"
	defaultCallLimit      = 30 * time.Second
)

var _ TextGenerator = (*AIClient)(nil)
var _ Embedder = (*AIClient)(nil)

// AIClient wraps the Gemini API behind a per-call timeout and a circuit
// breaker so a degraded model endpoint fails fast instead of stalling every
// recommendation in flight.
type AIClient struct {
	client         *genai.Client
	model          string
	embeddingModel string
	logger         *slog.Logger
	callTimeout    time.Duration
	breaker        *gobreaker.CircuitBreaker[string]
}

// NewAIClient builds the Gemini client. Model names come from configuration;
// the GOOGLE_GEMINI_MODEL environment variable overrides the text model.
func NewAIClient(ctx context.Context, model, embeddingModel string, logger *slog.Logger) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if env := os.Getenv("GOOGLE_GEMINI_MODEL"); env != "" {
		model = env
	}
	if model == "" {
		model = defaultModel
	}
	if embeddingModel == "" {
		embeddingModel = defaultEmbeddingModel
	}

	settings := gobreaker.Settings{
		Name:    "gemini",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("AI circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &AIClient{
		client:         client,
		model:          model,
		embeddingModel: embeddingModel,
		logger:         logger,
		callTimeout:    defaultCallLimit,
		breaker:        gobreaker.NewCircuitBreaker[string](settings),
	}, nil
}

func (ai *AIClient) GenerateContent(ctx context.Context, prompt string, opts *GenerateOptions) (string, error) {
	var config *genai.GenerateContentConfig
	if opts != nil {
		config = &genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](opts.Temperature),
		}
	}

	text, err := ai.breaker.Execute(func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, ai.callTimeout)
		defer cancel()

		result, err := ai.client.Models.GenerateContent(callCtx, ai.model, genai.Text(prompt), config)
		if err != nil {
			return "", fmt.Errorf("generate content failed: %w", err)
		}
		return result.Text(), nil
	})
	if err != nil {
		if m := metrics.Get(); m != nil {
			m.AICallErrorsTotal.Add(ctx, 1)
		}
		return "", err
	}
	return text, nil
}

func (ai *AIClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, ai.callTimeout)
	defer cancel()

	result, err := ai.client.Models.EmbedContent(callCtx, ai.embeddingModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("embed content failed: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return result.Embeddings[0].Values, nil
}
