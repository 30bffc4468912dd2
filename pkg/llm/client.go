package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	llmDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "defeval",
		Subsystem: "llm",
		Name:      "completion_duration_seconds",
		Help:      "Duration of LLM completion requests",
	}, []string{"model"})

	llmFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "defeval",
		Subsystem: "llm",
		Name:      "completion_failures_total",
		Help:      "Number of failed LLM completion requests",
	}, []string{"model"})

	llmRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "defeval",
		Subsystem: "llm",
		Name:      "completion_retries_total",
		Help:      "Number of retried LLM completion attempts",
	}, []string{"model"})
)

// ErrUnavailable marks a completion that failed because the upstream LLM
// service could not be reached or answered with a non-success status.
var ErrUnavailable = errors.New("llm service unavailable")

// ErrEmptyCompletion marks a successful HTTP exchange whose reply carried no
// usable assistant message.
var ErrEmptyCompletion = errors.New("llm returned an empty completion")

// Config defines configuration options for the completion client.
type Config struct {
	BaseURL        string
	APIKey         string
	Model          string
	MaxTokens      int
	Temperature    float32
	TopP           float32
	RequestTimeout time.Duration
	MaxAttempts    int
	Logger         zerolog.Logger
}

// Client issues chat completion requests against a configured endpoint.
type Client struct {
	client *openai.Client
	cfg    Config
	tracer trace.Tracer
	logger zerolog.Logger
}

// New builds a completion client. The API key is required.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2048
	}

	if cfg.Temperature == 0 {
		cfg.Temperature = 0.25
	}

	if cfg.TopP == 0 {
		cfg.TopP = 0.9
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}

	tracer := otel.Tracer("github.com/hqnguyen/defense-eval-api/pkg/llm")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	client := openai.NewClientWithConfig(config)

	return &Client{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Complete sends one system+user message pair and returns the assistant text.
// Transport failures and 429/5xx statuses are retried with jittered backoff;
// other failures surface immediately wrapped in ErrUnavailable.
func (c *Client) Complete(parent context.Context, system, user string) (string, error) {
	ctx, span := c.tracer.Start(parent, "llm.complete", trace.WithAttributes(
		attribute.String("model", c.cfg.Model),
	))
	defer span.End()

	request := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		TopP:        c.cfg.TopP,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	start := time.Now()
	content, err := c.completeWithRetry(ctx, request)
	llmDuration.WithLabelValues(c.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		llmFailures.WithLabelValues(c.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return content, nil
}

func (c *Client) completeWithRetry(ctx context.Context, request openai.ChatCompletionRequest) (string, error) {
	backoff := 250 * time.Millisecond
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
		resp, err := c.client.CreateChatCompletion(attemptCtx, request)
		cancel()

		if err == nil {
			if len(resp.Choices) == 0 {
				return "", ErrEmptyCompletion
			}
			content := strings.TrimSpace(resp.Choices[0].Message.Content)
			if content == "" {
				return "", ErrEmptyCompletion
			}
			return content, nil
		}

		lastErr = err
		if !isRetryable(err) || errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			break
		}

		if attempt < c.cfg.MaxAttempts {
			llmRetries.WithLabelValues(c.cfg.Model).Inc()
			c.logger.Warn().Err(err).Int("attempt", attempt).Msg("llm completion attempt failed, retrying")

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff + time.Duration(rand.Int63n(int64(backoff)))):
			}
			backoff *= 2
		}
	}

	var apiErr *openai.APIError
	if errors.As(lastErr, &apiErr) {
		return "", fmt.Errorf("%w: status %d: %v", ErrUnavailable, apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(lastErr, &reqErr) {
		return "", fmt.Errorf("%w: status %d: %v", ErrUnavailable, reqErr.HTTPStatusCode, reqErr.Err)
	}

	return "", fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

// isRetryable reports whether the attempt hit a transient condition. API
// errors other than 429 and 5xx indicate a request problem and never recover
// on retry.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 429 || reqErr.HTTPStatusCode >= 500
	}

	return true
}
