package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shoppingai/backend/internal/domain"
	"github.com/shoppingai/backend/internal/infrastructure/metrics"
)

// Defaults applied when the corresponding Config field is zero
const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4"
	DefaultTemperature = 0.7
	DefaultTimeout     = 60 * time.Second
)

// Config holds chat-completion client settings
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
	// RequestsPerMinute caps outbound calls; zero disables the limiter
	RequestsPerMinute int
}

// Client sends single-shot chat-completion requests. It never retries.
type Client struct {
	api         *goopenai.Client
	model       string
	temperature float32
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new chat-completion client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	apiConfig := goopenai.DefaultConfig(cfg.APIKey)
	apiConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	apiConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		// rate.Limit is requests per second
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), cfg.RequestsPerMinute)
	}

	return &Client{
		api:         goopenai.NewClientWithConfig(apiConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		rateLimiter: limiter,
		logger:      logger.Named("openai"),
	}
}

// Complete sends the system and user messages and returns the trimmed content
// of the first choice
func (c *Client) Complete(ctx context.Context, prompt domain.Prompt) (string, error) {
	if c.rateLimiter != nil {
		if !c.rateLimiter.Allow() {
			metrics.CompletionRequestsTotal.WithLabelValues("rate_limited").Inc()
			return "", fmt.Errorf("%w: %w", domain.ErrRecommendationTransport, domain.ErrRateLimited)
		}
	}

	req := goopenai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt.User},
		},
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		err = classifyError(ctx, err)
		metrics.CompletionRequestsTotal.WithLabelValues(statusLabel(err)).Inc()
		c.logger.Warn("chat completion failed",
			zap.String("model", c.model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", err
	}

	content, err := firstContent(resp)
	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(statusLabel(err)).Inc()
		c.logger.Warn("chat completion returned no usable content",
			zap.String("model", c.model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", err
	}
	metrics.CompletionRequestsTotal.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()

	c.logger.Debug("chat completion succeeded",
		zap.String("model", c.model),
		zap.Int("contentLength", len(content)),
		zap.Duration("elapsed", time.Since(start)))

	return content, nil
}

func firstContent(resp goopenai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", domain.ErrRecommendationEnvelope)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty message content", domain.ErrRecommendationEnvelope)
	}
	return content, nil
}

// classifyError maps go-openai and transport errors onto the domain taxonomy
func classifyError(ctx context.Context, err error) error {
	// Only the caller's context counts as cancellation; a client timeout is a transport failure
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %v", domain.ErrRecommendationCanceled, err)
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &StatusError{StatusCode: reqErr.HTTPStatusCode, Message: fmt.Sprint(reqErr.Err)}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", domain.ErrRecommendationTransport, err)
	}

	// Anything else failed while decoding a 2xx body
	return fmt.Errorf("%w: %v", domain.ErrRecommendationEnvelope, err)
}

// StatusError is a non-2xx answer from the completion API
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", domain.ErrRecommendationTransport, e.StatusCode, e.Message)
}

// Is lets errors.Is match the transport sentinel, and the rate-limit sentinel for 429s
func (e *StatusError) Is(target error) bool {
	if target == domain.ErrRecommendationTransport {
		return true
	}
	return target == domain.ErrRateLimited && e.StatusCode == http.StatusTooManyRequests
}

func statusLabel(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return strconv.Itoa(statusErr.StatusCode)
	}
	if errors.Is(err, domain.ErrRecommendationEnvelope) {
		return "envelope"
	}
	return "error"
}
