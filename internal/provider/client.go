// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for provider API access.
const (
	// DefaultGeminiURL is the base URL for the Gemini API.
	DefaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultOpenAIURL is the base URL for the OpenAI API.
	DefaultOpenAIURL = "https://api.openai.com/v1"

	// DefaultDeepSeekURL is the base URL for the DeepSeek API.
	DefaultDeepSeekURL = "https://api.deepseek.com"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the default number of attempts for transient errors.
	DefaultMaxRetries = 3

	// DefaultRequestsPerMinute caps outbound request rate.
	DefaultRequestsPerMinute = 30

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// Config holds client settings. Zero values take defaults.
type Config struct {
	GeminiBaseURL   string
	OpenAIBaseURL   string
	DeepSeekBaseURL string

	Timeout           time.Duration
	MaxRetries        int
	RequestsPerMinute int
}

// DefaultConfig returns a Config with all defaults filled in.
func DefaultConfig() Config {
	return Config{
		GeminiBaseURL:     DefaultGeminiURL,
		OpenAIBaseURL:     DefaultOpenAIURL,
		DeepSeekBaseURL:   DefaultDeepSeekURL,
		Timeout:           DefaultTimeout,
		MaxRetries:        DefaultMaxRetries,
		RequestsPerMinute: DefaultRequestsPerMinute,
	}
}

// fill replaces zero values with defaults.
func (c Config) fill() Config {
	def := DefaultConfig()
	if c.GeminiBaseURL == "" {
		c.GeminiBaseURL = def.GeminiBaseURL
	}
	if c.OpenAIBaseURL == "" {
		c.OpenAIBaseURL = def.OpenAIBaseURL
	}
	if c.DeepSeekBaseURL == "" {
		c.DeepSeekBaseURL = def.DeepSeekBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = def.RequestsPerMinute
	}
	return c
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// chatMessage is one turn in the OpenAI chat completions dialect.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the OpenAI chat completions request body. DeepSeek
// accepts the same shape.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatResponse is the OpenAI chat completions response body.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// geminiPart, geminiContent, geminiRequest and geminiResponse model the
// generateContent dialect.
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// apiErrorResponse is the error envelope both dialects share.
type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the cloud provider APIs. One Client serves all three
// families; the family argument to Generate selects the dialect and
// base URL per call.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a provider client. Zero-valued Config fields take
// defaults.
func NewClient(cfg Config) *Client {
	cfg = cfg.fill()
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		limiter: rate.NewLimiter(
			rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)),
			4,
		),
	}
}

// Generate sends a single-turn prompt and returns the model's text reply.
//
// Transient failures (rate limiting, 5xx) are retried with exponential
// backoff up to MaxRetries attempts; everything else fails immediately
// with a classified *Error. Context cancellation aborts both the request
// and any backoff wait.
func (c *Client) Generate(ctx context.Context, family Family, modelID, apiKey, prompt string) (string, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return "", ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}

		reply, err := c.doGenerate(ctx, family, modelID, apiKey, prompt)
		if err != nil {
			if isRetryable(err) {
				lastErr = err
				continue
			}
			return "", err
		}
		return reply, nil
	}
	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doGenerate performs one request in the family's dialect.
func (c *Client) doGenerate(ctx context.Context, family Family, modelID, apiKey, prompt string) (string, error) {
	var (
		endpoint string
		reqBody  any
		bearer   string
	)

	switch family {
	case FamilyGemini:
		endpoint = fmt.Sprintf("%s/models/%s:generateContent?key=%s",
			strings.TrimSuffix(c.cfg.GeminiBaseURL, "/"), modelID, url.QueryEscape(apiKey))
		reqBody = geminiRequest{
			Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		}
	case FamilyDeepSeek:
		endpoint = strings.TrimSuffix(c.cfg.DeepSeekBaseURL, "/") + "/chat/completions"
		reqBody = chatRequest{
			Model:    modelID,
			Messages: []chatMessage{{Role: "user", Content: prompt}},
		}
		bearer = apiKey
	default:
		endpoint = strings.TrimSuffix(c.cfg.OpenAIBaseURL, "/") + "/chat/completions"
		reqBody = chatRequest{
			Model:    modelID,
			Messages: []chatMessage{{Role: "user", Content: prompt}},
		}
		bearer = apiKey
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "arsgpt/0.1.0")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", &Error{Kind: ErrKindNetwork, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyResponse(resp.StatusCode, body)
	}

	return extractReply(family, body)
}

// extractReply parses the dialect-specific response body.
func extractReply(family Family, body []byte) (string, error) {
	if family == FamilyGemini {
		var gr geminiResponse
		if err := json.Unmarshal(body, &gr); err != nil {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}
		if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
			return "", &Error{Kind: ErrKindUnknown, Message: "empty response"}
		}
		var sb strings.Builder
		for _, part := range gr.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
		return sb.String(), nil
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", &Error{Kind: ErrKindUnknown, Message: "empty response"}
	}
	return cr.Choices[0].Message.Content, nil
}

// readResponse reads the response body with a size limit.
//
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, &Error{Kind: ErrKindNetwork, Message: "failed to read response", Cause: err}
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, &Error{Kind: ErrKindUnknown,
			Message: fmt.Sprintf("response exceeded maximum size of %d bytes", MaxResponseSize)}
	}
	return body, nil
}

// classifyResponse maps an HTTP error status to a typed *Error. The
// provider's own message is carried through when the error envelope
// parses.
func classifyResponse(statusCode int, body []byte) error {
	message := strings.TrimSpace(string(body))
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
	}

	kind := ErrKindUnknown
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		kind = ErrKindAuth
	case statusCode == http.StatusTooManyRequests:
		kind = ErrKindRateLimit
	case statusCode >= 400 && statusCode < 500:
		kind = ErrKindRejected
	}

	return &Error{Kind: kind, Status: statusCode, Message: message}
}

// isRetryable reports whether the error is worth another attempt.
func isRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Status >= 500 && pe.Status < 600
	}
	return false
}

// backoff returns the delay before the given retry attempt.
func backoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}
