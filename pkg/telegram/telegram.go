// Package telegram is the outbound Telegram Bot API client. Delivery runs
// over an unreliable channel: transient failures (429/5xx, connection errors)
// are retried with exponential backoff, permanent ones return a structured
// DeliveryError immediately.
package telegram

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
)

const maxAPIResponseBytes = 1 << 20

type Config struct {
	BotToken       string        `envconfig:"BOT_TOKEN" split_words:"true" required:"true"`
	BaseURL        string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.telegram.org"`
	Timeout        time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
	MaxAttempts    int           `envconfig:"MAX_ATTEMPTS" split_words:"true" default:"2"`
	RetryBaseDelay time.Duration `envconfig:"RETRY_BASE_DELAY" split_words:"true" default:"800ms"`
	MaxConns       int           `envconfig:"MAX_CONNS" split_words:"true" default:"50"`
	MaxIdleConns   int           `envconfig:"MAX_IDLE_CONNS" split_words:"true" default:"10"`
}

// DeliveryError reports a failed outbound delivery. Retryable marks the
// transient class (the client already exhausted its attempts by the time the
// error is returned).
type DeliveryError struct {
	Status    int
	Retryable bool
	Detail    string
}

func (e *DeliveryError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("telegram delivery failed: status=%d retryable=%t %s", e.Status, e.Retryable, e.Detail)
	}
	return fmt.Sprintf("telegram delivery failed: retryable=%t %s", e.Retryable, e.Detail)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSleepFunc replaces the backoff sleeper; tests record delays with it.
func WithSleepFunc(sleep func(ctx context.Context, d time.Duration) error) ClientOption {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("telegram base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid telegram base url: %w", err)
	}

	token := strings.TrimSpace(cfg.BotToken)
	if token == "" {
		return nil, errors.New("telegram bot token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 2
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = 800 * time.Millisecond
	}
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 50
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 10
	}

	client := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxConnsPerHost:     maxConns,
				MaxIdleConns:        maxIdle,
				MaxIdleConnsPerHost: maxIdle,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		sleep:       sleepWithContext,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

func MustNew(cfg Config, opts ...ClientOption) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// SendMessage delivers text to a chat, retrying the transient failure class
// with a doubling delay up to the attempt ceiling.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.post(ctx, "sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

func (c *Client) post(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	delay := c.baseDelay

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build telegram request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = &DeliveryError{Retryable: true, Detail: err.Error()}
			if attempt == c.maxAttempts {
				return lastErr
			}
			if err := c.sleep(ctx, delay); err != nil {
				return err
			}
			delay *= 2
			continue
		}

		status, detail, readErr := drainResponse(resp)
		if readErr != nil {
			return readErr
		}

		switch {
		case status == http.StatusOK:
			var parsed apiResponse
			if err := json.Unmarshal([]byte(detail), &parsed); err != nil {
				return fmt.Errorf("decode telegram response: %w", err)
			}
			if !parsed.OK {
				return &DeliveryError{Status: status, Detail: parsed.Description}
			}
			return nil
		case isRetryableStatus(status):
			lastErr = &DeliveryError{Status: status, Retryable: true, Detail: detail}
			if attempt == c.maxAttempts {
				return lastErr
			}
			if err := c.sleep(ctx, delay); err != nil {
				return err
			}
			delay *= 2
		default:
			return &DeliveryError{Status: status, Detail: detail}
		}
	}

	if lastErr != nil {
		return lastErr
	}
	return &DeliveryError{Detail: "unknown delivery failure"}
}

func drainResponse(resp *http.Response) (int, string, error) {
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxAPIResponseBytes))
	if err != nil {
		return 0, "", fmt.Errorf("read telegram response: %w", err)
	}
	return resp.StatusCode, string(raw), nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
