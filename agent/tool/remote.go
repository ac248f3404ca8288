package tool

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

	contractx "github.com/tasia-assistant/tasia/agent/contract"
)

const maxServiceResponseBytes = 2 << 20

// ServiceConfig points at one downstream capability service.
type ServiceConfig struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// RemoteService talks to a downstream capability over HTTP. The descriptor
// endpoint supplies the capability's name and description at startup; invoke
// carries structured arguments and returns text or a failure detail.
type RemoteService struct {
	baseURL     string
	httpClient  *http.Client
	name        string
	description string
}

type descriptorResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type invokeRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

type invokeResponse struct {
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

type ServiceOption func(*RemoteService)

func WithServiceHTTPClient(client *http.Client) ServiceOption {
	return func(s *RemoteService) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// Discover builds a RemoteService and resolves its descriptor. A failed
// descriptor fetch for a mandatory capability is a fatal startup condition
// for the caller.
func Discover(ctx context.Context, cfg ServiceConfig, opts ...ServiceOption) (*RemoteService, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("service url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid service url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	svc := &RemoteService{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}

	desc, err := svc.fetchDescriptor(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover capability at %s: %w", baseURL, err)
	}
	svc.name = strings.TrimSpace(desc.Name)
	svc.description = strings.TrimSpace(desc.Description)
	if svc.name == "" {
		return nil, fmt.Errorf("%w: descriptor at %s has no name", contractx.ErrValidation, baseURL)
	}

	return svc, nil
}

func (s *RemoteService) Name() string        { return s.name }
func (s *RemoteService) Description() string { return s.description }

func (s *RemoteService) fetchDescriptor(ctx context.Context) (*descriptorResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/descriptor", nil)
	if err != nil {
		return nil, fmt.Errorf("build descriptor request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch descriptor: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxServiceResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read descriptor response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("descriptor http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var desc descriptorResponse
	if err := json.Unmarshal(raw, &desc); err != nil {
		return nil, fmt.Errorf("decode descriptor: %w", err)
	}
	return &desc, nil
}

// Invoke posts the argument map to the service's invoke endpoint. A non-empty
// error field in the response is a downstream failure, not user-facing text.
func (s *RemoteService) Invoke(ctx context.Context, args map[string]any) (string, error) {
	body, err := json.Marshal(invokeRequest{Name: s.name, Arguments: args})
	if err != nil {
		return "", fmt.Errorf("marshal invoke request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/invoke", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build invoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", contractx.ErrCapabilityInvoke, s.name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxServiceResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read invoke response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s: http status=%d body=%s", contractx.ErrCapabilityInvoke, s.name, resp.StatusCode, string(raw))
	}

	var parsed invokeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode invoke response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("%w: %s: %s", contractx.ErrCapabilityInvoke, s.name, parsed.Error)
	}
	return parsed.Result, nil
}
