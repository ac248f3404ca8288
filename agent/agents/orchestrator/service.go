// Package orchestrator runs the per-message pipeline behind a fixed-size
// concurrency gate. One call to Ask is one full round: validate, recall
// history, route, dispatch, persist, reply.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"

	contractx "github.com/tasia-assistant/tasia/agent/contract"
	nodesx "github.com/tasia-assistant/tasia/agent/nodes"
	sessionx "github.com/tasia-assistant/tasia/agent/session"
	toolx "github.com/tasia-assistant/tasia/agent/tool"
	logx "github.com/tasia-assistant/tasia/pkg/logger"
)

const defaultConcurrency = 20

type Config struct {
	Concurrency int `envconfig:"CONCURRENCY" default:"20"`
}

type Orchestrator struct {
	runner compose.Runnable[nodesx.GraphInput, nodesx.GraphOutput]
	gate   chan struct{}
	nowFn  func() time.Time
	logger zerolog.Logger
}

type Option func(*options)

type options struct {
	nowFn  func() time.Time
	logger *zerolog.Logger
}

// WithNowFunc overrides the clock, for tests.
func WithNowFunc(fn func() time.Time) Option {
	return func(o *options) {
		if fn != nil {
			o.nowFn = fn
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

func New(
	ctx context.Context,
	cfg Config,
	store sessionx.Store,
	registry *toolx.Registry,
	responder contractx.Responder,
	archive *sessionx.TranscriptArchive,
	opts ...Option,
) (*Orchestrator, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: session store is required", contractx.ErrValidation)
	}
	if registry == nil {
		return nil, fmt.Errorf("%w: capability registry is required", contractx.ErrValidation)
	}
	if responder == nil {
		return nil, fmt.Errorf("%w: responder is required", contractx.ErrValidation)
	}

	o := options{nowFn: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	logger := logx.Component("orchestrator")
	if o.logger != nil {
		logger = *o.logger
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	runner, err := compilePipelineGraph(ctx, store, registry, responder, archive, o.nowFn, logger)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		runner: runner,
		gate:   make(chan struct{}, concurrency),
		nowFn:  o.nowFn,
		logger: logger,
	}, nil
}

// Ask processes one user message and returns the reply. Blank input is a
// no-op that touches neither the gate nor the session. On failure the session
// history is left untouched and the error carries the taxonomy sentinel.
func (s *Orchestrator) Ask(ctx context.Context, sessionID, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	select {
	case s.gate <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-s.gate }()

	out, err := s.runner.Invoke(ctx, nodesx.GraphInput{SessionID: sessionID, Text: text})
	if err != nil {
		s.logger.Error().
			Str("session_id", sessionID).
			Err(err).
			Msg("pipeline invocation failed")
		return "", err
	}
	return out.Reply, nil
}
