// Package gateway exposes the inbound HTTP surface: the Telegram webhook and
// a health probe. It owns transport concerns only; conversation semantics
// live behind the Pipeline interface.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	logx "github.com/tasia-assistant/tasia/pkg/logger"
)

type Config struct {
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"PORT" default:"8003"`
	Concurrency     int           `envconfig:"CONCURRENCY" default:"20"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" split_words:"true" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" split_words:"true" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"10s"`
}

// Pipeline is the conversation entry point the webhook drives.
type Pipeline interface {
	Ask(ctx context.Context, sessionID, text string) (string, error)
}

// Sender delivers replies back to the chat platform.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type Server struct {
	cfg        Config
	httpServer *http.Server
	handler    *WebhookHandler
	ready      atomic.Bool
	logger     zerolog.Logger
}

func NewServer(cfg Config, pipeline Pipeline, sender Sender) (*Server, error) {
	if pipeline == nil {
		return nil, errors.New("gateway: pipeline is required")
	}
	if sender == nil {
		return nil, errors.New("gateway: sender is required")
	}

	logger := logx.Component("gateway")
	srv := &Server{
		cfg:     cfg,
		handler: NewWebhookHandler(pipeline, sender, cfg.Concurrency, logger),
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /telegram/webhook", srv.handler.Handle)
	mux.HandleFunc("GET /health", srv.handleHealth)

	srv.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return srv, nil
}

// Run serves until ctx is canceled, then drains in-flight requests within the
// shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	s.ready.Store(true)

	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("gateway listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.ready.Store(false)
		if err != nil {
			return fmt.Errorf("gateway serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.ready.Store(false)
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("gateway shutdown: %w", err)
	}
	s.logger.Info().Msg("gateway stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
