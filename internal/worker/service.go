package worker

import (
	"context"
	"errors"
	"time"

	"github.com/mazraa-market/internal/config"
	"github.com/mazraa-market/internal/logger"
	"github.com/mazraa-market/internal/queue"

	"github.com/hibiken/asynq"
)

// Service runs the asynq consumer plus the periodic cart reconcile sweep.
type Service struct {
	name              string
	server            *asynq.Server
	mux               *asynq.ServeMux
	consumer          *Consumer
	reconcileInterval time.Duration
}

// NewService creates the queue worker service.
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	interval := time.Duration(cfg.Cart.ReconcileIntervalMinutes) * time.Minute
	return &Service{
		name:              "worker",
		server:            server,
		mux:               mux,
		consumer:          consumer,
		reconcileInterval: interval,
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the consumer until the server shuts down.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.CartService != nil && s.reconcileInterval > 0 {
		go s.runCartReconcileLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the consumer down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runCartReconcileLoop periodically refreshes every persisted cart against
// the catalog. A failed sweep is logged and retried on the next tick; cart
// contents are never touched on catalog failure.
func (s *Service) runCartReconcileLoop(ctx context.Context) {
	runOnce := func() {
		if err := s.consumer.CartService.ReconcileAll(ctx); err != nil {
			logger.Warnw("worker_cart_reconcile_sweep_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(s.reconcileInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
