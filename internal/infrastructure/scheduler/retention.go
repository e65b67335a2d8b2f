// Package scheduler runs periodic background maintenance for the labeling
// subsystem, currently the artifact retention sweep.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/marketops/backend/internal/infrastructure/labeling"
	"go.uber.org/zap"
)

// ErrSchedulerNotRunning is returned when triggering a sweep on a stopped scheduler
var ErrSchedulerNotRunning = errors.New("scheduler is not running")

// RetentionConfig holds configuration for the artifact retention scheduler
type RetentionConfig struct {
	// RetentionDays is how long artifacts are kept. Zero disables the sweep.
	RetentionDays int
	// SweepInterval is how often the sweep runs
	SweepInterval time.Duration
	// SweepTimeout bounds a single sweep
	SweepTimeout time.Duration
}

// DefaultRetentionConfig returns the default retention configuration
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		RetentionDays: 90,
		SweepInterval: 12 * time.Hour,
		SweepTimeout:  10 * time.Minute,
	}
}

// RetentionScheduler periodically deletes label artifacts older than the
// configured retention window.
type RetentionScheduler struct {
	config  RetentionConfig
	storage labeling.ArtifactStorage
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt    *time.Time
	lastDeleted  int
	totalDeleted int
}

// NewRetentionScheduler creates a new artifact retention scheduler
func NewRetentionScheduler(config RetentionConfig, storage labeling.ArtifactStorage, logger *zap.Logger) *RetentionScheduler {
	if config.SweepInterval <= 0 {
		config.SweepInterval = 12 * time.Hour
	}
	if config.SweepTimeout <= 0 {
		config.SweepTimeout = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetentionScheduler{
		config:  config,
		storage: storage,
		logger:  logger,
	}
}

// Start starts the retention scheduler. A zero retention window makes Start a
// no-op so operators can keep artifacts forever.
func (s *RetentionScheduler) Start(ctx context.Context) error {
	if s.config.RetentionDays <= 0 {
		s.logger.Info("Artifact retention sweep disabled")
		return nil
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.sweepLoop(ctx)

	s.logger.Info("Artifact retention scheduler started",
		zap.Int("retention_days", s.config.RetentionDays),
		zap.Duration("sweep_interval", s.config.SweepInterval),
	)
	return nil
}

// Stop stops the retention scheduler and waits for an in-flight sweep
func (s *RetentionScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Artifact retention scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Artifact retention scheduler stop timed out")
		return ctx.Err()
	}
}

// TriggerSweep runs a sweep immediately, outside the regular interval
func (s *RetentionScheduler) TriggerSweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()
	if !running {
		return 0, ErrSchedulerNotRunning
	}
	return s.sweep(ctx)
}

// GetStatus returns the current scheduler state for diagnostics
func (s *RetentionScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"is_running":     s.isRunning,
		"retention_days": s.config.RetentionDays,
		"sweep_interval": s.config.SweepInterval.String(),
		"last_run_at":    s.lastRunAt,
		"last_deleted":   s.lastDeleted,
		"total_deleted":  s.totalDeleted,
	}
}

func (s *RetentionScheduler) sweepLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	// One sweep at startup so a long-stopped instance catches up
	if _, err := s.sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("Artifact retention sweep failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("Artifact retention sweep failed", zap.Error(err))
			}
		}
	}
}

func (s *RetentionScheduler) sweep(ctx context.Context) (int, error) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	age := time.Duration(s.config.RetentionDays) * 24 * time.Hour
	deleted, err := s.storage.CleanupOlderThan(sweepCtx, age)

	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.lastDeleted = deleted
	s.totalDeleted += deleted
	s.mu.Unlock()

	if err != nil {
		return deleted, err
	}

	s.logger.Info("Artifact retention sweep completed",
		zap.Int("deleted", deleted),
		zap.Int("retention_days", s.config.RetentionDays),
	)
	return deleted, nil
}
