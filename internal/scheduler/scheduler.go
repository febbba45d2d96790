package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// DefaultInterval is how often the cache is refreshed when no interval is set.
const DefaultInterval = time.Hour

// Target is refreshed on every tick.
type Target interface {
	Refresh(ctx context.Context) error
}

// Refresher periodically refreshes a Target until stopped. The first run
// happens one interval after Start; failures are logged and the next tick
// tries again.
type Refresher struct {
	scheduler *gocron.Scheduler
	target    Target
	interval  time.Duration
	logger    *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates a new Refresher.
func New(interval time.Duration, target Target, logger *zap.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	return &Refresher{
		scheduler: s,
		target:    target,
		interval:  interval,
		logger:    logger.Named("refresher"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler. Runs
// use a context derived from ctx that is cancelled by Stop.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return errors.New("refresher already started")
	}

	runCtx, cancel := context.WithCancel(ctx)

	_, err := r.scheduler.Every(r.interval).WaitForSchedule().Do(r.run, runCtx)
	if err != nil {
		cancel()
		return err
	}

	r.cancel = cancel
	r.scheduler.StartAsync()
	r.logger.Info("refresher started", zap.Duration("interval", r.interval))
	return nil
}

// Stop cancels any in-flight refresh and stops future runs. It is safe to
// call more than once.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if r.scheduler.IsRunning() {
		r.scheduler.Stop()
		r.logger.Info("refresher stopped")
	}
}

func (r *Refresher) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	r.logger.Debug("running refresh")
	if err := r.target.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			r.logger.Info("refresh abandoned on shutdown", zap.Error(err))
			return
		}
		r.logger.Error("refresh failed; keeping previous snapshot", zap.Error(err))
		return
	}
	r.logger.Debug("refresh completed")
}
