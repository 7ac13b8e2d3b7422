// Package schedule runs background maintenance jobs on cron specs.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mdesign/internal/metrics"
)

type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler takes five-field cron specs. A run that is still going when its
// next tick fires makes that tick a no-op.
type Scheduler struct {
	cron *cron.Cron

	mu      sync.Mutex
	entries map[string]cron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
}

func New() *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &Scheduler{
		cron:    cron.New(cron.WithParser(parser)),
		entries: make(map[string]cron.EntryID),
		ctx:     context.Background(),
	}
}

func (s *Scheduler) Add(spec string, job Job) error {
	name := job.Name()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[name]; ok {
		return fmt.Errorf("job %s already scheduled", name)
	}
	id, err := s.cron.AddFunc(spec, s.guard(job))
	if err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}
	s.entries[name] = id
	logutil.GetLogger(context.Background()).Info("job scheduled", zap.String("job", name), zap.String("spec", spec))
	return nil
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Start begins firing jobs. Runs see a context derived from ctx that Stop
// cancels.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()
	s.cron.Start()
}

// Stop cancels in-flight runs and waits for them to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

func (s *Scheduler) guard(job Job) func() {
	var running atomic.Bool
	name := job.Name()
	return func() {
		ctx := s.runContext()
		logger := logutil.GetLogger(ctx).With(zap.String("job", name))
		if !running.CompareAndSwap(false, true) {
			metrics.IncrementJobRun(name, "skipped")
			logger.Info("job skipped, previous run still active")
			return
		}
		defer running.Store(false)

		start := time.Now()
		if err := job.Run(ctx); err != nil {
			metrics.IncrementJobRun(name, "error")
			logger.Error("job failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
			return
		}
		metrics.IncrementJobRun(name, "ok")
		logger.Debug("job finished", zap.Duration("duration", time.Since(start)))
	}
}
