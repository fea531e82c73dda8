// Package scheduler triggers the news and gift pipelines at fixed
// wall-clock times in a fixed timezone.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Ivan1990Nik/telegram-it-bot/internal/logger"
)

// Scheduler wraps robfig/cron with a per-job overlap guard: if a trigger
// fires while the previous run of the same job is still in flight, the new
// trigger is skipped instead of racing on shared state.
type Scheduler struct {
	cron *cron.Cron
}

func New(timezone string) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
	}, nil
}

// AddJob registers fn under a standard 5-field cron spec.
func (s *Scheduler) AddJob(spec, name string, fn func()) error {
	if _, err := s.cron.AddFunc(spec, Guarded(name, fn)); err != nil {
		return fmt.Errorf("add cron job %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Guarded wraps fn so concurrent triggers are skipped, not queued.
func Guarded(name string, fn func()) func() {
	var mu sync.Mutex
	return func() {
		if !mu.TryLock() {
			logger.Warn("⏭ предыдущий запуск ещё выполняется, пропускаем", "job", name)
			return
		}
		defer mu.Unlock()
		fn()
	}
}
