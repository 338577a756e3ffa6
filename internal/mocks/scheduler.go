package mocks

import (
	"context"
	"sync"
	"time"

	"review-dashboard/internal/domain"
)

// Scheduler запоминает зарегистрированные задачи; запуск выполняется вручную через Tick.
type Scheduler struct {
	mu    sync.Mutex
	Tasks []*Task
}

func (s *Scheduler) Every(interval time.Duration, fn func(ctx context.Context)) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &Task{Interval: interval, fn: fn}
	s.Tasks = append(s.Tasks, t)
	return t, nil
}

// Task - детерминированный дескриптор задачи.
type Task struct {
	Interval time.Duration
	fn       func(ctx context.Context)

	mu      sync.Mutex
	stopped bool
}

// Tick синхронно выполняет задачу, если расписание не остановлено.
func (t *Task) Tick(ctx context.Context) {
	if t.Stopped() {
		return
	}
	t.fn(ctx)
}

func (t *Task) RunNow() error {
	t.Tick(context.Background())
	return nil
}

func (t *Task) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	return nil
}

func (t *Task) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
