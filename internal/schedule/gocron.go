package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"review-dashboard/internal/domain"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// Gocron реализует domain.Scheduler поверх gocron.
type Gocron struct {
	timeout time.Duration
	logger  *logrus.Logger
}

// NewGocron создает планировщик; timeout ограничивает один запуск задачи (0 - без ограничения).
func NewGocron(timeout time.Duration, logger *logrus.Logger) *Gocron {
	return &Gocron{timeout: timeout, logger: logger}
}

// Every ставит fn на запуск каждые interval. Пока предыдущий запуск не завершен,
// следующий пропускается.
func (g *Gocron) Every(interval time.Duration, fn func(ctx context.Context)) (domain.Task, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &task{scheduler: scheduler, cancel: cancel}

	job, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			g.run(ctx, fn)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		cancel()
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("failed to schedule job: %w", err)
	}
	t.job = job

	scheduler.Start()
	g.logger.WithFields(logrus.Fields{
		"job_id":   job.ID().String(),
		"interval": interval,
	}).Info("Periodic job started")

	return t, nil
}

func (g *Gocron) run(parent context.Context, fn func(ctx context.Context)) {
	ctx := parent
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, g.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			g.logger.WithField("panic", r).Error("Periodic job panicked")
		}
	}()
	fn(ctx)
}

type task struct {
	scheduler gocron.Scheduler
	job       gocron.Job
	cancel    context.CancelFunc

	once sync.Once
	err  error
}

// RunNow запускает задачу немедленно, не сдвигая расписание.
func (t *task) RunNow() error {
	return t.job.RunNow()
}

// Stop отменяет текущий запуск и останавливает планировщик.
func (t *task) Stop() error {
	t.once.Do(func() {
		t.cancel()
		if err := t.scheduler.Shutdown(); err != nil {
			t.err = fmt.Errorf("failed to stop scheduler: %w", err)
		}
	})
	return t.err
}
