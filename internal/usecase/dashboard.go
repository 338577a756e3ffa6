package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"review-dashboard/internal/config"
	"review-dashboard/internal/domain"

	"github.com/sirupsen/logrus"
)

// Результаты обновления для наблюдателя
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

const fetchingMessage = "Fetching the latest data..."

// RefreshObserver получает итог каждого обновления дашборда.
type RefreshObserver interface {
	ObserveRefresh(result string, duration time.Duration, at time.Time)
}

// Option настраивает DashboardUseCase.
type Option func(*DashboardUseCase)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(uc *DashboardUseCase) {
		uc.now = now
	}
}

// WithObserver подключает наблюдателя за обновлениями.
func WithObserver(o RefreshObserver) Option {
	return func(uc *DashboardUseCase) {
		uc.observer = o
	}
}

// DashboardUseCase реализует рендерер дашборда поверх абстрактного представления.
type DashboardUseCase struct {
	settings  config.Dashboard
	view      domain.View
	provider  domain.MetricsProvider
	scheduler domain.Scheduler
	logger    *logrus.Logger
	observer  RefreshObserver
	now       func() time.Time

	mu         sync.Mutex
	task       domain.Task
	refreshing atomic.Bool
}

// NewDashboardUseCase создает новый экземпляр рендерера.
func NewDashboardUseCase(
	settings config.Dashboard,
	view domain.View,
	provider domain.MetricsProvider,
	scheduler domain.Scheduler,
	logger *logrus.Logger,
	opts ...Option,
) *DashboardUseCase {
	uc := &DashboardUseCase{
		settings:  settings,
		view:      view,
		provider:  provider,
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Initialize выполняет первую отрисовку и ставит периодическое обновление.
// Повторный вызов возвращает ErrAlreadyInitialized и второе расписание не создает.
func (uc *DashboardUseCase) Initialize(ctx context.Context) (domain.Task, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.task != nil {
		return nil, domain.ErrAlreadyInitialized
	}

	if err := uc.Refresh(ctx); err != nil {
		// Отсутствие точки монтирования - ошибка конфигурации, дальше работать нельзя
		if errors.Is(err, domain.ErrUnknownMount) {
			return nil, err
		}
		uc.logger.WithError(err).Warn("Initial dashboard load failed, keeping schedule")
	}

	task, err := uc.scheduler.Every(uc.settings.RefreshInterval, uc.tick)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule dashboard refresh: %w", err)
	}
	uc.task = task

	uc.logger.WithField("interval", uc.settings.RefreshInterval).Info("Dashboard refresh scheduled")
	return task, nil
}

// tick вызывается планировщиком. Ошибки логируются и дальше не уходят.
func (uc *DashboardUseCase) tick(ctx context.Context) {
	if err := uc.Refresh(ctx); err != nil {
		uc.logger.WithError(err).Warn("Scheduled dashboard refresh failed")
	}
}

// RenderSummary отрисовывает счетчики, индикатор тренда и оценку расходов.
func (uc *DashboardUseCase) RenderSummary(snapshot *domain.MetricsSnapshot) error {
	if snapshot == nil {
		return domain.ErrEmptySnapshot
	}
	return uc.view.Update(func(s domain.Surface) error {
		return paintSummary(s, snapshot, uc.settings.CostPerUser)
	})
}

// RenderRecentActivity заменяет таблицу последних ревью.
func (uc *DashboardUseCase) RenderRecentActivity(records []domain.ReviewRecord) error {
	return uc.view.Update(func(s domain.Surface) error {
		return paintActivity(s, records)
	})
}

// RenderCharts пересоздает график тренда и диаграмму исходов.
func (uc *DashboardUseCase) RenderCharts(snapshot *domain.MetricsSnapshot) error {
	if snapshot == nil {
		return domain.ErrEmptySnapshot
	}
	return uc.view.Update(func(s domain.Surface) error {
		return paintCharts(s, snapshot, uc.settings.MonthLabels)
	})
}

// Refresh запрашивает новый снапшот и перерисовывает дашборд целиком.
// При ошибке виджеты остаются в последнем успешном состоянии, баннер показывает ошибку.
// Пересекающиеся вызовы не выполняются: второй получает ErrRefreshInProgress.
func (uc *DashboardUseCase) Refresh(ctx context.Context) (err error) {
	if !uc.refreshing.CompareAndSwap(false, true) {
		uc.observe(ResultSkipped, 0)
		return domain.ErrRefreshInProgress
	}
	defer uc.refreshing.Store(false)

	start := uc.now()
	logEntry := uc.logger.WithFields(logrus.Fields{
		"operation": "refresh_dashboard",
		"repo":      uc.settings.RepoOwner + "/" + uc.settings.RepoName,
	})

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dashboard refresh panicked: %v", r)
			logEntry.WithField("panic", r).Error("Dashboard refresh panicked")
			uc.showError(logEntry, err)
		}

		result := ResultSuccess
		if err != nil {
			result = ResultError
		}
		uc.observe(result, uc.now().Sub(start))
	}()

	if err := uc.setBanner(domain.Banner{State: domain.BannerFetching, Message: fetchingMessage}); err != nil {
		logEntry.WithError(err).Error("Failed to update status banner")
		return err
	}

	snapshot, err := uc.provider.FetchSnapshot(ctx)
	if err == nil {
		err = snapshot.Validate(len(uc.settings.MonthLabels))
	}
	if err != nil {
		logEntry.WithError(err).Error("Failed to fetch metrics snapshot")
		uc.showError(logEntry, err)
		return err
	}

	updatedAt := uc.now()
	err = uc.view.Update(func(s domain.Surface) error {
		if err := paintSummary(s, snapshot, uc.settings.CostPerUser); err != nil {
			return err
		}
		if err := paintActivity(s, snapshot.RecentReviews); err != nil {
			return err
		}
		if err := paintCharts(s, snapshot, uc.settings.MonthLabels); err != nil {
			return err
		}
		return s.SetBanner(domain.Banner{State: domain.BannerSuccess, Message: uc.successMessage(updatedAt)})
	})
	if err != nil {
		logEntry.WithError(err).Error("Failed to paint dashboard")
		uc.showError(logEntry, err)
		return err
	}

	logEntry.WithFields(logrus.Fields{
		"total_reviews":  snapshot.TotalReviews,
		"recent_reviews": len(snapshot.RecentReviews),
	}).Info("Dashboard refreshed")
	return nil
}

func (uc *DashboardUseCase) successMessage(at time.Time) string {
	return fmt.Sprintf(
		"This dashboard displays metrics for reviews triggered by the central bot account %s. (Last updated: %s)",
		uc.settings.BotUsername, at.Format("15:04:05"),
	)
}

// ErrorMessage - текст баннера для ошибки обновления.
func ErrorMessage(err error) string {
	return "Failed to load data. " + err.Error()
}

func (uc *DashboardUseCase) showError(logEntry *logrus.Entry, cause error) {
	if err := uc.setBanner(domain.Banner{State: domain.BannerError, Message: ErrorMessage(cause)}); err != nil {
		logEntry.WithError(err).Error("Failed to update status banner")
	}
}

func (uc *DashboardUseCase) setBanner(b domain.Banner) error {
	return uc.view.Update(func(s domain.Surface) error {
		return s.SetBanner(b)
	})
}

func (uc *DashboardUseCase) observe(result string, d time.Duration) {
	if uc.observer != nil {
		uc.observer.ObserveRefresh(result, d, uc.now())
	}
}
