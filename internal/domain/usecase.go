package domain

import (
	"context"
	"time"
)

// Task - дескриптор периодической задачи.
type Task interface {
	// RunNow запускает задачу вне расписания.
	RunNow() error
	// Stop отменяет расписание. Повторный вызов безопасен.
	Stop() error
}

// Scheduler запускает fn с фиксированным интервалом.
type Scheduler interface {
	Every(interval time.Duration, fn func(ctx context.Context)) (Task, error)
}

// DashboardUseCase определяет операции рендерера дашборда.
type DashboardUseCase interface {
	Initialize(ctx context.Context) (Task, error)
	RenderSummary(snapshot *MetricsSnapshot) error
	RenderRecentActivity(records []ReviewRecord) error
	RenderCharts(snapshot *MetricsSnapshot) error
	Refresh(ctx context.Context) error
}
