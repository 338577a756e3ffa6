package mocks

import (
	"context"

	"review-dashboard/internal/domain"

	"github.com/stretchr/testify/mock"
)

// DashboardUseCase - mock для domain.DashboardUseCase.
type DashboardUseCase struct {
	mock.Mock
}

func (m *DashboardUseCase) Initialize(ctx context.Context) (domain.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *DashboardUseCase) RenderSummary(snapshot *domain.MetricsSnapshot) error {
	args := m.Called(snapshot)
	return args.Error(0)
}

func (m *DashboardUseCase) RenderRecentActivity(records []domain.ReviewRecord) error {
	args := m.Called(records)
	return args.Error(0)
}

func (m *DashboardUseCase) RenderCharts(snapshot *domain.MetricsSnapshot) error {
	args := m.Called(snapshot)
	return args.Error(0)
}

func (m *DashboardUseCase) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
