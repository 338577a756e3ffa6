package mocks

import (
	"context"

	"review-dashboard/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MetricsProvider - mock для domain.MetricsProvider.
type MetricsProvider struct {
	mock.Mock
}

func (m *MetricsProvider) FetchSnapshot(ctx context.Context) (*domain.MetricsSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MetricsSnapshot), args.Error(1)
}

// SnapshotRepository - mock для domain.SnapshotRepository.
type SnapshotRepository struct {
	MetricsProvider
}

func (m *SnapshotRepository) Publish(ctx context.Context, snapshot *domain.MetricsSnapshot) (int64, error) {
	args := m.Called(ctx, snapshot)
	return args.Get(0).(int64), args.Error(1)
}
