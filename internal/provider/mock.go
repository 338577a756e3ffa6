package provider

import (
	"context"

	"review-dashboard/internal/domain"
)

// Mock отдает фиксированный снапшот для демонстрации дашборда без внешних источников.
type Mock struct {
	snapshot domain.MetricsSnapshot
}

// NewMock создает Mock с демонстрационными данными; bot подставляется ревьюером во все записи.
func NewMock(bot string) *Mock {
	return &Mock{snapshot: SampleSnapshot(bot)}
}

// NewMockFrom создает Mock, отдающий копию переданного снапшота.
func NewMockFrom(snapshot domain.MetricsSnapshot) *Mock {
	return &Mock{snapshot: cloneSnapshot(snapshot)}
}

// WithMonths приводит помесячный ряд к months значениям: лишние старые месяцы отбрасываются,
// недостающие дополняются нулями слева. Последнее значение всегда соответствует MonthlyReviews.
func (m *Mock) WithMonths(months int) *Mock {
	if months < 0 {
		months = 0
	}
	series := m.snapshot.ReviewsByMonth
	shaped := make([]int64, months)
	if len(series) >= months {
		copy(shaped, series[len(series)-months:])
	} else {
		copy(shaped[months-len(series):], series)
	}
	m.snapshot.ReviewsByMonth = shaped
	return m
}

// FetchSnapshot возвращает копию снапшота, чтобы вызывающий не мог изменить исходные данные.
func (m *Mock) FetchSnapshot(ctx context.Context) (*domain.MetricsSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewProviderError(err.Error(), err)
	}
	s := cloneSnapshot(m.snapshot)
	return &s, nil
}

// SampleSnapshot - демонстрационные метрики за семь месяцев.
func SampleSnapshot(bot string) domain.MetricsSnapshot {
	return domain.MetricsSnapshot{
		TotalReviews:         237,
		MonthlyReviews:       42,
		PreviousMonthReviews: 38,
		UniqueAuthors:        16,
		AvgReviewTime:        4.2,
		ReviewsByMonth:       []int64{18, 25, 30, 32, 35, 38, 42},
		Outcomes: domain.OutcomeCounts{
			Approved:     154,
			NeedsChanges: 68,
			NeedsReview:  15,
		},
		RecentReviews: []domain.ReviewRecord{
			{ID: "#123", Title: "Add new feature", Author: "developer1", ReviewerIdentity: bot, Date: "2025-04-20", Outcome: domain.OutcomeApproved},
			{ID: "#122", Title: "Fix critical bug", Author: "developer2", ReviewerIdentity: bot, Date: "2025-04-19", Outcome: domain.OutcomeApproved},
			{ID: "#121", Title: "Update documentation", Author: "developer3", ReviewerIdentity: bot, Date: "2025-04-18", Outcome: domain.OutcomeNeedsChanges},
			{ID: "#120", Title: "Refactor auth module", Author: "developer4", ReviewerIdentity: bot, Date: "2025-04-17", Outcome: domain.OutcomeNeedsChanges},
			{ID: "#119", Title: "Add unit tests", Author: "developer1", ReviewerIdentity: bot, Date: "2025-04-16", Outcome: domain.OutcomeApproved},
		},
	}
}

func cloneSnapshot(s domain.MetricsSnapshot) domain.MetricsSnapshot {
	s.ReviewsByMonth = append([]int64(nil), s.ReviewsByMonth...)
	s.RecentReviews = append([]domain.ReviewRecord(nil), s.RecentReviews...)
	return s
}
