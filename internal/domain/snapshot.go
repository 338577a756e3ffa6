package domain

import (
	"context"
	"fmt"
)

// Outcome классифицирует результат ревью.
type Outcome string

const (
	OutcomeApproved     Outcome = "approved"
	OutcomeNeedsChanges Outcome = "needs-changes"
	OutcomeNeedsReview  Outcome = "needs-review"
)

// Valid сообщает, входит ли значение в фиксированный набор исходов.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeApproved, OutcomeNeedsChanges, OutcomeNeedsReview:
		return true
	}
	return false
}

// OutcomeCounts содержит количество ревью по каждому исходу.
type OutcomeCounts struct {
	Approved     int64 `json:"approved"`
	NeedsChanges int64 `json:"needsChanges"`
	NeedsReview  int64 `json:"needsReview"`
}

// ReviewRecord представляет одну запись в ленте последних ревью.
type ReviewRecord struct {
	ID               string  `json:"pr"`
	Title            string  `json:"title"`
	Author           string  `json:"author"`
	ReviewerIdentity string  `json:"bot"`
	Date             string  `json:"date"`
	Outcome          Outcome `json:"outcome"`
}

// MetricsSnapshot представляет неизменяемый набор метрик для одного прохода отрисовки.
type MetricsSnapshot struct {
	TotalReviews         int64          `json:"totalReviews"`
	MonthlyReviews       int64          `json:"monthlyReviews"`
	PreviousMonthReviews int64          `json:"previousMonthReviews"`
	UniqueAuthors        int64          `json:"uniqueAuthors"`
	AvgReviewTime        float64        `json:"avgReviewTime"`
	ReviewsByMonth       []int64        `json:"reviewsByMonth"`
	Outcomes             OutcomeCounts  `json:"outcomes"`
	RecentReviews        []ReviewRecord `json:"recentReviews"`
}

// Validate проверяет снапшот перед отрисовкой.
// months - количество подписей оси X, с которым должна совпадать длина ReviewsByMonth.
func (s *MetricsSnapshot) Validate(months int) error {
	if s == nil {
		return ErrEmptySnapshot
	}

	counters := map[string]int64{
		"totalReviews":          s.TotalReviews,
		"monthlyReviews":        s.MonthlyReviews,
		"previousMonthReviews":  s.PreviousMonthReviews,
		"uniqueAuthors":         s.UniqueAuthors,
		"outcomes.approved":     s.Outcomes.Approved,
		"outcomes.needsChanges": s.Outcomes.NeedsChanges,
		"outcomes.needsReview":  s.Outcomes.NeedsReview,
	}
	for name, value := range counters {
		if value < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalidSnapshot, name)
		}
	}

	if s.AvgReviewTime < 0 {
		return fmt.Errorf("%w: avgReviewTime is negative", ErrInvalidSnapshot)
	}

	if len(s.ReviewsByMonth) != months {
		return fmt.Errorf("%w: got %d monthly values, want %d", ErrMonthSeriesMismatch, len(s.ReviewsByMonth), months)
	}
	for i, v := range s.ReviewsByMonth {
		if v < 0 {
			return fmt.Errorf("%w: reviewsByMonth[%d] is negative", ErrInvalidSnapshot, i)
		}
	}

	for i, r := range s.RecentReviews {
		if !r.Outcome.Valid() {
			return fmt.Errorf("%w: recentReviews[%d] has outcome %q", ErrUnknownOutcome, i, r.Outcome)
		}
	}

	return nil
}

// MetricsProvider определяет внешний источник снапшотов метрик.
type MetricsProvider interface {
	FetchSnapshot(ctx context.Context) (*MetricsSnapshot, error)
}

// SnapshotRepository определяет контракт для хранилища опубликованных снапшотов.
type SnapshotRepository interface {
	MetricsProvider
	Publish(ctx context.Context, snapshot *MetricsSnapshot) (int64, error)
}
