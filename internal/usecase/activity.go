package usecase

import "review-dashboard/internal/domain"

// Классы бейджа статуса
const (
	BadgePositive = "success"
	BadgeWarning  = "warning"
)

// StatusBadge возвращает бейдж исхода ревью.
// Положительный стиль только у approved, needs-changes и needs-review выглядят одинаково.
func StatusBadge(outcome domain.Outcome) domain.Badge {
	class := BadgeWarning
	if outcome == domain.OutcomeApproved {
		class = BadgePositive
	}
	return domain.Badge{Class: class, Text: string(outcome)}
}

// ActivityRows преобразует записи в строки таблицы в исходном порядке.
func ActivityRows(records []domain.ReviewRecord) []domain.Row {
	rows := make([]domain.Row, len(records))
	for i, r := range records {
		rows[i] = domain.Row{
			ID:       r.ID,
			Title:    r.Title,
			Author:   r.Author,
			Reviewer: r.ReviewerIdentity,
			Date:     r.Date,
			Status:   StatusBadge(r.Outcome),
		}
	}
	return rows
}

func paintActivity(s domain.Surface, records []domain.ReviewRecord) error {
	return s.ReplaceRows(domain.MountRecentReviews, ActivityRows(records))
}
