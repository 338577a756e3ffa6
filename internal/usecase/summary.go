package usecase

import (
	"fmt"
	"strconv"

	"review-dashboard/internal/domain"
)

// Стили индикатора тренда
const (
	TrendUpClass   = "trend-up"
	TrendDownClass = "trend-down"
	TrendUpIcon    = "bi-arrow-up"
	TrendDownIcon  = "bi-arrow-down"
	NoChangeLabel  = "No change"
)

// Trend строит индикатор изменения числа ревью относительно прошлого месяца.
func Trend(current, previous int64) domain.Badge {
	delta := current - previous
	switch {
	case delta > 0:
		return domain.Badge{Class: TrendUpClass, Icon: TrendUpIcon, Text: fmt.Sprintf("+%d", delta)}
	case delta < 0:
		return domain.Badge{Class: TrendDownClass, Icon: TrendDownIcon, Text: strconv.FormatInt(delta, 10)}
	default:
		return domain.Badge{Text: NoChangeLabel}
	}
}

// CostEstimate считает оценку расходов: один аккаунт (владелец бота) не тарифицируется.
// При нуле авторов результат отрицательный и не ограничивается снизу.
func CostEstimate(uniqueAuthors int64, costPerAuthor float64) float64 {
	return float64(uniqueAuthors-1) * costPerAuthor
}

// FormatCost форматирует сумму в долларах без округления.
func FormatCost(cost float64) string {
	return "$" + strconv.FormatFloat(cost, 'f', -1, 64)
}

// FormatHours выводит среднее время ревью как есть.
func FormatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}

func paintSummary(s domain.Surface, snapshot *domain.MetricsSnapshot, costPerAuthor float64) error {
	texts := []struct {
		mount domain.Mount
		text  string
	}{
		{domain.MountTotalReviews, strconv.FormatInt(snapshot.TotalReviews, 10)},
		{domain.MountMonthlyReviews, strconv.FormatInt(snapshot.MonthlyReviews, 10)},
		{domain.MountCostSavings, FormatCost(CostEstimate(snapshot.UniqueAuthors, costPerAuthor))},
		{domain.MountAvgTime, FormatHours(snapshot.AvgReviewTime)},
	}
	for _, t := range texts {
		if err := s.SetText(t.mount, t.text); err != nil {
			return err
		}
	}

	return s.SetBadge(domain.MountMonthlyTrend, Trend(snapshot.MonthlyReviews, snapshot.PreviousMonthReviews))
}
