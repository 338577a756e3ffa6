package usecase

import "review-dashboard/internal/domain"

var (
	outcomeLabels = []string{"Approved", "Needs Changes", "Needs Review"}
	outcomeColors = []string{"#198754", "#ffc107", "#0dcaf0"}
)

// TrendChart описывает линейный график ревью по месяцам с заливкой под линией.
func TrendChart(labels []string, reviewsByMonth []int64) domain.ChartConfig {
	return domain.ChartConfig{
		Type: "line",
		Data: domain.ChartData{
			Labels: append([]string(nil), labels...),
			Datasets: []domain.ChartDataset{{
				Label:           "Monthly Reviews",
				Data:            append([]int64(nil), reviewsByMonth...),
				BorderColor:     "#0d6efd",
				BackgroundColor: []string{"rgba(13, 110, 253, 0.1)"},
				Tension:         0.3,
				Fill:            true,
			}},
		},
		Options: domain.ChartOptions{
			Responsive:    true,
			ShowLegend:    false,
			TooltipPrefix: "Reviews: ",
		},
	}
}

// OutcomeChart описывает кольцевую диаграмму исходов в фиксированном порядке.
func OutcomeChart(outcomes domain.OutcomeCounts) domain.ChartConfig {
	return domain.ChartConfig{
		Type: "doughnut",
		Data: domain.ChartData{
			Labels: append([]string(nil), outcomeLabels...),
			Datasets: []domain.ChartDataset{{
				Data:            []int64{outcomes.Approved, outcomes.NeedsChanges, outcomes.NeedsReview},
				BackgroundColor: append([]string(nil), outcomeColors...),
			}},
		},
		Options: domain.ChartOptions{
			Responsive: true,
			ShowLegend: true,
		},
	}
}

// paintCharts пересоздает оба графика: старый экземпляр освобождается до монтирования нового.
func paintCharts(s domain.Surface, snapshot *domain.MetricsSnapshot, labels []string) error {
	charts := []struct {
		mount domain.Mount
		cfg   domain.ChartConfig
	}{
		{domain.MountReviewsChart, TrendChart(labels, snapshot.ReviewsByMonth)},
		{domain.MountOutcomesChart, OutcomeChart(snapshot.Outcomes)},
	}
	for _, c := range charts {
		if err := s.DisposeChart(c.mount); err != nil {
			return err
		}
		if err := s.MountChart(c.mount, c.cfg); err != nil {
			return err
		}
	}
	return nil
}
