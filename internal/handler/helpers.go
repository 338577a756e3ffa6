package handler

import (
	"errors"
	"net/http"

	"review-dashboard/internal/domain"
	"review-dashboard/internal/view"
)

// Вспомогательные функции преобразования состояния представления в API модели

// DashboardResponse - JSON-представление текущего состояния дашборда.
type DashboardResponse struct {
	TotalReviews   string                        `json:"totalReviews"`
	MonthlyReviews string                        `json:"monthlyReviews"`
	MonthlyTrend   domain.Badge                  `json:"monthlyTrend"`
	CostSavings    string                        `json:"costSavings"`
	AvgTime        string                        `json:"avgTime"`
	RecentReviews  []domain.Row                  `json:"recentReviews"`
	Charts         map[string]domain.ChartConfig `json:"charts"`
	Banner         domain.Banner                 `json:"banner"`
	Version        int64                         `json:"version"`
}

func toDashboardResponse(st view.State) DashboardResponse {
	charts := make(map[string]domain.ChartConfig, len(st.Charts))
	for mount, chart := range st.Charts {
		charts[string(mount)] = chart.Config
	}

	return DashboardResponse{
		TotalReviews:   st.Texts[domain.MountTotalReviews],
		MonthlyReviews: st.Texts[domain.MountMonthlyReviews],
		MonthlyTrend:   st.Badges[domain.MountMonthlyTrend],
		CostSavings:    st.Texts[domain.MountCostSavings],
		AvgTime:        st.Texts[domain.MountAvgTime],
		RecentReviews:  st.Rows,
		Charts:         charts,
		Banner:         st.Banner,
		Version:        st.Version,
	}
}

func toErrorResponse(code, message string) domain.ErrorResponse {
	return domain.ErrorResponse{
		Error: domain.HTTPError{
			Code:    code,
			Message: message,
		},
	}
}

func toAPIErrorResponse(httpErr domain.HTTPError) domain.ErrorResponse {
	return domain.ErrorResponse{Error: httpErr}
}

func getHTTPStatusCode(err error) int {
	switch {
	// Conflict errors (409)
	case errors.Is(err, domain.ErrRefreshInProgress):
		return http.StatusConflict

	// Not Found errors (404)
	case errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound

	// Bad Request errors (400) - валидация
	case errors.Is(err, domain.ErrEmptySnapshot), errors.Is(err, domain.ErrInvalidSnapshot),
		errors.Is(err, domain.ErrMonthSeriesMismatch), errors.Is(err, domain.ErrUnknownOutcome):
		return http.StatusBadRequest
	}

	// Bad Gateway (502) - сбой источника метрик
	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
