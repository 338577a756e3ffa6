package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"review-dashboard/internal/domain"

	"github.com/go-resty/resty/v2"
)

const (
	UserAgent = "Review Dashboard Client"

	// StatsPath - путь серверного эндпоинта со снапшотом метрик.
	StatsPath = "/api/dashboard-stats"
)

// HTTP получает снапшот с серверного эндпоинта статистики.
type HTTP struct {
	client *resty.Client
}

// NewHTTP создает HTTP-провайдер для baseURL с таймаутом на запрос.
func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", UserAgent)

	return &HTTP{client: client}
}

// FetchSnapshot запрашивает снапшот. Любой сбой возвращается как *domain.ProviderError.
func (p *HTTP) FetchSnapshot(ctx context.Context) (*domain.MetricsSnapshot, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		Get(StatsPath)
	if err != nil {
		return nil, domain.NewProviderError(fmt.Sprintf("request failed: %v", err), err)
	}

	if resp.IsError() {
		return nil, domain.NewProviderError(fmt.Sprintf("API error: %d", resp.StatusCode()), nil)
	}

	var snapshot domain.MetricsSnapshot
	if err := json.Unmarshal(resp.Body(), &snapshot); err != nil {
		return nil, domain.NewProviderError(fmt.Sprintf("invalid response body: %v", err), err)
	}

	return &snapshot, nil
}
