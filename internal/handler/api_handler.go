package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIHandler struct {
	*DashboardHandler
	// Stats может быть nil, если снапшоты отдает внешний сервис
	Stats *StatsHandler
}

func NewAPIHandler(dashboard *DashboardHandler, stats *StatsHandler) *APIHandler {
	return &APIHandler{
		DashboardHandler: dashboard,
		Stats:            stats,
	}
}

// RegisterHandlers регистрирует маршруты дашборда, статистики и служебные эндпоинты.
func RegisterHandlers(e *echo.Echo, h *APIHandler, gatherer prometheus.Gatherer) {
	e.GET("/", h.GetPage)
	e.GET("/api/dashboard", h.GetState)
	e.POST("/api/refresh", h.PostRefresh)

	if h.Stats != nil {
		e.GET("/api/dashboard-stats", h.Stats.GetDashboardStats)
		if h.Stats.CanPublish() {
			e.POST("/api/dashboard-stats", h.Stats.PostDashboardStats)
		}
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
