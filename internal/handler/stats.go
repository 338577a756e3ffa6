package handler

import (
	"net/http"

	"review-dashboard/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// StatsHandler обрабатывает HTTP-запросы к снапшотам метрик.
type StatsHandler struct {
	*BaseHandler
	provider   domain.MetricsProvider
	repository domain.SnapshotRepository
	months     int
}

// NewStatsHandler создает новый экземпляр StatsHandler.
// repository может быть nil: тогда публикация снапшотов недоступна.
func NewStatsHandler(provider domain.MetricsProvider, repository domain.SnapshotRepository, months int, logger *logrus.Logger) *StatsHandler {
	return &StatsHandler{
		BaseHandler: NewBaseHandler(logger),
		provider:    provider,
		repository:  repository,
		months:      months,
	}
}

// CanPublish сообщает, подключено ли хранилище снапшотов.
func (h *StatsHandler) CanPublish() bool {
	return h.repository != nil
}

// GetDashboardStats обрабатывает GET запрос для получения текущего снапшота метрик.
func (h *StatsHandler) GetDashboardStats(c echo.Context) error {
	logEntry := h.logRequest(c, "get_dashboard_stats")
	logEntry.Info("Getting dashboard stats")

	snapshot, err := h.provider.FetchSnapshot(c.Request().Context())
	if err != nil {
		return h.respondError(c, logEntry, err, "Failed to get dashboard stats")
	}

	logEntry.WithField("recent_reviews", len(snapshot.RecentReviews)).Info("Dashboard stats retrieved")
	return c.JSON(http.StatusOK, snapshot)
}

// PostDashboardStats обрабатывает публикацию нового снапшота метрик.
func (h *StatsHandler) PostDashboardStats(c echo.Context) error {
	logEntry := h.logRequest(c, "publish_dashboard_stats")

	if h.repository == nil {
		logEntry.Warn("Snapshot publishing is not configured")
		return c.JSON(http.StatusNotImplemented, toErrorResponse("NOT_CONFIGURED", "snapshot publishing is not configured"))
	}

	var snapshot domain.MetricsSnapshot
	if err := c.Bind(&snapshot); err != nil {
		logEntry.WithError(err).Warn("Failed to bind snapshot")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	if err := snapshot.Validate(h.months); err != nil {
		return h.respondError(c, logEntry, err, "Rejected invalid snapshot")
	}

	id, err := h.repository.Publish(c.Request().Context(), &snapshot)
	if err != nil {
		return h.respondError(c, logEntry, err, "Failed to publish snapshot")
	}

	logEntry.WithFields(logrus.Fields{
		"snapshot_id":    id,
		"recent_reviews": len(snapshot.RecentReviews),
	}).Info("Snapshot published")
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"snapshot_id": id,
	})
}
