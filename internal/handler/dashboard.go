package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"review-dashboard/internal/domain"
	"review-dashboard/internal/view"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// StateReader отдает копию текущего состояния представления.
type StateReader interface {
	State() view.State
}

// DashboardHandler обрабатывает HTTP-запросы страницы и состояния дашборда
type DashboardHandler struct {
	*BaseHandler
	dashboardUseCase domain.DashboardUseCase
	state            StateReader
	page             *view.Page
	refreshTimeout   time.Duration
}

// NewDashboardHandler создает новый экземпляр DashboardHandler.
// refreshTimeout ограничивает внеплановое обновление (0 - без ограничения).
func NewDashboardHandler(dashboardUseCase domain.DashboardUseCase, state StateReader, page *view.Page, refreshTimeout time.Duration, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardUseCase: dashboardUseCase,
		state:            state,
		page:             page,
		refreshTimeout:   refreshTimeout,
	}
}

// GetPage отдает HTML-страницу дашборда
func (h *DashboardHandler) GetPage(c echo.Context) error {
	logEntry := h.logRequest(c, "get_dashboard_page")

	var buf bytes.Buffer
	if err := h.page.Render(&buf, h.state.State()); err != nil {
		logEntry.WithError(err).Error("Failed to render dashboard page")
		return c.JSON(http.StatusInternalServerError, toErrorResponse("RENDER_FAILED", err.Error()))
	}

	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// GetState отдает текущее состояние виджетов в JSON
func (h *DashboardHandler) GetState(c echo.Context) error {
	st := h.state.State()
	h.logRequest(c, "get_dashboard_state").WithField("version", st.Version).Debug("Dashboard state retrieved")
	return c.JSON(http.StatusOK, toDashboardResponse(st))
}

// PostRefresh запускает внеплановое обновление дашборда
func (h *DashboardHandler) PostRefresh(c echo.Context) error {
	logEntry := h.logRequest(c, "refresh_dashboard")
	logEntry.Info("Refreshing dashboard on demand")

	// Отмена запроса клиентом не прерывает обновление общего для всех зрителей баннера
	ctx := context.WithoutCancel(c.Request().Context())
	if h.refreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.refreshTimeout)
		defer cancel()
	}

	err := h.dashboardUseCase.Refresh(ctx)
	switch {
	case err == nil:
		logEntry.Info("Dashboard refreshed on demand")
		return c.JSON(http.StatusOK, toDashboardResponse(h.state.State()))

	case errors.Is(err, domain.ErrRefreshInProgress):
		return h.respondError(c, logEntry, err, "Dashboard refresh already running")

	default:
		// Ошибка источника или невалидный снапшот - проблема вышестоящего сервиса
		logEntry.WithError(err).Error("On-demand dashboard refresh failed")
		return c.JSON(http.StatusBadGateway, map[string]interface{}{
			"error":     domain.HTTPError{Code: "REFRESH_FAILED", Message: err.Error()},
			"dashboard": toDashboardResponse(h.state.State()),
		})
	}
}
