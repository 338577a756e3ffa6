package handler

import (
	"net/http"

	"review-dashboard/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type BaseHandler struct {
	logger *logrus.Logger
}

func NewBaseHandler(logger *logrus.Logger) *BaseHandler {
	return &BaseHandler{
		logger: logger,
	}
}

func (h *BaseHandler) logRequest(c echo.Context, operation string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"operation":  operation,
		"method":     c.Request().Method,
		"path":       c.Request().URL.Path,
		"ip":         c.RealIP(),
		"user_agent": c.Request().UserAgent(),
	})
}

// respondError логирует ошибку и отвечает JSON с кодом из маппинга domain ошибок.
func (h *BaseHandler) respondError(c echo.Context, logEntry *logrus.Entry, err error, msg string) error {
	status := getHTTPStatusCode(err)
	if status >= http.StatusInternalServerError {
		logEntry.WithError(err).Error(msg)
	} else {
		logEntry.WithError(err).Warn(msg)
	}

	if httpErr, exists := domain.ToHTTPError(err); exists {
		return c.JSON(status, toAPIErrorResponse(httpErr))
	}
	return c.JSON(status, toErrorResponse("INTERNAL_ERROR", err.Error()))
}
