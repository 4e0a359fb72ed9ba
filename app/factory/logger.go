package factory

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// NewModuleLogger returns a logger scoped to one module of the service.
func NewModuleLogger(module string) logrus.FieldLogger {
	return logrus.StandardLogger().WithField("module", module)
}

// LoggerWithContext enriches a logger with request-scoped fields.
func LoggerWithContext(logger logrus.FieldLogger, ctx echo.Context) logrus.FieldLogger {
	if ctx == nil {
		return logger
	}
	if requestID := strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderXRequestID)); requestID != "" {
		logger = logger.WithField("request_id", requestID)
	}
	return logger
}
