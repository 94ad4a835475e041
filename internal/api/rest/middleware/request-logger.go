package middleware

import (
	"time"

	"github.com/SundayYogurt/bachelor-point/internal/helper/utils"
	"github.com/SundayYogurt/bachelor-point/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger logs one line per request and feeds the HTTP metrics.
func RequestLogger(logger *zap.Logger, m *metrics.Metrics) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		chainErr := ctx.Next()
		if chainErr != nil {
			// let the app error handler pick the status before we read it
			if err := ctx.App().ErrorHandler(ctx, chainErr); err != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := ctx.Response().StatusCode()
		elapsed := time.Since(start)
		route := ctx.Route().Path
		m.ObserveRequest(ctx.Method(), route, status, elapsed)

		fields := []zap.Field{
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("request_id", ctx.GetRespHeader(fiber.HeaderXRequestID)),
			zap.String("ip", ctx.IP()),
		}
		if cause, ok := ctx.Locals(utils.LocalsError).(error); ok {
			fields = append(fields, zap.Error(cause))
		}

		level := zapcore.InfoLevel
		switch {
		case status >= fiber.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= fiber.StatusBadRequest:
			level = zapcore.WarnLevel
		}
		if ce := logger.Check(level, "request"); ce != nil {
			ce.Write(fields...)
		}
		return nil
	}
}
