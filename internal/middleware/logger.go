package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RequestLogger logs one line per request.  Requests that ended in an error
// or a 5xx status are logged at error level with the underlying error.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogError:     true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		HandleError:  true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			if v.RequestID != "" {
				attrs = append(attrs, slog.String("request_id", v.RequestID))
			}
			ctx := c.Request().Context()
			switch {
			case v.Status >= 500:
				if v.Error != nil {
					attrs = append(attrs, slog.String("err", v.Error.Error()))
				}
				logger.LogAttrs(ctx, slog.LevelError, "REQUEST_ERROR", attrs...)
			case v.Error != nil:
				attrs = append(attrs, slog.String("err", v.Error.Error()))
				logger.LogAttrs(ctx, slog.LevelWarn, "REQUEST_REJECTED", attrs...)
			default:
				logger.LogAttrs(ctx, slog.LevelInfo, "REQUEST", attrs...)
			}
			return nil
		},
	})
}
