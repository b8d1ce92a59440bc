package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

// RequestLogger はリクエスト1件ごとにJSONで1行出す。
func RequestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := log.JSON{
				"event":      "http_request",
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
				"remote_ip":  v.RemoteIP,
				"request_id": v.RequestID,
			}
			if userID := UserID(c); userID != "" {
				fields["user_id"] = userID
			}
			if v.Error != nil {
				fields["error"] = v.Error.Error()
				logger.Errorj(fields)
				return nil
			}
			logger.Infoj(fields)
			return nil
		},
	})
}
