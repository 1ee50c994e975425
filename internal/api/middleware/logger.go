package middleware

import (
	"time"

	"user-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {

		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		logFields := logrus.Fields{
			"status_code": c.Writer.Status(),
			"latency":     time.Since(start),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
			"request_id":  c.GetString(requestIDKey),
		}

		status := c.Writer.Status()
		switch {
		case len(c.Errors) > 0:
			logFields["error"] = c.Errors.String()
			logger.WithFields(logFields).Error("Request completed with errors")
		case status >= 500:
			logger.WithFields(logFields).Error("Request completed with server error")
		case status >= 400:
			logger.WithFields(logFields).Warn("Request completed with client error")
		default:
			logger.WithFields(logFields).Info("Request completed")
		}
	}
}
