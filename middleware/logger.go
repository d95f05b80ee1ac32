package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ua "github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// browserName turns a User-Agent into "Chrome 120.0" style text for the access log.
func browserName(userAgent string) string {
	if userAgent == "" {
		return "unknown"
	}
	parser := ua.New(userAgent)
	if parser.Bot() {
		return "bot"
	}
	name, version := parser.Browser()
	if version == "" {
		return name
	}
	return name + " " + version
}

// RequestID returns the id RequestLogger assigned to this request.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestLogger tags each request with an id and writes one structured line when it finishes.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"request_id": id,
			"status":     status,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"ip":         c.ClientIP(),
			"latency_ms": time.Since(start).Milliseconds(),
			"browser":    browserName(c.Request.UserAgent()),
		}
		if claims := CurrentClaims(c); claims != nil {
			fields["user"] = claims.Username
		}
		entry := logger.WithFields(fields)
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request completed")
		}
	}
}
