package router

import (
	"strings"
	"time"

	"digit-recall/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs every request through zap, keyed to the signed-in
// player when one is loaded. Static asset hits are skipped; they drown out
// the game traffic at debug level.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/assets") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := make([]zap.Field, 0, 5)
		fields = append(fields,
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("clientIp", c.ClientIP()),
		)
		// The user loader runs further down the chain, so the user is only
		// visible here after c.Next() returns.
		if v, ok := c.Get("user"); ok {
			if user, ok := v.(*models.User); ok {
				fields = append(fields, zap.Uint("userID", user.ID))
			}
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		msg := c.Request.Method + " " + c.Request.URL.Path
		switch {
		case status >= 500:
			log.Error(msg, fields...)
		case status >= 400:
			log.Warn(msg, fields...)
		default:
			log.Debug(msg, fields...)
		}
	}
}
