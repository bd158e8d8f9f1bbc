package bark

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

const requestIdHeader = "X-Request-Id"

// RequestLogger writes one log line per request, tagging it with a request id.
// An incoming X-Request-Id is kept, otherwise a new one is generated.
func RequestLogger(logger log.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		requestId := ctx.GetHeader(requestIdHeader)
		if requestId == "" {
			requestId = uuid.NewString()
		}
		ctx.Set(requestIdKey, requestId)
		ctx.Header(requestIdHeader, requestId)

		ctx.Next()

		status := ctx.Writer.Status()
		keyvals := []any{
			"msg", "request",
			"request_id", requestId,
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"user", RequireCaller(ctx).String(),
		}
		if len(ctx.Errors) > 0 {
			keyvals = append(keyvals, "err", strings.Join(ctx.Errors.Errors(), "; "))
		}

		switch {
		case status >= 500:
			level.Error(logger).Log(keyvals...)
		case status >= 400:
			level.Info(logger).Log(keyvals...)
		default:
			level.Debug(logger).Log(keyvals...)
		}
	}
}
