package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/anime-quote-service/internal/platform/logging"
)

// ownerQueryParams are the query parameters that carry an owner identity.
var ownerQueryParams = []string{"owner", "ownerId"}

// Logging returns middleware that logs one line per completed request with
// method, route, status and latency. An owner identity given in the query
// is attached to the request logger so later log lines carry owner_id.
//
// Paths under /-/ and any path with one of skipPrefixes are not logged.
func Logging(skipPrefixes ...string) gin.HandlerFunc {
	skip := append([]string{"/-/"}, skipPrefixes...)

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range skip {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		ctx := c.Request.Context()
		for _, name := range ownerQueryParams {
			if owner := c.Query(name); owner != "" {
				ctx = logging.WithOwnerID(ctx, owner)
				c.Request = c.Request.WithContext(ctx)

				break
			}
		}

		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		logging.FromContext(ctx).Log(ctx, level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Int64("latency_ms", latency.Milliseconds()),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}
