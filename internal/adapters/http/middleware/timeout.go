package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/anime-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/anime-quote-service/internal/platform/logging"
)

// Timeout returns middleware that sets a deadline on the request context.
// Handlers and the adapters below them must honour ctx.Done(). When the
// deadline passes and the handler wrote nothing, a 504 TIMEOUT envelope
// is returned.
//
// The background quote save is detached from this deadline.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) || c.Writer.Written() {
			return
		}

		logging.FromContext(ctx).WarnContext(ctx, "request timeout",
			slog.String("path", c.Request.URL.Path),
			slog.Duration("timeout", timeout),
		)

		dto.AbortWithCode(c, dto.ErrorCodeTimeout, "request timeout exceeded")
	}
}
