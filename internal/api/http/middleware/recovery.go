package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"github.com/dtroode/blog-server/internal/api/http/response"
	"github.com/dtroode/blog-server/internal/logger"
)

// Recovery turns panics into 500 responses and reports them to Sentry.
type Recovery struct {
	logger *logger.Logger
}

func NewRecovery(logger *logger.Logger) *Recovery {
	return &Recovery{logger: logger}
}

func (r *Recovery) Handle(c *gin.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			sentry.WithScope(func(scope *sentry.Scope) {
				scope.SetRequest(c.Request)
				scope.SetExtra("panic", fmt.Sprint(rec))
				scope.SetExtra("stack", string(debug.Stack()))
				sentry.CaptureMessage("panic in request")
			})

			r.logger.Error("Recovery middleware: panic recovered",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"panic", fmt.Sprint(rec))

			response.Error(c, http.StatusInternalServerError, "internal server error")
		}
	}()

	c.Next()
}
