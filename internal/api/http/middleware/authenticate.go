package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/blog-server/internal/api/http/handler"
	"github.com/dtroode/blog-server/internal/api/http/response"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/metrics"
	"github.com/dtroode/blog-server/internal/model"
)

const unauthorizedMessage = "unauthorized"

// TokenAuthenticator resolves an identity from an access token.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, accessToken string) (model.Identity, error)
}

// EventRecorder counts rejected requests.
type EventRecorder interface {
	AuthEvent(event, outcome string)
}

// Authenticate validates access tokens and injects the identity into the
// request context.
type Authenticate struct {
	authenticator  TokenAuthenticator
	contextManager model.ContextManager
	recorder       EventRecorder
	logger         *logger.Logger
}

func NewAuthenticate(
	authenticator TokenAuthenticator,
	contextManager model.ContextManager,
	recorder EventRecorder,
	logger *logger.Logger,
) *Authenticate {
	return &Authenticate{
		authenticator:  authenticator,
		contextManager: contextManager,
		recorder:       recorder,
		logger:         logger,
	}
}

// Handle rejects the request with 401 unless it carries a valid access token.
// The response never says why; the reason is logged.
func (m *Authenticate) Handle(c *gin.Context) {
	tokenString := extractToken(c)

	identity, err := m.authenticator.Authenticate(c.Request.Context(), tokenString)
	if err == nil && identity.AccountID == uuid.Nil {
		err = model.ErrTokenInvalid
	}
	if err != nil {
		m.logger.Info("Authenticate middleware: request rejected",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"reason", rejectReason(err))
		m.recorder.AuthEvent("authenticate", metrics.OutcomeRejected)
		response.Error(c, http.StatusUnauthorized, unauthorizedMessage)
		return
	}

	c.Request = c.Request.WithContext(m.contextManager.SetIdentityToContext(c.Request.Context(), identity))
	c.Next()
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(handler.AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, model.ErrMissingAccessToken):
		return "missing"
	case errors.Is(err, model.ErrTokenExpired):
		return "expired"
	case errors.Is(err, model.ErrTokenInvalid):
		return "invalid"
	default:
		return err.Error()
	}
}
