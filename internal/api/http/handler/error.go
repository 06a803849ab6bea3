package handler

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"github.com/dtroode/blog-server/internal/api/apierrors"
	"github.com/dtroode/blog-server/internal/api/http/response"
	"github.com/dtroode/blog-server/internal/logger"
)

const internalErrorMessage = "internal server error"

// handleError writes err as the error envelope. Anything that is not a
// client-facing API error is logged, reported and hidden behind a 500.
func handleError(c *gin.Context, log *logger.Logger, err error) {
	if apiErr, ok := apierrors.As(err); ok && apiErr.Kind != apierrors.KindInternal {
		response.Error(c, apiErr.HTTPStatus(), apiErr.Message)
		return
	}

	log.Error("HTTP handler: request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err.Error())

	hub := sentry.CurrentHub().Clone()
	hub.Scope().SetRequest(c.Request)
	hub.CaptureException(err)

	response.Error(c, http.StatusInternalServerError, internalErrorMessage)
}
