// Package response writes the JSON envelopes every endpoint answers with.
package response

import (
	"github.com/gin-gonic/gin"
)

// Envelope wraps successful results.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorBody is returned for every failed request.
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func Success(c *gin.Context, status int, data any, message string) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// Error writes the error body and aborts the handler chain.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Success: false,
		Message: message,
	})
}
