package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/blog-server/internal/api/http/response"
)

func HealthCheck(c *gin.Context) {
	response.Success(c, http.StatusOK, nil, "Health check is done")
}
