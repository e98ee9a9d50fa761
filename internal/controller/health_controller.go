package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ads-insights-assistant/internal/model"
)

func RegisterHealthRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)
}

// HealthCheck godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} model.Response
// @Router       /health [get]
func HealthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, model.NewResponse("ok", nil))
}
