package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"ads-insights-assistant/internal/dto"
	"ads-insights-assistant/internal/insights"
	"ads-insights-assistant/internal/model"
	"ads-insights-assistant/internal/service"
	"ads-insights-assistant/internal/store"
)

type SessionController struct {
	sessionService service.SessionService
}

func NewSessionController(sessionService service.SessionService) *SessionController {
	return &SessionController{
		sessionService: sessionService,
	}
}

func RegisterSessionRoutes(router *gin.Engine, controller *SessionController) {
	v1 := router.Group("/api/v1/sessions")
	{
		v1.POST("", controller.CreateSession)
		v1.GET("/:id/dataset", controller.GetDataset)
		v1.GET("/:id/summary", controller.GetSummary)
		v1.GET("/:id/history", controller.GetHistory)
		v1.POST("/:id/refresh", controller.RefreshSession)
		v1.DELETE("/:id", controller.DeleteSession)
	}
}

// CreateSession godoc
// @Summary      Fetch a report and open a session
// @Description  Fetches every page of the ad insights report for the configured account, consolidates it into one table and stores it under a new session. Omitted fields fall back to the configured report defaults.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateSessionRequest false "Report window overrides"
// @Success      201 {object} dto.SessionResponse "Session created. warning is set when pagination stopped early."
// @Failure      400 {object} model.Response "Invalid report parameters"
// @Failure      502 {object} model.Response "Initial report request failed"
// @Router       /api/v1/sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	var req dto.CreateSessionRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			log.Warn().Err(err).Msg("Invalid create session request body")
			ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: "+err.Error(), nil))
			return
		}
	}

	resp, err := c.sessionService.CreateSession(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err, http.StatusBadGateway)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetDataset godoc
// @Summary      Show dataset
// @Description  Returns the session's consolidated report table. With format=text the table is rendered as plain text.
// @Tags         sessions
// @Produce      json
// @Produce      plain
// @Param        id     path   string  true   "Session ID"
// @Param        format query  string  false  "Set to text for a plain text rendering"
// @Success      200 {object} dto.DatasetResponse
// @Failure      404 {object} model.Response "Session not found"
// @Router       /api/v1/sessions/{id}/dataset [get]
func (c *SessionController) GetDataset(ctx *gin.Context) {
	id := ctx.Param("id")
	if ctx.Query("format") == "text" {
		text, err := c.sessionService.RenderDataset(ctx.Request.Context(), id)
		if err != nil {
			respondError(ctx, err, http.StatusInternalServerError)
			return
		}
		ctx.String(http.StatusOK, text)
		return
	}

	resp, err := c.sessionService.GetDataset(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err, http.StatusInternalServerError)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetSummary godoc
// @Summary      Describe the dataset
// @Description  Returns the per-column descriptive statistics of the session's table, both as text and as a grid.
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SummaryResponse
// @Failure      404 {object} model.Response "Session not found"
// @Router       /api/v1/sessions/{id}/summary [get]
func (c *SessionController) GetSummary(ctx *gin.Context) {
	resp, err := c.sessionService.GetSummary(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, http.StatusInternalServerError)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetHistory godoc
// @Summary      List questions asked in a session
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.HistoryResponse
// @Failure      404 {object} model.Response "Session not found"
// @Router       /api/v1/sessions/{id}/history [get]
func (c *SessionController) GetHistory(ctx *gin.Context) {
	resp, err := c.sessionService.GetHistory(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, http.StatusInternalServerError)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// RefreshSession godoc
// @Summary      Re-fetch a session's report
// @Description  Re-runs the report request with the session's parameters and replaces its table. The previous table is kept if the initial request fails.
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SessionResponse
// @Failure      404 {object} model.Response "Session not found"
// @Failure      502 {object} model.Response "Report request failed"
// @Router       /api/v1/sessions/{id}/refresh [post]
func (c *SessionController) RefreshSession(ctx *gin.Context) {
	resp, err := c.sessionService.RefreshSession(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, http.StatusBadGateway)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteSession godoc
// @Summary      Close a session
// @Tags         sessions
// @Param        id path string true "Session ID"
// @Success      204
// @Failure      404 {object} model.Response "Session not found"
// @Router       /api/v1/sessions/{id} [delete]
func (c *SessionController) DeleteSession(ctx *gin.Context) {
	if err := c.sessionService.DeleteSession(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err, http.StatusInternalServerError)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// respondError maps service errors to status codes. fallback is used for anything unrecognized.
func respondError(ctx *gin.Context, err error, fallback int) {
	if errors.Is(err, store.ErrSessionNotFound) {
		ctx.JSON(http.StatusNotFound, model.NewResponse("Session not found", nil))
		return
	}
	if errors.Is(err, service.ErrInvalidRequest) {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}
	if apiErr, ok := insights.IsAPIError(err); ok {
		log.Error().Int("status_code", apiErr.StatusCode).Msg("Insights API request failed")
		ctx.JSON(http.StatusBadGateway, model.NewResponse("Failed to fetch data: "+err.Error(), gin.H{
			"statusCode": apiErr.StatusCode,
			"body":       apiErr.Body,
		}))
		return
	}
	log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Request failed")
	if fallback == http.StatusBadGateway {
		ctx.JSON(fallback, model.NewResponse("Failed to fetch data: "+err.Error(), nil))
		return
	}
	ctx.JSON(fallback, model.NewResponse("Internal server error", nil))
}
