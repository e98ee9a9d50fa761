package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"ads-insights-assistant/internal/dto"
	"ads-insights-assistant/internal/model"
	"ads-insights-assistant/internal/service"
)

type QueryController struct {
	queryService service.QueryService
}

func NewQueryController(queryService service.QueryService) *QueryController {
	return &QueryController{
		queryService: queryService,
	}
}

func RegisterQueryRoutes(router *gin.Engine, controller *QueryController) {
	v1 := router.Group("/api/v1/sessions")
	{
		v1.POST("/:id/query", controller.HandleQuery)
	}
}

// HandleQuery godoc
// @Summary      Ask a question about the dataset
// @Description  Summarizes the session's table, sends the summary and the question to the configured chat model and returns its answer unmodified. Model failures are returned with resultType "error" and leave the session usable.
// @Tags         query
// @Accept       json
// @Produce      json
// @Param        id      path string           true "Session ID"
// @Param        request body dto.QueryRequest true "Question about the dataset"
// @Success      200 {object} dto.QueryResponse "Answer, or an error message from the model call"
// @Failure      400 {object} model.Response "Invalid request body"
// @Failure      404 {object} model.Response "Session not found"
// @Router       /api/v1/sessions/{id}/query [post]
func (c *QueryController) HandleQuery(ctx *gin.Context) {
	var req dto.QueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Invalid query request body")
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: "+err.Error(), nil))
		return
	}

	resp, err := c.queryService.Ask(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err, http.StatusInternalServerError)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
