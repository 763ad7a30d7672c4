package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/anime-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/anime-quote-service/internal/app"
)

// HistoryHandler serves an owner's recent quotes.
type HistoryHandler struct {
	service *app.HistoryService
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(service *app.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// GetHistory handles GET /history.
//
// @Summary List an owner's recent quotes
// @Tags quotes
// @Produce json
// @Param owner query string true "Anonymous owner identity"
// @Param limit query int false "Maximum number of quotes"
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /history [get]
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	var req dto.HistoryRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	records, err := h.service.Recent(c.Request.Context(), req.Owner, req.Limit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewHistoryResponse(records))
}

// RegisterHistoryRoutes registers history routes on the given router group.
func (h *HistoryHandler) RegisterHistoryRoutes(rg *gin.RouterGroup) {
	rg.GET("/history", h.GetHistory)
}
