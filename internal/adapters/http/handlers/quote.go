package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/anime-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/anime-quote-service/internal/app"
)

// QuoteHandler handles quote-related HTTP endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// SaveQuote handles POST /quotes.
// Saves the quote in the body for ownerId, minting an identity when none
// is given. The identity used is always echoed back.
//
// @Summary Save a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param body body dto.SaveQuoteRequest true "Quote to save"
// @Success 200 {object} dto.SaveQuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quotes [post]
func (h *QuoteHandler) SaveQuote(c *gin.Context) {
	var req dto.SaveQuoteRequest

	// An empty body is treated as a request without quoteData.
	if err := dto.BindAndValidate(c, &req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	result, err := h.service.Save(c.Request.Context(), req.QuoteData, req.OwnerID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSaveQuoteResponse(result))
}

// GetRandomQuote handles GET /quotes/random.
// Fetches a quote from the source and saves it for ownerId in the
// background. A failed save is reported in "persisted" and "warning"
// rather than as an error.
//
// @Summary Fetch and save a random quote
// @Tags quotes
// @Produce json
// @Param ownerId query string false "Anonymous owner identity"
// @Success 200 {object} dto.RandomQuoteResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /quotes/random [get]
func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	var req dto.RandomQuoteRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.service.FetchAndPersist(c.Request.Context(), req.OwnerID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRandomQuoteResponse(result))
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	rg.POST("/quotes", h.SaveQuote)
	rg.GET("/quotes/random", h.GetRandomQuote)
}

// respondBindError writes 400 for a request that could not be bound.
func respondBindError(c *gin.Context, err error) {
	if dto.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
			dto.ErrorCodeValidation,
			"request validation failed",
			dto.ValidationErrors(err),
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
		dto.ErrorCodeBadRequest,
		"malformed request",
	).WithTraceID(dto.GetTraceID(c)))
}
