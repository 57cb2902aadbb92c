package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moneta/internal/ai"
	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/services"
)

// AIHandler handles free-text transaction parsing requests.
type AIHandler struct {
	parser          *ai.Parser
	categoryService services.CategoryServicer
}

// NewAIHandler creates a new AIHandler. A nil parser means the feature is not
// configured; requests then fail with PARSER_UNAVAILABLE.
func NewAIHandler(parser *ai.Parser, categoryService services.CategoryServicer) *AIHandler {
	return &AIHandler{parser: parser, categoryService: categoryService}
}

// ParseRequest represents the free-text parsing request payload
type ParseRequest struct {
	Text string `json:"text" binding:"required,min=1,max=500"`
}

// ParseTransaction extracts transaction fields from free text
// @Summary     Parse a transaction from text
// @Description Extract amount, direction, and a category suggestion from a free-text entry
// @Tags        ai
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ParseRequest true "Free text to parse"
// @Success     200 {object} ai.ParsedTransaction "Parsed transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Text could not be parsed"
// @Failure     503 {object} ErrorResponse "Parser not configured"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ai/parse [post]
func (h *AIHandler) ParseTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if h.parser == nil {
		respondWithError(c, apperrors.ErrParserUnavailable)
		return
	}

	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	titles, err := h.categoryTitles(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	parsed, err := h.parser.ParseTransaction(c.Request.Context(), req.Text, titles)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"parsed": parsed})
}

// categoryTitles collects the user's income and expense category titles to
// constrain the model's suggestion.
func (h *AIHandler) categoryTitles(userID string) ([]string, error) {
	var titles []string
	for _, categoryType := range []models.CategoryType{models.CategoryTypeIncome, models.CategoryTypeExpense} {
		groups, err := h.categoryService.GetCategoryGroupsByType(userID, categoryType)
		if err != nil {
			return nil, err
		}
		for _, group := range groups {
			for _, member := range group.Members {
				titles = append(titles, member.Title)
			}
		}
	}
	return titles, nil
}
