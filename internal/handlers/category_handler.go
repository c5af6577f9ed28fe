package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripbudget/internal/classifier"
	apperrors "tripbudget/internal/errors"
	"tripbudget/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
	predictor       classifier.Predictor
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer, predictor classifier.Predictor) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, predictor: predictor}
}

// ClassifyRequest represents the request payload for a category preview
type ClassifyRequest struct {
	Description string `json:"description" binding:"required,max=255"`
}

// ClassifyResponse carries the predicted category, or null when the
// description does not match any category.
type ClassifyResponse struct {
	Category *classifier.CategoryRef `json:"category"`
}

// GetCategories handles the retrieval of all categories
// @Summary     List categories
// @Description Get every expense category
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.Category "Categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.GetAllCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ClassifyDescription previews the category a description would be filed under
// @Summary     Classify a description
// @Description Predict the category for an expense description without recording anything
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ClassifyRequest true "Description to classify"
// @Success     200 {object} ClassifyResponse "Predicted category, null when there is no prediction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories/classify [post]
func (h *CategoryHandler) ClassifyDescription(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	c.JSON(http.StatusOK, ClassifyResponse{Category: h.predictor.Classify(c.Request.Context(), req.Description)})
}
