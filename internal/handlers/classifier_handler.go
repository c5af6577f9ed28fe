package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripbudget/internal/middleware"
	"tripbudget/internal/services"
)

// ClassifierHandler exposes classifier operations.
type ClassifierHandler struct {
	classifier   services.CategoryClassifier
	auditService services.AuditServicer
}

// NewClassifierHandler creates a new ClassifierHandler.
func NewClassifierHandler(classifier services.CategoryClassifier, auditService services.AuditServicer) *ClassifierHandler {
	return &ClassifierHandler{classifier: classifier, auditService: auditService}
}

// Train rebuilds the classifier from the corpus
// @Summary     Retrain classifier
// @Description Rebuild the category classifier from the keyword corpus and swap it in. Categories missing from the database are skipped.
// @Tags        classifier
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} classifier.TrainResult "Training summary"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Admin endpoints not configured"
// @Router      /classifier/train [post]
func (h *ClassifierHandler) Train(c *gin.Context) {
	result := h.classifier.Train(c.Request.Context())

	h.auditService.Log(c.GetString(middleware.UserIDKey), "TRAIN_CLASSIFIER", "classifier", result.Method, c.ClientIP(),
		map[string]interface{}{
			"documents": result.Documents,
			"trained":   result.Trained,
			"skipped":   result.Skipped,
		})

	c.JSON(http.StatusOK, result)
}

// Status reports whether a model is loaded and what it was built from
// @Summary     Classifier status
// @Tags        classifier
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} classifier.Status "Classifier status"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /classifier/status [get]
func (h *ClassifierHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.classifier.Status())
}
