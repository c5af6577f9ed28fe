package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripbudget/internal/services"
)

// AnalyticsHandler serves trip spending analytics.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetTripForecast handles the spending forecast for a trip
// @Summary     Get spending forecast
// @Description Project end-of-trip spending from the pace so far. Completed, cancelled and already ended trips return only a message.
// @Tags        trips,analytics
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Trip ID"
// @Success     200 {object} forecast.Forecast "Spending forecast"
// @Failure     400 {object} ErrorResponse "Invalid trip ID or trip dates"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Trip not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /trips/{id}/forecast [get]
func (h *AnalyticsHandler) GetTripForecast(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tripID, err := parseIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.analyticsService.GetSpendingForecast(userID, tripID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
