package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "tripbudget/internal/errors"
	"tripbudget/internal/models"
	"tripbudget/internal/pagination"
	"tripbudget/internal/services"
)

// TripHandler handles trip-related requests.
type TripHandler struct {
	tripService  services.TripServicer
	auditService services.AuditServicer
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService services.TripServicer, auditService services.AuditServicer) *TripHandler {
	return &TripHandler{tripService: tripService, auditService: auditService}
}

// CreateTripRequest represents the request payload for creating a trip
type CreateTripRequest struct {
	Title       string            `json:"title" binding:"required,min=3,max=255"`
	Description string            `json:"description"`
	StartDate   string            `json:"start_date" binding:"required"`
	EndDate     string            `json:"end_date" binding:"required"`
	Budget      *decimal.Decimal  `json:"budget" binding:"required" swaggertype:"string"`
	CurrencyID  string            `json:"currency_id" binding:"required,uuid"`
	Status      models.TripStatus `json:"status" binding:"omitempty,trip_status"`
}

// CreateTrip handles the creation of a new trip
// @Summary     Create a trip
// @Description Create a new trip with a budget in one currency
// @Tags        trips
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTripRequest true "Trip details"
// @Success     201 {object} models.Trip "Trip created"
// @Failure     400 {object} ErrorResponse "Invalid input, date range or currency"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /trips [post]
func (h *TripHandler) CreateTrip(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	trip, err := h.tripService.CreateTrip(userID, services.CreateTripInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		Budget:      *req.Budget,
		CurrencyID:  req.CurrencyID,
		Status:      req.Status,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRIP", "trip", trip.ID, c.ClientIP(),
		map[string]interface{}{"title": trip.Title, "budget": trip.Budget.String(), "currency_id": trip.CurrencyID})

	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

// GetTrips handles the retrieval of the user's trips
// @Summary     List trips
// @Description Get a paginated list of the authenticated user's trips, newest start date first
// @Tags        trips
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status (planned, active, completed, cancelled)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Trip] "Paginated trips"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /trips [get]
func (h *TripHandler) GetTrips(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.TripStatus
	if v := c.Query("status"); v != "" {
		s := models.TripStatus(v)
		if !s.IsValid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput,
				"invalid status, must be planned, active, completed, or cancelled"))
			return
		}
		status = &s
	}

	result, err := h.tripService.GetUserTrips(userID, page, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTrip handles the retrieval of a single trip
// @Summary     Get trip
// @Description Get a trip owned by the authenticated user
// @Tags        trips
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Trip ID"
// @Success     200 {object} models.Trip "Trip"
// @Failure     400 {object} ErrorResponse "Invalid trip ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Trip not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /trips/{id} [get]
func (h *TripHandler) GetTrip(c *gin.Context) {
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

	trip, err := h.tripService.GetTripByID(userID, tripID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// UpdateTripRequest represents the request payload for updating a trip.
// Omitted fields keep their current values.
type UpdateTripRequest struct {
	Title       *string            `json:"title" binding:"omitempty,min=3,max=255"`
	Description *string            `json:"description"`
	StartDate   *string            `json:"start_date"`
	EndDate     *string            `json:"end_date"`
	Budget      *decimal.Decimal   `json:"budget" swaggertype:"string"`
	CurrencyID  *string            `json:"currency_id" binding:"omitempty,uuid"`
	Status      *models.TripStatus `json:"status" binding:"omitempty,trip_status"`
}

// UpdateTrip handles updating a trip
// @Summary     Update trip
// @Description Update a trip's details, budget, dates or status
// @Tags        trips
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Trip ID"
// @Param       request body UpdateTripRequest true "Fields to update"
// @Success     200 {object} models.Trip "Trip updated"
// @Failure     400 {object} ErrorResponse "Invalid input, date range or currency"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Trip not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /trips/{id} [put]
func (h *TripHandler) UpdateTrip(c *gin.Context) {
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

	var req UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.UpdateTripInput{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		CurrencyID:  req.CurrencyID,
		Status:      req.Status,
	}
	if req.StartDate != nil {
		start, err := parseDate("start_date", *req.StartDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		input.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := parseDate("end_date", *req.EndDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		input.EndDate = &end
	}

	trip, err := h.tripService.UpdateTrip(userID, tripID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TRIP", "trip", trip.ID, c.ClientIP(),
		map[string]interface{}{"budget": trip.Budget.String(), "status": string(trip.Status)})

	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// DeleteTrip handles the deletion of a trip
// @Summary     Delete trip
// @Description Delete a trip together with its transactions
// @Tags        trips
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Trip ID"
// @Success     200 {object} MessageResponse "Trip deleted"
// @Failure     400 {object} ErrorResponse "Invalid trip ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Trip not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /trips/{id} [delete]
func (h *TripHandler) DeleteTrip(c *gin.Context) {
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

	if err := h.tripService.DeleteTrip(userID, tripID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TRIP", "trip", tripID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Trip deleted successfully"})
}
