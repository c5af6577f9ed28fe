package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "tripbudget/internal/errors"
	"tripbudget/internal/pagination"
	"tripbudget/internal/services"
	"tripbudget/internal/uuid"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for recording an
// expense. Without category_id the category is chosen from the description.
type CreateTransactionRequest struct {
	CategoryID       *string             `json:"category_id" binding:"omitempty,uuid"`
	Amount           *decimal.Decimal    `json:"amount" binding:"required" swaggertype:"string" example:"125.50"`
	OriginalAmount   decimal.NullDecimal `json:"original_amount" swaggertype:"string"`
	OriginalCurrency *string             `json:"original_currency" binding:"omitempty,iso4217"`
	TransactionDate  *string             `json:"transaction_date"`
	Description      *string             `json:"description" binding:"omitempty,max=255"`
	Location         *string             `json:"location" binding:"omitempty,max=255"`
}

// CreateTransaction handles recording an expense on a trip
// @Summary     Create a transaction
// @Description Record an expense on a trip. When category_id is omitted the category is predicted from the description.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Trip ID"
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input or category could not be determined"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Trip not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /trips/{id}/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
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

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.CreateTransactionInput{
		CategoryID:       req.CategoryID,
		Amount:           *req.Amount,
		OriginalAmount:   req.OriginalAmount,
		OriginalCurrency: req.OriginalCurrency,
		Description:      req.Description,
		Location:         req.Location,
	}
	if req.TransactionDate != nil && *req.TransactionDate != "" {
		input.TransactionDate, err = parseDate("transaction_date", *req.TransactionDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, tripID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{
			"trip_id":     tripID,
			"amount":      transaction.Amount.String(),
			"category_id": transaction.CategoryID,
			"predicted":   req.CategoryID == nil,
		})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTripTransactions handles the retrieval of a trip's transactions
// @Summary     List trip transactions
// @Description Get a paginated list of a trip's transactions, newest first, with optional filters
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id          path  string true  "Trip ID"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       category_id query string false "Filter by category ID"
// @Param       from_date   query string false "Filter by start date (YYYY-MM-DD or RFC3339)"
// @Param       to_date     query string false "Filter by end date, inclusive (YYYY-MM-DD or RFC3339)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Trip not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /trips/{id}/transactions [get]
func (h *TransactionHandler) GetTripTransactions(c *gin.Context) {
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

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetTripTransactions(userID, tripID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// parseTransactionFilter reads the optional list filters from the query
// string. A date-only to_date covers the whole day.
func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("category_id"); v != "" {
		if !uuid.IsValid(v) {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category_id")
		}
		filter.CategoryID = &v
	}

	if v := c.Query("from_date"); v != "" {
		t, err := parseDate("from_date", v)
		if err != nil {
			return filter, err
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := parseDate("to_date", v)
		if err != nil {
			return filter, err
		}
		if len(v) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		filter.ToDate = &t
	}

	if filter.FromDate != nil && filter.ToDate != nil && filter.ToDate.Before(*filter.FromDate) {
		return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "to_date must not be before from_date")
	}

	return filter, nil
}

// UpdateTransactionRequest represents the request payload for updating a
// transaction. Omitted fields keep their current values.
type UpdateTransactionRequest struct {
	CategoryID       *string          `json:"category_id" binding:"omitempty,uuid"`
	Amount           *decimal.Decimal `json:"amount" swaggertype:"string" example:"125.50"`
	OriginalAmount   *decimal.Decimal `json:"original_amount" swaggertype:"string"`
	OriginalCurrency *string          `json:"original_currency" binding:"omitempty,iso4217"`
	TransactionDate  *string          `json:"transaction_date"`
	Description      *string          `json:"description" binding:"omitempty,max=255"`
	Location         *string          `json:"location" binding:"omitempty,max=255"`
}

// UpdateTransaction handles updating a transaction
// @Summary     Update transaction
// @Description Update a transaction on a trip. A new category_id must name an existing category.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id            path string                   true "Trip ID"
// @Param       transactionId path string                   true "Transaction ID"
// @Param       request       body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} models.Transaction "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input or unknown category"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Trip or transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /trips/{id}/transactions/{transactionId} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
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

	transactionID, err := parseIDParam(c, "transactionId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.UpdateTransactionInput{
		CategoryID:       req.CategoryID,
		Amount:           req.Amount,
		OriginalAmount:   req.OriginalAmount,
		OriginalCurrency: req.OriginalCurrency,
		Description:      req.Description,
		Location:         req.Location,
	}
	if req.TransactionDate != nil {
		date, err := parseDate("transaction_date", *req.TransactionDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		input.TransactionDate = &date
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, tripID, transactionID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{
			"trip_id":     tripID,
			"amount":      transaction.Amount.String(),
			"category_id": transaction.CategoryID,
		})

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles the deletion of a transaction
// @Summary     Delete transaction
// @Description Delete a transaction from a trip
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id            path string true "Trip ID"
// @Param       transactionId path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Trip or transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /trips/{id}/transactions/{transactionId} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
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

	transactionID, err := parseIDParam(c, "transactionId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, tripID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(),
		map[string]interface{}{"trip_id": tripID})

	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}
