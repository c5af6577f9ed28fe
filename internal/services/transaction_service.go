package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "tripbudget/internal/errors"
	"tripbudget/internal/models"
	"tripbudget/internal/pagination"
)

var minAmount = decimal.New(1, -2)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db       *gorm.DB
	trips    TripServicer
	resolver *CategoryResolver
	now      func() time.Time
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, trips TripServicer, resolver *CategoryResolver) TransactionServicer {
	return &transactionService{
		db:       db,
		trips:    trips,
		resolver: resolver,
		now:      time.Now,
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// CreateTransaction records an expense on one of the user's trips. When no
// category is given it is resolved from the description.
func (s *transactionService) CreateTransaction(ctx context.Context, userID, tripID string, input CreateTransactionInput) (*models.Transaction, error) {
	if input.Amount.LessThan(minAmount) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be at least 0.01")
	}
	if input.OriginalAmount.Valid && !input.OriginalAmount.Decimal.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "original amount must be greater than zero")
	}

	// Ensure the trip exists and belongs to the user
	trip, err := s.trips.GetTripByID(userID, tripID)
	if err != nil {
		return nil, err
	}

	description := trimmed(input.Description)
	category, err := s.resolver.Resolve(ctx, input.CategoryID, description)
	if err != nil {
		return nil, err
	}

	date := input.TransactionDate
	if date.IsZero() {
		date = s.now()
	}

	transaction := &models.Transaction{
		TripID:           trip.ID,
		CategoryID:       category.ID,
		Amount:           input.Amount.Round(2),
		OriginalAmount:   input.OriginalAmount,
		OriginalCurrency: trimmed(input.OriginalCurrency),
		TransactionDate:  date,
		Description:      description,
		Location:         trimmed(input.Location),
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	transaction.Category = category

	return transaction, nil
}

// GetTripTransactions retrieves a paginated, filtered list of a trip's
// transactions, newest first.
func (s *transactionService) GetTripTransactions(userID, tripID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if _, err := s.trips.GetTripByID(userID, tripID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("trip_id = ?", tripID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Preload("Category").
		Order("transaction_date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAllTripTransactions returns every transaction of a trip, oldest first.
// Callers are responsible for checking trip ownership.
func (s *transactionService) GetAllTripTransactions(tripID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("trip_id = ?", tripID).
		Order("transaction_date ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// UpdateTransaction changes the given fields of a transaction on one of the
// user's trips. A new category is checked the same way as on creation.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, tripID, transactionID string, input UpdateTransactionInput) (*models.Transaction, error) {
	if _, err := s.trips.GetTripByID(userID, tripID); err != nil {
		return nil, err
	}

	var transaction models.Transaction
	if err := s.db.Where("id = ? AND trip_id = ?", transactionID, tripID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := make(map[string]interface{})

	if input.Amount != nil {
		if input.Amount.LessThan(minAmount) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be at least 0.01")
		}
		updates["amount"] = input.Amount.Round(2)
	}
	if input.OriginalAmount != nil {
		if !input.OriginalAmount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "original amount must be greater than zero")
		}
		updates["original_amount"] = decimal.NewNullDecimal(*input.OriginalAmount)
	}
	if input.OriginalCurrency != nil {
		updates["original_currency"] = trimmed(input.OriginalCurrency)
	}
	if input.TransactionDate != nil && !input.TransactionDate.IsZero() {
		updates["transaction_date"] = *input.TransactionDate
	}
	if input.Description != nil {
		updates["description"] = trimmed(input.Description)
	}
	if input.Location != nil {
		updates["location"] = trimmed(input.Location)
	}
	if input.CategoryID != nil {
		category, err := s.resolver.Resolve(ctx, input.CategoryID, nil)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = category.ID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Transaction{}).Where("id = ?", transaction.ID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	var updated models.Transaction
	if err := s.db.Preload("Category").Where("id = ?", transaction.ID).First(&updated).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &updated, nil
}

// DeleteTransaction removes a transaction from one of the user's trips.
func (s *transactionService) DeleteTransaction(userID, tripID, transactionID string) error {
	if _, err := s.trips.GetTripByID(userID, tripID); err != nil {
		return err
	}

	var transaction models.Transaction
	if err := s.db.Where("id = ? AND trip_id = ?", transactionID, tripID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTransactionNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.FromDate != nil {
		q = q.Where("transaction_date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("transaction_date <= ?", *f.ToDate)
	}
	return q
}
