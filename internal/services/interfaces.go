package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"tripbudget/internal/classifier"
	"tripbudget/internal/forecast"
	"tripbudget/internal/models"
	"tripbudget/internal/pagination"
)

// CreateTripInput holds the fields needed to create a trip.
type CreateTripInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Budget      decimal.Decimal
	CurrencyID  string
	Status      models.TripStatus
}

// UpdateTripInput holds the trip fields to change. Nil fields are left as
// they are.
type UpdateTripInput struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      *decimal.Decimal
	CurrencyID  *string
	Status      *models.TripStatus
}

// TripServicer defines the contract for trip-related business logic.
type TripServicer interface {
	CreateTrip(userID string, input CreateTripInput) (*models.Trip, error)
	GetUserTrips(userID string, page pagination.PageRequest, status *models.TripStatus) (*pagination.PageResponse[models.Trip], error)
	GetTripByID(userID, tripID string) (*models.Trip, error)
	UpdateTrip(userID, tripID string, input UpdateTripInput) (*models.Trip, error)
	DeleteTrip(userID, tripID string) error
}

// CurrencyServicer defines the contract for currency lookups.
type CurrencyServicer interface {
	GetAllCurrencies() ([]models.Currency, error)
}

// CategoryServicer defines the contract for category lookups.
type CategoryServicer interface {
	GetAllCategories() ([]models.Category, error)
	GetCategoryByID(categoryID string) (*models.Category, error)
	GetCategoryByName(name string) (*models.Category, error)
}

// CreateTransactionInput holds the fields needed to record an expense.
// CategoryID may be nil, in which case the category is resolved from the
// description.
type CreateTransactionInput struct {
	CategoryID       *string
	Amount           decimal.Decimal
	OriginalAmount   decimal.NullDecimal
	OriginalCurrency *string
	TransactionDate  time.Time
	Description      *string
	Location         *string
}

// UpdateTransactionInput holds the transaction fields to change. Nil
// fields are left as they are; an empty description or location clears it.
type UpdateTransactionInput struct {
	CategoryID       *string
	Amount           *decimal.Decimal
	OriginalAmount   *decimal.Decimal
	OriginalCurrency *string
	TransactionDate  *time.Time
	Description      *string
	Location         *string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	CategoryID *string
	FromDate   *time.Time
	ToDate     *time.Time
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID, tripID string, input CreateTransactionInput) (*models.Transaction, error)
	GetTripTransactions(userID, tripID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetAllTripTransactions(tripID string) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, tripID, transactionID string, input UpdateTransactionInput) (*models.Transaction, error)
	DeleteTransaction(userID, tripID, transactionID string) error
}

// AnalyticsServicer defines the contract for trip spending analytics.
type AnalyticsServicer interface {
	GetSpendingForecast(userID, tripID string) (*forecast.Forecast, error)
}

// CategoryClassifier is the classifier as seen by handlers: predictions
// plus retraining and status.
type CategoryClassifier interface {
	classifier.Predictor
	Train(ctx context.Context) classifier.TrainResult
	Status() classifier.Status
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
