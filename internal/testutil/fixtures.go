package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"tripbudget/internal/classifier"
	"tripbudget/internal/models"
	"tripbudget/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewUserID returns a fresh user identifier. Users live in the identity
// service, so tests only need their IDs.
func NewUserID() string {
	return uuid.New()
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestCurrency creates a currency with the given ISO code.
func CreateTestCurrency(t *testing.T, db *gorm.DB, code string) *models.Currency {
	t.Helper()

	currency := &models.Currency{
		Code:   code,
		Name:   code + " currency",
		Symbol: code,
	}
	if err := db.Create(currency).Error; err != nil {
		t.Fatalf("failed to create test currency: %v", err)
	}
	return currency
}

// CreateTestCategory creates a category with the given name.
func CreateTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category %q: %v", name, err)
	}
	return category
}

// SeedCategories creates every category of the built-in classifier corpus
// and returns them keyed by name.
func SeedCategories(t *testing.T, db *gorm.DB) map[string]*models.Category {
	t.Helper()

	out := make(map[string]*models.Category)
	for _, c := range classifier.DefaultCorpus().Categories {
		out[c.Name] = CreateTestCategory(t, db, c.Name)
	}
	return out
}

// CreateTestTrip creates a planned trip for userID.
func CreateTestTrip(t *testing.T, db *gorm.DB, userID, currencyID, budget string, start, end time.Time) *models.Trip {
	t.Helper()
	return CreateTestTripWithStatus(t, db, userID, currencyID, budget, start, end, models.TripStatusPlanned)
}

// CreateTestTripWithStatus creates a trip in the given status.
func CreateTestTripWithStatus(t *testing.T, db *gorm.DB, userID, currencyID, budget string, start, end time.Time, status models.TripStatus) *models.Trip {
	t.Helper()

	trip := &models.Trip{
		UserID:     userID,
		Title:      fmt.Sprintf("Test Trip %d", nextID()),
		StartDate:  start,
		EndDate:    end,
		Budget:     decimal.RequireFromString(budget),
		CurrencyID: currencyID,
		Status:     status,
	}
	if err := db.Create(trip).Error; err != nil {
		t.Fatalf("failed to create test trip: %v", err)
	}
	return trip
}

// CreateTestTransaction creates a transaction on a trip.
func CreateTestTransaction(t *testing.T, db *gorm.DB, tripID, categoryID, amount string, date time.Time) *models.Transaction {
	t.Helper()

	description := fmt.Sprintf("Test expense %d", nextID())
	transaction := &models.Transaction{
		TripID:          tripID,
		CategoryID:      categoryID,
		Amount:          decimal.RequireFromString(amount),
		TransactionDate: date,
		Description:     &description,
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}
