package services

import (
	"time"

	"tripbudget/internal/forecast"
	"tripbudget/internal/models"
)

// analyticsService computes spending forecasts for trips.
type analyticsService struct {
	trips        TripServicer
	transactions TransactionServicer
	now          func() time.Time
	loc          *time.Location
}

// NewAnalyticsService creates a new AnalyticsServicer. now supplies the
// current time and loc decides which calendar day it falls on.
func NewAnalyticsService(trips TripServicer, transactions TransactionServicer, now func() time.Time, loc *time.Location) AnalyticsServicer {
	if now == nil {
		now = time.Now
	}
	return &analyticsService{
		trips:        trips,
		transactions: transactions,
		now:          now,
		loc:          loc,
	}
}

// GetSpendingForecast loads the user's trip and forecasts its spending as
// of today. Closed trips get their informational result without loading
// any transactions.
func (s *analyticsService) GetSpendingForecast(userID, tripID string) (*forecast.Forecast, error) {
	trip, err := s.trips.GetTripByID(userID, tripID)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if !trip.Status.IsClosed() {
		transactions, err = s.transactions.GetAllTripTransactions(trip.ID)
		if err != nil {
			return nil, err
		}
	}

	return forecast.Compute(trip, transactions, forecast.Today(s.now(), s.loc))
}
