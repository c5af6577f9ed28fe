package services

import (
	"errors"
	"testing"
	"time"

	"tripbudget/internal/forecast"
	"tripbudget/internal/models"
	"tripbudget/internal/testutil"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGetSpendingForecast(t *testing.T) {
	t.Run("mid_trip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		f := setupTransactionFixture(t, db)
		db.Model(f.trip).Update("status", models.TripStatusActive)
		testutil.CreateTestTransaction(t, db, f.trip.ID, f.categories["Харчування"].ID, "100", testutil.Date(2024, 1, 1))
		testutil.CreateTestTransaction(t, db, f.trip.ID, f.categories["Транспорт"].ID, "200", testutil.Date(2024, 1, 3))

		trips := NewTripService(db)
		svc := NewAnalyticsService(trips, f.svc, fixedClock(time.Date(2024, 1, 5, 15, 0, 0, 0, time.UTC)), time.UTC)

		result, err := svc.GetSpendingForecast(f.userID, f.trip.ID)
		testutil.AssertNoError(t, err)

		if result.Terminal() {
			t.Fatalf("expected a projection, got message %q", result.Message)
		}
		if result.DaysPassed != 5 || result.DaysRemaining != 5 {
			t.Errorf("expected 5/5 days, got %d/%d", result.DaysPassed, result.DaysRemaining)
		}
		testutil.AssertDecimal(t, result.AverageDailySpending, "60")
		testutil.AssertDecimal(t, result.ProjectedEndOfTripBalance, "400")
		if result.Currency.Code != "USD" {
			t.Errorf("expected USD, got %q", result.Currency.Code)
		}
	})

	t.Run("time_zone_decides_today", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		f := setupTransactionFixture(t, db)

		// 23:30 UTC on Dec 31 is already Jan 1 two hours east.
		now := time.Date(2023, 12, 31, 23, 30, 0, 0, time.UTC)
		trips := NewTripService(db)

		utc, err := NewAnalyticsService(trips, f.svc, fixedClock(now), time.UTC).GetSpendingForecast(f.userID, f.trip.ID)
		testutil.AssertNoError(t, err)
		east, err := NewAnalyticsService(trips, f.svc, fixedClock(now), time.FixedZone("EET", 2*60*60)).GetSpendingForecast(f.userID, f.trip.ID)
		testutil.AssertNoError(t, err)

		if utc.DaysPassed != 0 || east.DaysPassed != 1 {
			t.Errorf("expected 0 and 1 days passed, got %d and %d", utc.DaysPassed, east.DaysPassed)
		}
	})

	t.Run("closed_trip_skips_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		f := setupTransactionFixture(t, db)
		db.Model(f.trip).Update("status", models.TripStatusCancelled)

		txs := &countingTransactions{TransactionServicer: f.svc}
		svc := NewAnalyticsService(NewTripService(db), txs, fixedClock(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)), time.UTC)

		result, err := svc.GetSpendingForecast(f.userID, f.trip.ID)
		testutil.AssertNoError(t, err)

		if !result.Terminal() || result.TripStatus != "cancelled" {
			t.Errorf("expected a terminal cancelled forecast, got %+v", result)
		}
		if txs.calls != 0 {
			t.Errorf("expected no transaction loads, got %d", txs.calls)
		}
	})

	t.Run("ended_by_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		f := setupTransactionFixture(t, db)

		svc := NewAnalyticsService(NewTripService(db), f.svc, fixedClock(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)), time.UTC)
		result, err := svc.GetSpendingForecast(f.userID, f.trip.ID)
		testutil.AssertNoError(t, err)

		if result.TripStatus != forecast.StatusEndedByDate {
			t.Errorf("expected %s, got %s", forecast.StatusEndedByDate, result.TripStatus)
		}
	})

	t.Run("foreign_trip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		f := setupTransactionFixture(t, db)

		svc := NewAnalyticsService(NewTripService(db), f.svc, nil, nil)
		_, err := svc.GetSpendingForecast(testutil.NewUserID(), f.trip.ID)
		testutil.AssertAppError(t, err, "TRIP_NOT_FOUND")
	})

	t.Run("transaction_load_failure", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		f := setupTransactionFixture(t, db)

		txs := &countingTransactions{TransactionServicer: f.svc, err: errors.New("db down")}
		svc := NewAnalyticsService(NewTripService(db), txs, nil, nil)
		if _, err := svc.GetSpendingForecast(f.userID, f.trip.ID); err == nil {
			t.Error("expected the load error to propagate")
		}
	})
}

// countingTransactions wraps a TransactionServicer and counts full loads.
type countingTransactions struct {
	TransactionServicer
	calls int
	err   error
}

func (c *countingTransactions) GetAllTripTransactions(tripID string) ([]models.Transaction, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.TransactionServicer.GetAllTripTransactions(tripID)
}
