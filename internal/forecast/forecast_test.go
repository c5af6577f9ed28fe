package forecast

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"tripbudget/internal/models"
	"tripbudget/internal/testutil"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func newTrip(budget string, start, end time.Time, status models.TripStatus) *models.Trip {
	return &models.Trip{
		Title:     "Carpathians",
		StartDate: start,
		EndDate:   end,
		Budget:    decimal.RequireFromString(budget),
		Status:    status,
		Currency:  models.Currency{Code: "USD", Name: "US Dollar", Symbol: "$"},
	}
}

func spend(amounts ...string) []models.Transaction {
	txs := make([]models.Transaction, 0, len(amounts))
	for _, a := range amounts {
		txs = append(txs, models.Transaction{Amount: decimal.RequireFromString(a)})
	}
	return txs
}

func assertMoney(t *testing.T, field, want string, got decimal.Decimal) {
	t.Helper()
	if got.StringFixed(2) != want {
		t.Errorf("%s: expected %s, got %s", field, want, got.StringFixed(2))
	}
}

func assertDays(t *testing.T, f *Forecast, total, passed, remaining int) {
	t.Helper()
	if f.TotalTripDays != total || f.DaysPassed != passed || f.DaysRemaining != remaining {
		t.Errorf("expected days total/passed/remaining %d/%d/%d, got %d/%d/%d",
			total, passed, remaining, f.TotalTripDays, f.DaysPassed, f.DaysRemaining)
	}
}

func assertAdvice(t *testing.T, f *Forecast, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(f.Advice, want) {
			t.Errorf("expected advice to contain %q, got %q", want, f.Advice)
		}
	}
}

func mustCompute(t *testing.T, trip *models.Trip, txs []models.Transaction, today civil.Date) *Forecast {
	t.Helper()
	f, err := Compute(trip, txs, today)
	testutil.AssertNoError(t, err)
	return f
}

func TestCompute_MidTrip(t *testing.T) {
	trip := newTrip("1000", date(2024, 1, 1), date(2024, 1, 10), models.TripStatusActive)

	f := mustCompute(t, trip, spend("100", "120.50", "79.50"), day(2024, 1, 5))
	if f.Terminal() {
		t.Fatal("expected a projection")
	}

	if f.TripTitle != "Carpathians" || f.TripStatus != "active" || f.Currency.Code != "USD" {
		t.Errorf("unexpected header %q/%q/%q", f.TripTitle, f.TripStatus, f.Currency.Code)
	}
	if f.StartDate != day(2024, 1, 1) || f.EndDate != day(2024, 1, 10) {
		t.Errorf("unexpected dates %s..%s", f.StartDate, f.EndDate)
	}
	assertDays(t, f, 10, 5, 5)
	assertMoney(t, "total spent", "300.00", f.TotalSpent)
	assertMoney(t, "remaining budget", "700.00", f.RemainingBudget)
	assertMoney(t, "average daily spending", "60.00", f.AverageDailySpending)
	assertMoney(t, "projected remaining spending", "300.00", f.ProjectedRemainingSpending)
	assertMoney(t, "projected balance", "400.00", f.ProjectedEndOfTripBalance)
	assertAdvice(t, f,
		"Current average daily spending: 60.00 USD",
		"Days left: 5",
		"You are within budget. Projected balance at the end: 400.00 USD.",
	)
}

func TestCompute_EndedByDate(t *testing.T) {
	for _, status := range []models.TripStatus{models.TripStatusActive, models.TripStatusPlanned} {
		t.Run(string(status), func(t *testing.T) {
			trip := newTrip("1000", date(2024, 1, 1), date(2024, 1, 10), status)

			f := mustCompute(t, trip, spend("300"), day(2024, 1, 15))

			if !f.Terminal() {
				t.Fatal("expected a terminal forecast")
			}
			if f.TripStatus != StatusEndedByDate {
				t.Errorf("expected status %s, got %s", StatusEndedByDate, f.TripStatus)
			}
			if f.Message != msgEndedByDate {
				t.Errorf("unexpected message %q", f.Message)
			}
			assertMoney(t, "budget", "1000.00", f.Budget)
		})
	}
}

func TestCompute_ClosedTrips(t *testing.T) {
	for _, status := range []models.TripStatus{models.TripStatusCompleted, models.TripStatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			// Closed trips short-circuit before the dates are looked at.
			trip := newTrip("500", date(2024, 1, 10), date(2024, 1, 1), status)

			f := mustCompute(t, trip, spend("10"), day(2024, 1, 5))

			if !f.Terminal() {
				t.Fatal("expected a terminal forecast")
			}
			if f.TripStatus != string(status) || f.Message != msgClosed {
				t.Errorf("unexpected result %q/%q", f.TripStatus, f.Message)
			}
			if f.Currency.Name != "US Dollar" {
				t.Errorf("expected currency name, got %q", f.Currency.Name)
			}
		})
	}
}

func TestCompute_InvalidDateRange(t *testing.T) {
	trip := newTrip("500", date(2024, 1, 10), date(2024, 1, 9), models.TripStatusPlanned)

	f, err := Compute(trip, nil, day(2024, 1, 1))
	testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")
	if f != nil {
		t.Errorf("expected no forecast, got %+v", f)
	}
}

func TestCompute_SingleDayTrip(t *testing.T) {
	start := date(2024, 3, 8)

	t.Run("before the day", func(t *testing.T) {
		trip := newTrip("100", start, start, models.TripStatusPlanned)

		f := mustCompute(t, trip, nil, day(2024, 3, 7))

		assertDays(t, f, 1, 0, 1)
		assertMoney(t, "average daily spending", "100.00", f.AverageDailySpending)
		assertMoney(t, "projected remaining spending", "100.00", f.ProjectedRemainingSpending)
		assertMoney(t, "projected balance", "0.00", f.ProjectedEndOfTripBalance)
		assertAdvice(t, f, "The trip is planned.")
	})

	t.Run("on the day", func(t *testing.T) {
		trip := newTrip("100", start, start, models.TripStatusActive)

		f := mustCompute(t, trip, spend("40"), day(2024, 3, 8))

		assertDays(t, f, 1, 1, 0)
		assertMoney(t, "average daily spending", "40.00", f.AverageDailySpending)
		assertMoney(t, "projected remaining spending", "0.00", f.ProjectedRemainingSpending)
		assertMoney(t, "projected balance", "60.00", f.ProjectedEndOfTripBalance)
		if want := "The trip is ending or has ended. Remaining budget: 60.00 USD."; f.Advice != want {
			t.Errorf("expected advice %q, got %q", want, f.Advice)
		}
	})

	t.Run("the day after", func(t *testing.T) {
		trip := newTrip("100", start, start, models.TripStatusActive)

		f := mustCompute(t, trip, spend("40"), day(2024, 3, 9))
		if f.TripStatus != StatusEndedByDate {
			t.Errorf("expected status %s, got %s", StatusEndedByDate, f.TripStatus)
		}
	})
}

func TestCompute_DayOfArrival(t *testing.T) {
	// Arrival day already counts as a day passed, so the actual pace is
	// used even though the planned trip has not been marked active.
	trip := newTrip("1000", date(2024, 1, 1), date(2024, 1, 10), models.TripStatusPlanned)

	f := mustCompute(t, trip, nil, day(2024, 1, 1))
	assertDays(t, f, 10, 1, 9)
	assertMoney(t, "average daily spending", "0.00", f.AverageDailySpending)
	assertMoney(t, "projected remaining spending", "0.00", f.ProjectedRemainingSpending)
	assertMoney(t, "projected balance", "1000.00", f.ProjectedEndOfTripBalance)
	assertAdvice(t, f, "Current average daily spending: 0.00 USD")

	f = mustCompute(t, trip, nil, day(2023, 12, 31))
	assertDays(t, f, 10, 0, 10)
	assertMoney(t, "average daily spending", "100.00", f.AverageDailySpending)
}

func TestCompute_PlannedPaceBreaksEven(t *testing.T) {
	budgets := []string{"0", "0.01", "100", "1000", "2000", "333.33", "12345.67"}

	for _, budget := range budgets {
		for n := 1; n <= 31; n++ {
			start := date(2024, 2, 1)
			end := start.AddDate(0, 0, n-1)
			trip := newTrip(budget, start, end, models.TripStatusPlanned)

			f := mustCompute(t, trip, nil, day(2024, 1, 20))

			want := decimal.RequireFromString(budget).Div(decimal.NewFromInt(int64(n))).Round(2)
			if f.TotalTripDays != n {
				t.Errorf("budget %s over %d days: total days %d", budget, n, f.TotalTripDays)
			}
			if !want.Equal(f.AverageDailySpending) {
				t.Errorf("budget %s over %d days: average %s, want %s", budget, n, f.AverageDailySpending, want)
			}
			if !f.ProjectedEndOfTripBalance.IsZero() {
				t.Errorf("budget %s over %d days: balance %s", budget, n, f.ProjectedEndOfTripBalance)
			}
			assertAdvice(t, f, "Projected balance at the end: 0.00 USD if you spend as planned.")
		}
	}
}

func TestCompute_OverspendAdvice(t *testing.T) {
	tests := []struct {
		name   string
		status models.TripStatus
		today  civil.Date
		wants  []string
	}{
		{
			name:   "not started",
			status: models.TripStatusPlanned,
			today:  day(2024, 4, 25),
			wants:  []string{"Already spent before the trip: 150.00 USD", "Actual remaining budget: -50.00 USD", "a deficit of 150.00 USD", "already exhausted"},
		},
		{
			name:   "in progress",
			status: models.TripStatusActive,
			today:  day(2024, 5, 2),
			wants:  []string{"Remaining budget: -50.00 USD", "Projected deficit:"},
		},
		{
			name:   "ending",
			status: models.TripStatusActive,
			today:  day(2024, 5, 5),
			wants:  []string{"You exceeded the budget by 50.00 USD."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := newTrip("100", date(2024, 5, 1), date(2024, 5, 5), tt.status)

			f := mustCompute(t, trip, spend("100", "50"), tt.today)

			if !f.RemainingBudget.IsNegative() {
				t.Errorf("expected a negative remaining budget, got %s", f.RemainingBudget)
			}
			assertAdvice(t, f, tt.wants...)
		})
	}
}

func TestCompute_PreTripSpendingSafeRate(t *testing.T) {
	trip := newTrip("1000", date(2024, 6, 1), date(2024, 6, 10), models.TripStatusPlanned)

	f := mustCompute(t, trip, spend("100"), day(2024, 5, 20))

	assertMoney(t, "average daily spending", "100.00", f.AverageDailySpending)
	assertMoney(t, "projected remaining spending", "1000.00", f.ProjectedRemainingSpending)
	assertMoney(t, "projected balance", "-100.00", f.ProjectedEndOfTripBalance)
	assertAdvice(t, f,
		"over the 10 days of the trip, a deficit of 100.00 USD is projected.",
		"To stay within the remaining 900.00 USD, spend no more than 90.00 USD per day.",
	)
}

func TestCompute_PaceWarning(t *testing.T) {
	trip := newTrip("1000", date(2024, 1, 1), date(2024, 1, 10), models.TripStatusActive)

	f := mustCompute(t, trip, spend("800"), day(2024, 1, 4))

	assertMoney(t, "average daily spending", "200.00", f.AverageDailySpending)
	assertMoney(t, "projected remaining spending", "1200.00", f.ProjectedRemainingSpending)
	assertMoney(t, "projected balance", "-1000.00", f.ProjectedEndOfTripBalance)
	assertAdvice(t, f, "Warning! At this pace the budget may run out. Projected deficit: 1000.00 USD.")
}

func TestCompute_RoundsOnlyForOutput(t *testing.T) {
	trip := newTrip("100", date(2024, 1, 1), date(2024, 1, 10), models.TripStatusActive)

	f := mustCompute(t, trip, spend("10"), day(2024, 1, 3))

	// 10/3 per day over 7 more days is 23.333..., not 3.33*7.
	assertMoney(t, "average daily spending", "3.33", f.AverageDailySpending)
	assertMoney(t, "projected remaining spending", "23.33", f.ProjectedRemainingSpending)
	assertMoney(t, "projected balance", "66.67", f.ProjectedEndOfTripBalance)
}

func TestToday(t *testing.T) {
	now := time.Date(2024, 1, 5, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		loc  *time.Location
		want civil.Date
	}{
		{"nil location keeps the zone", nil, day(2024, 1, 5)},
		{"utc", time.UTC, day(2024, 1, 5)},
		{"ahead of utc", time.FixedZone("UTC+2", 2*60*60), day(2024, 1, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Today(now, tt.loc); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestForecast_JSON(t *testing.T) {
	trip := newTrip("1000", date(2024, 1, 1), date(2024, 1, 10), models.TripStatusActive)

	encode := func(t *testing.T, f *Forecast) map[string]any {
		t.Helper()
		raw, err := json.Marshal(f)
		testutil.AssertNoError(t, err)
		var body map[string]any
		testutil.AssertNoError(t, json.Unmarshal(raw, &body))
		return body
	}

	t.Run("projection fields are flattened", func(t *testing.T) {
		body := encode(t, mustCompute(t, trip, spend("300"), day(2024, 1, 5)))

		if body["start_date"] != "2024-01-01" {
			t.Errorf("expected start_date 2024-01-01, got %v", body["start_date"])
		}
		if body["days_passed"] != float64(5) {
			t.Errorf("expected days_passed 5, got %v", body["days_passed"])
		}
		if _, ok := body["message"]; ok {
			t.Error("expected no message on a projection")
		}
	})

	t.Run("terminal forecasts omit projection fields", func(t *testing.T) {
		body := encode(t, mustCompute(t, trip, nil, day(2024, 2, 1)))

		if body["trip_status"] != StatusEndedByDate {
			t.Errorf("expected trip_status %s, got %v", StatusEndedByDate, body["trip_status"])
		}
		for _, key := range []string{"days_passed", "advice"} {
			if _, ok := body[key]; ok {
				t.Errorf("expected %s to be omitted", key)
			}
		}
	})
}
