// Package forecast projects a trip's end-of-trip budget balance from the
// spending recorded so far. It is a pure computation over already loaded
// records; callers supply the trip, its transactions and the current time.
package forecast

import (
	"fmt"
	"time"

	apperrors "tripbudget/internal/errors"
	"tripbudget/internal/models"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// StatusEndedByDate is reported instead of the stored status when the
// calendar has moved past the trip's end date but nobody closed the trip.
const StatusEndedByDate = "ended_by_date"

const (
	msgClosed      = "Forecasting is not available for completed or cancelled trips."
	msgEndedByDate = "The trip has already ended according to its dates."
)

// CurrencyInfo is the display form of the trip currency.
type CurrencyInfo struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Forecast is the result of Compute. Terminal results carry Message and a
// nil Projection.
type Forecast struct {
	TripTitle  string          `json:"trip_title"`
	TripStatus string          `json:"trip_status"`
	Budget     decimal.Decimal `json:"budget"`
	Currency   CurrencyInfo    `json:"currency"`
	Message    string          `json:"message,omitempty"`

	*Projection
}

// Projection holds the day accounting and linear projection figures.
// Monetary values are rounded to two places.
type Projection struct {
	StartDate                  civil.Date      `json:"start_date"`
	EndDate                    civil.Date      `json:"end_date"`
	TotalTripDays              int             `json:"total_trip_days"`
	DaysPassed                 int             `json:"days_passed"`
	DaysRemaining              int             `json:"days_remaining"`
	TotalSpent                 decimal.Decimal `json:"total_spent"`
	RemainingBudget            decimal.Decimal `json:"remaining_budget"`
	AverageDailySpending       decimal.Decimal `json:"average_daily_spending"`
	ProjectedRemainingSpending decimal.Decimal `json:"projected_remaining_spending"`
	ProjectedEndOfTripBalance  decimal.Decimal `json:"projected_end_of_trip_balance"`
	Advice                     string          `json:"advice"`
}

// Terminal reports whether the forecast carries no projection.
func (f *Forecast) Terminal() bool {
	return f.Projection == nil
}

// Today truncates now to a calendar day in loc. A nil loc keeps now's own zone.
func Today(now time.Time, loc *time.Location) civil.Date {
	if loc != nil {
		now = now.In(loc)
	}
	return civil.DateOf(now)
}

// Compute builds the forecast for trip as of the calendar day today.
// Transactions are assumed to be in the trip currency already.
func Compute(trip *models.Trip, transactions []models.Transaction, today civil.Date) (*Forecast, error) {
	f := &Forecast{
		TripTitle:  trip.Title,
		TripStatus: string(trip.Status),
		Budget:     trip.Budget.Round(2),
		Currency: CurrencyInfo{
			Code:   trip.Currency.Code,
			Name:   trip.Currency.Name,
			Symbol: trip.Currency.Symbol,
		},
	}

	if trip.Status.IsClosed() {
		f.Message = msgClosed
		return f, nil
	}

	start := civil.DateOf(trip.StartDate)
	end := civil.DateOf(trip.EndDate)

	totalTripDays := end.DaysSince(start) + 1
	if totalTripDays <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidDateRange,
			fmt.Sprintf("Trip dates are invalid: end date %s is before start date %s", end, start))
	}

	if today.After(end) && trip.Status != models.TripStatusCompleted {
		f.TripStatus = StatusEndedByDate
		f.Message = msgEndedByDate
		return f, nil
	}

	daysPassed := 0
	if !today.Before(start) {
		daysPassed = min(today.DaysSince(start)+1, totalTripDays)
	}
	daysRemaining := max(totalTripDays-daysPassed, 0)

	totalSpent := decimal.Zero
	for i := range transactions {
		totalSpent = totalSpent.Add(transactions[i].Amount)
	}
	remaining := trip.Budget.Sub(totalSpent)

	// The projection multiplies before dividing so that spending at the
	// planned pace breaks even exactly.
	var average, projected decimal.Decimal
	switch {
	case daysPassed > 0:
		average = totalSpent.Div(decimal.NewFromInt(int64(daysPassed)))
		projected = totalSpent.Mul(decimal.NewFromInt(int64(daysRemaining))).
			Div(decimal.NewFromInt(int64(daysPassed)))
	default:
		average = trip.Budget.Div(decimal.NewFromInt(int64(totalTripDays)))
		projected = trip.Budget.Mul(decimal.NewFromInt(int64(daysRemaining))).
			Div(decimal.NewFromInt(int64(totalTripDays)))
	}
	balance := remaining.Sub(projected)

	p := &Projection{
		StartDate:                  start,
		EndDate:                    end,
		TotalTripDays:              totalTripDays,
		DaysPassed:                 daysPassed,
		DaysRemaining:              daysRemaining,
		TotalSpent:                 totalSpent.Round(2),
		RemainingBudget:            remaining.Round(2),
		AverageDailySpending:       average.Round(2),
		ProjectedRemainingSpending: projected.Round(2),
		ProjectedEndOfTripBalance:  balance.Round(2),
	}

	notStarted := trip.Status == models.TripStatusPlanned && today.Before(start)
	p.Advice = advise(trip.Budget, trip.Currency.Code, notStarted, p)

	f.Projection = p
	return f, nil
}
