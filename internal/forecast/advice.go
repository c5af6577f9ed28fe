package forecast

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type money struct {
	code string
}

func (m money) format(d decimal.Decimal) string {
	return d.StringFixed(2) + " " + m.code
}

// advise picks the guidance text for the phase of the trip. It reads the
// rounded figures so that the wording always agrees with the numbers shown.
func advise(budget decimal.Decimal, currency string, notStarted bool, p *Projection) string {
	m := money{code: currency}
	var b strings.Builder

	switch {
	case notStarted:
		fmt.Fprintf(&b, "The trip is planned. Total budget: %s. ", m.format(budget))
		fmt.Fprintf(&b, "Planned average daily spending for the whole budget: %s. ", m.format(p.AverageDailySpending))

		if !p.TotalSpent.IsPositive() {
			fmt.Fprintf(&b, "Projected balance at the end: %s if you spend as planned.", m.format(p.ProjectedEndOfTripBalance))
			break
		}

		fmt.Fprintf(&b, "Already spent before the trip: %s. ", m.format(p.TotalSpent))
		fmt.Fprintf(&b, "Actual remaining budget: %s. ", m.format(p.RemainingBudget))
		if p.ProjectedEndOfTripBalance.IsNegative() {
			fmt.Fprintf(&b, "If you spend at the planned pace (%s/day) over the %d days of the trip, a deficit of %s is projected.",
				m.format(p.AverageDailySpending), p.DaysRemaining, m.format(p.ProjectedEndOfTripBalance.Abs()))
		} else {
			fmt.Fprintf(&b, "If you spend at the planned pace over the %d days of the trip, the projected balance at the end is %s.",
				p.DaysRemaining, m.format(p.ProjectedEndOfTripBalance))
		}

		switch {
		case p.DaysRemaining > 0 && p.RemainingBudget.IsPositive():
			safe := p.RemainingBudget.Div(decimal.NewFromInt(int64(p.DaysRemaining)))
			fmt.Fprintf(&b, " To stay within the remaining %s, spend no more than %s per day.",
				m.format(p.RemainingBudget), m.format(safe))
		case p.DaysRemaining > 0:
			b.WriteString(" The budget is already exhausted or in deficit.")
		}

	case p.DaysRemaining > 0:
		fmt.Fprintf(&b, "Current average daily spending: %s. ", m.format(p.AverageDailySpending))
		fmt.Fprintf(&b, "Remaining budget: %s. Days left: %d. ", m.format(p.RemainingBudget), p.DaysRemaining)
		if p.ProjectedEndOfTripBalance.IsNegative() {
			fmt.Fprintf(&b, "Warning! At this pace the budget may run out. Projected deficit: %s.",
				m.format(p.ProjectedEndOfTripBalance.Abs()))
		} else {
			fmt.Fprintf(&b, "You are within budget. Projected balance at the end: %s.",
				m.format(p.ProjectedEndOfTripBalance))
		}

	default:
		if p.RemainingBudget.IsNegative() {
			fmt.Fprintf(&b, "The trip is ending or has ended. You exceeded the budget by %s.",
				m.format(p.RemainingBudget.Abs()))
		} else {
			fmt.Fprintf(&b, "The trip is ending or has ended. Remaining budget: %s.",
				m.format(p.RemainingBudget))
		}
	}

	return b.String()
}
