// Package engine implements the reorder-point analytics: demand-rate
// estimation, supplier lead-time reliability, the safety-stock / reorder-point
// optimization, and the stock-depletion projection. Everything here is a pure
// function of its inputs; data access and presentation live elsewhere.
package engine

import "github.com/stocklens/reorder/internal/domain"

// daysPerMonth flattens a monthly total into a daily rate. A fixed 30-day
// divisor is a deliberate simplification; it is not calendar-accurate.
const daysPerMonth = 30.0

// DailyDemandRate averages the monthly totals and converts them to a per-day
// rate. The average runs over the months that had orders, not over the
// calendar: months without orders have no row. Returns ok=false for an empty
// input, which callers must surface as insufficient history.
func DailyDemandRate(rows []domain.MonthlyDemand) (float64, bool) {
	if len(rows) == 0 {
		return 0, false
	}

	total := 0
	for _, row := range rows {
		total += row.TotalQuantity
	}

	avgMonthly := float64(total) / float64(len(rows))
	return avgMonthly / daysPerMonth, true
}
