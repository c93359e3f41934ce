package engine

import "github.com/stocklens/reorder/internal/domain"

// ProjectionHorizonDays is the length of the depletion projection.
const ProjectionHorizonDays = 30

// ProjectDepletion produces the day-indexed depletion curve: straight-line
// consumption at the estimated daily rate, clamped at zero. No restocking, no
// demand variance. It is a reference line to draw against the reorder point,
// not a forecast.
func ProjectDepletion(stockOnHand int, dailyDemandRate float64) []domain.ProjectionPoint {
	points := make([]domain.ProjectionPoint, ProjectionHorizonDays)
	for day := 0; day < ProjectionHorizonDays; day++ {
		projected := float64(stockOnHand) - dailyDemandRate*float64(day)
		if projected < 0 {
			projected = 0
		}
		points[day] = domain.ProjectionPoint{Day: day, ProjectedStock: projected}
	}
	return points
}
