package engine

import (
	"math"

	"github.com/stocklens/reorder/internal/domain"
)

// SummarizeLeadTimes reduces a product's shipment history to the observed
// lead-time distribution. Orders without a shipped date are still in transit
// and are skipped. The standard deviation is the sample deviation, and stays 0
// below two deliveries. Returns ok=false when nothing has been delivered yet.
func SummarizeLeadTimes(shipments []domain.ShipmentRecord) (domain.ReliabilitySummary, bool) {
	leadTimes := make([]float64, 0, len(shipments))
	for _, s := range shipments {
		if !s.Delivered() {
			continue
		}
		leadTimes = append(leadTimes, s.LeadTimeDays())
	}

	if len(leadTimes) == 0 {
		return domain.ReliabilitySummary{}, false
	}

	var sum float64
	for _, lt := range leadTimes {
		sum += lt
	}
	mean := sum / float64(len(leadTimes))

	stddev := 0.0
	if len(leadTimes) >= 2 {
		var sq float64
		for _, lt := range leadTimes {
			d := lt - mean
			sq += d * d
		}
		stddev = math.Sqrt(sq / float64(len(leadTimes)-1))
	}

	return domain.ReliabilitySummary{
		MeanLeadTimeDays:   mean,
		StdDevLeadTimeDays: stddev,
		Deliveries:         len(leadTimes),
	}, true
}
