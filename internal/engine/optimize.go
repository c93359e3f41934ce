package engine

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/stocklens/reorder/internal/domain"
)

// Risk-policy constants. These encode the domain's scoring rules and are not
// tunable: every day of average delay beyond the contract costs 10 points,
// every day of lead-time deviation costs 5.
const (
	delayPenaltyPerDay    = 10.0
	variancePenaltyPerDay = 5.0

	// serviceLevelZ approximates a one-tailed 95% service-level z-score.
	// Fixed policy constant, not a derived statistic.
	serviceLevelZ = 1.65

	// minBufferDays floors the recommended safety stock at this many days of
	// demand, whatever the variance term says.
	minBufferDays = 2.0
)

// Optimization is the numeric core of an analysis: score, buffer and
// reorder point, before any presentation-facing signals are attached.
type Optimization struct {
	ReliabilityScore         float64
	RecommendedSafetyStock   int
	RiskAdjustedReorderPoint float64
}

// Optimize combines the contracted lead time, the observed lead-time
// distribution and the daily demand rate into a reliability score and a
// risk-adjusted reorder recommendation. Preconditions (a present reliability
// summary, a non-empty demand history) are the caller's to enforce.
func Optimize(contractedLeadTimeDays float64, rel domain.ReliabilitySummary, dailyDemandRate float64) Optimization {
	delayPenalty := math.Max(0, rel.MeanLeadTimeDays-contractedLeadTimeDays) * delayPenaltyPerDay
	variancePenalty := rel.StdDevLeadTimeDays * variancePenaltyPerDay

	score := 100 - (delayPenalty + variancePenalty)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	recommended := int(math.Floor(dailyDemandRate*rel.MeanLeadTimeDays + serviceLevelZ*rel.StdDevLeadTimeDays*dailyDemandRate))
	if floor := int(math.Floor(dailyDemandRate * minBufferDays)); recommended < floor {
		recommended = floor
	}

	return Optimization{
		ReliabilityScore:         score,
		RecommendedSafetyStock:   recommended,
		RiskAdjustedReorderPoint: dailyDemandRate*rel.MeanLeadTimeDays + float64(recommended),
	}
}

// ReliabilityTier buckets a score into the contract's three bands. A score of
// exactly 60 is moderate risk, exactly 80 is reliable.
func ReliabilityTier(score float64) string {
	switch {
	case score < 60:
		return domain.TierHighRisk
	case score < 80:
		return domain.TierModerateRisk
	default:
		return domain.TierReliable
	}
}

// InventoryCostDelta prices the gap between the configured and the recommended
// safety stock. Positive means excess inventory (capital to release), negative
// means shortfall risk (capital to invest), zero means optimal.
func InventoryCostDelta(configured, recommended int, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(configured - recommended)).Mul(unitPrice)
}

// ShouldReorder reports whether stock on hand has fallen below the
// risk-adjusted reorder point.
func ShouldReorder(stockOnHand int, reorderPoint float64) bool {
	return float64(stockOnHand) < reorderPoint
}
