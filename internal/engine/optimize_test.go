package engine

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/stocklens/reorder/internal/domain"
)

func TestOptimize_OnTimeSupplier(t *testing.T) {
	rel := domain.ReliabilitySummary{MeanLeadTimeDays: 5, StdDevLeadTimeDays: 0, Deliveries: 10}

	result := Optimize(5, rel, 10)

	if result.ReliabilityScore != 100 {
		t.Errorf("score = %v, want 100 (no delay, no variance)", result.ReliabilityScore)
	}
}

func TestOptimize_LateAndInconsistentSupplier(t *testing.T) {
	// 3 days of average delay (30 points) plus 2 days of deviation (10 points).
	rel := domain.ReliabilitySummary{MeanLeadTimeDays: 8, StdDevLeadTimeDays: 2, Deliveries: 12}

	result := Optimize(5, rel, 10)

	if result.ReliabilityScore != 60 {
		t.Errorf("score = %v, want 60", result.ReliabilityScore)
	}
	// 60 sits on the tier boundary and is moderate risk, not high risk.
	if tier := ReliabilityTier(result.ReliabilityScore); tier != domain.TierModerateRisk {
		t.Errorf("tier = %q, want %q", tier, domain.TierModerateRisk)
	}
}

func TestOptimize_SafetyStockRecommendation(t *testing.T) {
	rel := domain.ReliabilitySummary{MeanLeadTimeDays: 8, StdDevLeadTimeDays: 2, Deliveries: 12}

	result := Optimize(5, rel, 10)

	// floor(10*8 + 1.65*2*10) = floor(113) = 113
	if result.RecommendedSafetyStock != 113 {
		t.Errorf("recommended safety stock = %d, want 113", result.RecommendedSafetyStock)
	}
	if floor := int(math.Floor(10 * 2.0)); result.RecommendedSafetyStock < floor {
		t.Errorf("recommended safety stock %d violates the two-day floor %d", result.RecommendedSafetyStock, floor)
	}
}

func TestOptimize_TwoDayBufferFloor(t *testing.T) {
	// Short lead time and no variance: the raw recommendation would be one day
	// of demand, the floor lifts it to two.
	rel := domain.ReliabilitySummary{MeanLeadTimeDays: 1, StdDevLeadTimeDays: 0, Deliveries: 4}

	result := Optimize(3, rel, 10)

	if result.RecommendedSafetyStock != 20 {
		t.Errorf("recommended safety stock = %d, want 20 (two days of demand)", result.RecommendedSafetyStock)
	}
}

func TestOptimize_ScoreClamp(t *testing.T) {
	// Penalties far beyond 100 points must clamp to zero, not go negative.
	rel := domain.ReliabilitySummary{MeanLeadTimeDays: 40, StdDevLeadTimeDays: 15, Deliveries: 6}

	result := Optimize(5, rel, 10)

	if result.ReliabilityScore != 0 {
		t.Errorf("score = %v, want 0", result.ReliabilityScore)
	}
	if result.ReliabilityScore < 0 || result.ReliabilityScore > 100 {
		t.Errorf("score %v out of [0, 100]", result.ReliabilityScore)
	}
}

func TestOptimize_ReorderPointIdentity(t *testing.T) {
	cases := []struct {
		name       string
		contracted float64
		rel        domain.ReliabilitySummary
		rate       float64
	}{
		{"on time", 5, domain.ReliabilitySummary{MeanLeadTimeDays: 5, StdDevLeadTimeDays: 0}, 10},
		{"late", 5, domain.ReliabilitySummary{MeanLeadTimeDays: 8, StdDevLeadTimeDays: 2}, 10},
		{"floored buffer", 3, domain.ReliabilitySummary{MeanLeadTimeDays: 1, StdDevLeadTimeDays: 0}, 10},
		{"fractional rate", 7, domain.ReliabilitySummary{MeanLeadTimeDays: 9.5, StdDevLeadTimeDays: 1.25}, 4.7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Optimize(tc.contracted, tc.rel, tc.rate)
			want := tc.rate*tc.rel.MeanLeadTimeDays + float64(result.RecommendedSafetyStock)
			if result.RiskAdjustedReorderPoint != want {
				t.Errorf("reorder point = %v, want demand-during-lead-time + safety stock = %v",
					result.RiskAdjustedReorderPoint, want)
			}
		})
	}
}

func TestOptimize_Deterministic(t *testing.T) {
	rel := domain.ReliabilitySummary{MeanLeadTimeDays: 8, StdDevLeadTimeDays: 2, Deliveries: 12}

	first := Optimize(5, rel, 10)
	second := Optimize(5, rel, 10)

	if first != second {
		t.Errorf("repeated optimization diverged: %+v vs %+v", first, second)
	}
}

func TestReliabilityTier_Boundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0, domain.TierHighRisk},
		{59.9, domain.TierHighRisk},
		{60, domain.TierModerateRisk},
		{79.9, domain.TierModerateRisk},
		{80, domain.TierReliable},
		{100, domain.TierReliable},
	}
	for _, tc := range cases {
		if got := ReliabilityTier(tc.score); got != tc.want {
			t.Errorf("ReliabilityTier(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestInventoryCostDelta(t *testing.T) {
	price := decimal.RequireFromString("12.50")

	cases := []struct {
		name                    string
		configured, recommended int
		want                    string
	}{
		{"excess", 150, 113, "462.5"},
		{"shortfall", 80, 113, "-412.5"},
		{"optimal", 113, 113, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			delta := InventoryCostDelta(tc.configured, tc.recommended, price)
			if want := decimal.RequireFromString(tc.want); !delta.Equal(want) {
				t.Errorf("delta = %s, want %s", delta, want)
			}
		})
	}
}

func TestShouldReorder(t *testing.T) {
	if !ShouldReorder(192, 193) {
		t.Error("stock below the reorder point must trigger a reorder")
	}
	if ShouldReorder(193, 193) {
		t.Error("stock equal to the reorder point is still sufficient")
	}
	if ShouldReorder(500, 193) {
		t.Error("stock above the reorder point must not trigger a reorder")
	}
}
