package engine

import (
	"reflect"
	"testing"
)

func TestProjectDepletion_LinearCurve(t *testing.T) {
	points := ProjectDepletion(300, 10)

	if len(points) != ProjectionHorizonDays {
		t.Fatalf("got %d points, want %d", len(points), ProjectionHorizonDays)
	}
	if points[0].Day != 0 || points[0].ProjectedStock != 300 {
		t.Errorf("day 0 = %+v, want full stock on hand", points[0])
	}
	if points[15].ProjectedStock != 150 {
		t.Errorf("day 15 stock = %v, want 150", points[15].ProjectedStock)
	}
	if points[29].Day != 29 {
		t.Errorf("last day = %d, want 29", points[29].Day)
	}
}

func TestProjectDepletion_ClampsAtZero(t *testing.T) {
	points := ProjectDepletion(50, 10)

	// Stock runs out on day 5; everything after stays pinned at zero.
	for _, p := range points {
		if p.ProjectedStock < 0 {
			t.Fatalf("day %d projected negative stock %v", p.Day, p.ProjectedStock)
		}
		if p.Day >= 5 && p.ProjectedStock != 0 {
			t.Errorf("day %d stock = %v, want 0 after depletion", p.Day, p.ProjectedStock)
		}
	}
}

func TestProjectDepletion_Deterministic(t *testing.T) {
	first := ProjectDepletion(237, 7.3)
	second := ProjectDepletion(237, 7.3)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated projection diverged")
	}
}

func TestProjectDepletion_ZeroDemand(t *testing.T) {
	points := ProjectDepletion(40, 0)
	for _, p := range points {
		if p.ProjectedStock != 40 {
			t.Fatalf("day %d stock = %v, want 40 with no demand", p.Day, p.ProjectedStock)
		}
	}
}
