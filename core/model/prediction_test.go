package model

import "testing"

func TestFailureProbabilityBounds(t *testing.T) {
	if got := FailureProbability(0); got != 99.0 {
		t.Fatalf("p(0) = %v, want 99.0", got)
	}
	if got := FailureProbability(-10); got != 99.0 {
		t.Fatalf("p(-10) = %v, want 99.0", got)
	}
	prev := 100.0
	for _, h := range []float64{0, 24, 72, 168, 336, 720, 5000} {
		p := FailureProbability(h)
		if p < 0 || p > 99 {
			t.Fatalf("p(%v) = %v out of [0,99]", h, p)
		}
		if p > prev {
			t.Fatalf("p not monotonically non-increasing at %v: %v > %v", h, p, prev)
		}
		prev = p
	}
}

func TestRound1(t *testing.T) {
	if got := Round1(12.345); got != 12.3 {
		t.Fatalf("got %v", got)
	}
	if got := Round1(12.351); got != 12.4 {
		t.Fatalf("got %v", got)
	}
}
