package values

import (
	"math"
	"testing"
)

func TestNewClampsRoundoff(t *testing.T) {
	b := New(1.0000000000001, 1.0)
	if b.Lower != 1 || b.Upper != 1 {
		t.Fatalf("expected clamp to [1, 1], got %s", b)
	}
	b = New(-1e-12, 0.5)
	if b.Lower != 0 {
		t.Fatalf("expected lower clamped to 0, got %.20g", b.Lower)
	}
}

func TestNewPanicsOnInvertedBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for lower > upper")
		}
	}()
	New(0.7, 0.3)
}

func TestNewPanicsOutsideUnitInterval(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for upper > 1")
		}
	}()
	New(0.5, 1.5)
}

func TestSentinels(t *testing.T) {
	if !ReachOne().IsOne() {
		t.Fatal("ReachOne should be one")
	}
	if !ReachZero().IsZero() {
		t.Fatal("ReachZero should be zero")
	}
	u := Unknown()
	if u.Lower != 0 || u.Upper != 1 {
		t.Fatalf("Unknown should be [0, 1], got %s", u)
	}
	if u.Difference() != 1 {
		t.Fatalf("Unknown difference should be 1, got %g", u.Difference())
	}
}

func TestContains(t *testing.T) {
	outer := New(0.2, 0.8)
	if !outer.Contains(New(0.3, 0.7)) {
		t.Fatal("nested interval should be contained")
	}
	if !outer.Contains(outer) {
		t.Fatal("interval should contain itself")
	}
	if outer.Contains(New(0.1, 0.7)) {
		t.Fatal("interval extending below should not be contained")
	}
	if outer.Contains(New(0.3, 0.9)) {
		t.Fatal("interval extending above should not be contained")
	}
}

func TestAverageAndDifference(t *testing.T) {
	b := New(0.25, 0.75)
	if math.Abs(b.Average()-0.5) > 1e-15 {
		t.Fatalf("average of [0.25, 0.75] should be 0.5, got %g", b.Average())
	}
	if math.Abs(b.Difference()-0.5) > 1e-15 {
		t.Fatalf("difference of [0.25, 0.75] should be 0.5, got %g", b.Difference())
	}
}

func TestEqualUsesTolerance(t *testing.T) {
	a := New(0.3, 0.6)
	b := New(0.3+1e-12, 0.6-1e-12)
	if !a.Equal(b) {
		t.Fatal("intervals within tolerance should compare equal")
	}
	if a.Equal(New(0.3, 0.61)) {
		t.Fatal("distinct intervals should not compare equal")
	}
}
