package model

import (
	"math"
	"testing"
)

func TestNewDistributionValidates(t *testing.T) {
	_, err := NewDistribution("a", []Transition{{Target: 0, Probability: 0.5}, {Target: 1, Probability: 0.5}})
	if err != nil {
		t.Fatalf("valid distribution rejected: %v", err)
	}

	_, err = NewDistribution("a", []Transition{{Target: 0, Probability: 0.5}, {Target: 1, Probability: 0.4}})
	if err == nil {
		t.Fatal("expected error for probabilities summing to 0.9")
	}

	_, err = NewDistribution("a", []Transition{{Target: 0, Probability: 1.2}, {Target: 1, Probability: -0.2}})
	if err == nil {
		t.Fatal("expected error for negative probability")
	}
}

func TestSumWeighted(t *testing.T) {
	d, err := NewDistribution("a", []Transition{{Target: 0, Probability: 0.25}, {Target: 1, Probability: 0.75}})
	if err != nil {
		t.Fatalf("build distribution: %v", err)
	}
	vals := map[int]float64{0: 0.0, 1: 1.0}
	got := d.SumWeighted(func(s int) float64 { return vals[s] })
	if math.Abs(got-0.75) > 1e-12 {
		t.Fatalf("expected weighted sum 0.75, got %g", got)
	}
}

func TestDistributionContains(t *testing.T) {
	d, _ := NewDistribution("a", []Transition{{Target: 2, Probability: 0.5}, {Target: 3, Probability: 0.5}})
	if !d.Contains(func(s int) bool { return s >= 2 }) {
		t.Fatal("all successors satisfy the predicate")
	}
	if d.Contains(func(s int) bool { return s == 2 }) {
		t.Fatal("successor 3 violates the predicate")
	}
}

func TestParseFixpointKind(t *testing.T) {
	cases := map[string]FixpointKind{"max": Greatest, "Pmax": Greatest, "min": Least, "Pmin": Least, "unique": Unique}
	for in, want := range cases {
		got, err := ParseFixpointKind(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %s, want %s", in, got, want)
		}
	}
	if _, err := ParseFixpointKind("avg"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestExplicitModelGenerator(t *testing.T) {
	m := &ExplicitModel{
		Kind:    Chain,
		Initial: []int{0},
		Choices: [][]Distribution{
			{{Label: "a", Support: []Transition{{Target: 1, Probability: 1.0}}}},
			{},
		},
	}

	initial, err := m.InitialStates()
	if err != nil {
		t.Fatalf("initial states: %v", err)
	}
	if len(initial) != 1 || initial[0].(int) != 0 {
		t.Fatalf("expected initial [0], got %v", initial)
	}

	choices, err := m.Expand(0)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(choices) != 1 || len(choices[0].Successors) != 1 {
		t.Fatalf("unexpected choices %v", choices)
	}
	if choices[0].Successors[0].State.(int) != 1 {
		t.Fatalf("expected successor 1, got %v", choices[0].Successors[0].State)
	}

	if _, err := m.Expand(7); err == nil {
		t.Fatal("expected error for out-of-range state")
	}
	if _, err := m.Expand("nope"); err == nil {
		t.Fatal("expected error for foreign state type")
	}
}

func TestExplicitModelRejectsChainWithChoices(t *testing.T) {
	m := &ExplicitModel{
		Kind:    Chain,
		Initial: []int{0},
		Choices: [][]Distribution{{
			{Label: "a", Support: []Transition{{Target: 0, Probability: 1.0}}},
			{Label: "b", Support: []Transition{{Target: 0, Probability: 1.0}}},
		}},
	}
	if _, err := m.Expand(0); err == nil {
		t.Fatal("expected error for chain state with two choices")
	}
}
