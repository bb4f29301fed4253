package checker

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Vipul-Cariappa/partial-exploration/internal/logging"
	"github.com/Vipul-Cariappa/partial-exploration/internal/model"
	"github.com/Vipul-Cariappa/partial-exploration/internal/sampler"
	"github.com/Vipul-Cariappa/partial-exploration/internal/values"
)

func dist(t *testing.T, label string, support ...model.Transition) model.Distribution {
	t.Helper()
	d, err := model.NewDistribution(label, support)
	if err != nil {
		t.Fatalf("build distribution %s: %v", label, err)
	}
	return d
}

func halfChain(t *testing.T) *model.ExplicitModel {
	t.Helper()
	return &model.ExplicitModel{
		Kind:    model.Chain,
		Initial: []int{0},
		Choices: [][]model.Distribution{
			{dist(t, "step",
				model.Transition{Target: 1, Probability: 0.5},
				model.Transition{Target: 2, Probability: 0.5})},
			{},
			{},
		},
	}
}

func TestSolveChain(t *testing.T) {
	q, err := BuildQuery(PropertySpec{Name: "reach", Targets: []int{1}})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	sol, err := Solve(halfChain(t), model.Chain, q, sampler.DefaultConfig(), logging.NopSink{})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if len(sol.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(sol.Results))
	}
	r := sol.Results[0]
	if math.Abs(r.Value-0.5) > 1e-6 {
		t.Fatalf("expected value 0.5, got %g", r.Value)
	}
	if r.Verdict != nil {
		t.Fatal("no threshold, no verdict")
	}
	if r.State.(int) != 0 {
		t.Fatalf("unexpected initial state %v", r.State)
	}
}

func TestSolveThresholdVerdict(t *testing.T) {
	spec := PropertySpec{
		Name:      "reach",
		Targets:   []int{1},
		Threshold: &ThresholdSpec{Op: ">=", Value: 0.4},
	}
	q, err := BuildQuery(spec)
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	sol, err := Solve(halfChain(t), model.Chain, q, sampler.DefaultConfig(), logging.NopSink{})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	r := sol.Results[0]
	if r.Verdict == nil || !*r.Verdict {
		t.Fatalf("0.5 >= 0.4 should hold, got %v", r.Verdict)
	}
}

func TestSolveDecisionProcessMinMax(t *testing.T) {
	m := func() *model.ExplicitModel {
		return &model.ExplicitModel{
			Kind:    model.DecisionProcess,
			Initial: []int{0},
			Choices: [][]model.Distribution{
				{
					dist(t, "a", model.Transition{Target: 1, Probability: 1.0}),
					dist(t, "b", model.Transition{Target: 2, Probability: 1.0}),
				},
				{},
				{},
			},
		}
	}

	qmax, _ := BuildQuery(PropertySpec{Name: "max", Optimize: "max", Targets: []int{1}})
	sol, err := Solve(m(), model.DecisionProcess, qmax, sampler.DefaultConfig(), logging.NopSink{})
	if err != nil {
		t.Fatalf("solve max: %v", err)
	}
	if !sol.Results[0].Bounds.IsOne() {
		t.Fatalf("expected max 1, got %s", sol.Results[0].Bounds)
	}

	qmin, _ := BuildQuery(PropertySpec{Name: "min", Optimize: "min", Targets: []int{1}})
	sol, err = Solve(m(), model.DecisionProcess, qmin, sampler.DefaultConfig(), logging.NopSink{})
	if err != nil {
		t.Fatalf("solve min: %v", err)
	}
	if !sol.Results[0].Bounds.IsZero() {
		t.Fatalf("expected min 0, got %s", sol.Results[0].Bounds)
	}
}

func TestSolveBoundedQuery(t *testing.T) {
	// Target two steps away, horizon one: bounded dispatch yields 0.
	m := &model.ExplicitModel{
		Kind:    model.Chain,
		Initial: []int{0},
		Choices: [][]model.Distribution{
			{dist(t, "a", model.Transition{Target: 1, Probability: 1.0})},
			{dist(t, "b", model.Transition{Target: 2, Probability: 1.0})},
			{},
		},
	}
	q, err := BuildQuery(PropertySpec{Name: "step-bounded", Targets: []int{2}, Bound: 1})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	sol, err := Solve(m, model.Chain, q, sampler.DefaultConfig(), logging.NopSink{})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !sol.Results[0].Bounds.IsZero() {
		t.Fatalf("expected 0 within one step, got %s", sol.Results[0].Bounds)
	}
}

func TestThresholdDecide(t *testing.T) {
	cases := []struct {
		op     string
		value  float64
		bounds values.Bounds
		want   bool
	}{
		{">=", 0.4, values.New(0.5, 0.5), true},
		{">=", 0.6, values.New(0.5, 0.5), false},
		{"<", 0.6, values.New(0.5, 0.5), true},
		{"<=", 0.4, values.New(0.5, 0.5), false},
		{">", 0.3, values.New(0.4, 0.9), true},  // conclusive: lower above
		{"<=", 0.95, values.New(0.4, 0.9), true}, // conclusive: upper below
	}
	for _, c := range cases {
		th := Threshold{Op: c.op, Value: c.value}
		if got := th.Decide(c.bounds); got != c.want {
			t.Fatalf("%s %g on %s: got %v, want %v", c.op, c.value, c.bounds, got, c.want)
		}
	}
}

func TestLoadPropertiesAndSelect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.json")
	content := `{"properties": [
		{"name": "reach", "targets": [1]},
		{"name": "bounded", "targets": [2], "bound": 4, "optimize": "min"}
	]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write properties: %v", err)
	}

	queries, err := LoadProperties(path)
	if err != nil {
		t.Fatalf("load properties: %v", err)
	}
	if len(queries) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(queries))
	}

	q, err := SelectProperty(queries, "bounded")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if q.Bound != 4 || q.Optimize != model.Least {
		t.Fatalf("unexpected query %+v", q)
	}
	if !q.Target(2) || q.Target(1) {
		t.Fatal("target predicate mismatch")
	}

	if _, err := SelectProperty(queries, "missing"); err == nil {
		t.Fatal("expected error for unknown property name")
	}
}

func TestLoadPropertiesRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.json")
	if err := os.WriteFile(path, []byte(`{"properties": []}`), 0o644); err != nil {
		t.Fatalf("write properties: %v", err)
	}
	if _, err := LoadProperties(path); err == nil {
		t.Fatal("expected error for empty property set")
	}
}

func TestBuildQueryValidation(t *testing.T) {
	if _, err := BuildQuery(PropertySpec{Name: "x"}); err == nil {
		t.Fatal("expected error for missing targets")
	}
	if _, err := BuildQuery(PropertySpec{Name: "x", Targets: []int{1}, Bound: -2}); err == nil {
		t.Fatal("expected error for negative bound")
	}
	if _, err := BuildQuery(PropertySpec{Name: "x", Targets: []int{1}, Threshold: &ThresholdSpec{Op: "~", Value: 0.5}}); err == nil {
		t.Fatal("expected error for unknown threshold operator")
	}
}
