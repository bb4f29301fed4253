package checker

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Vipul-Cariappa/partial-exploration/internal/model"
	"github.com/Vipul-Cariappa/partial-exploration/internal/values"
)

// #region query

// Query is one reachability question: reach any target state, optimized
// over choices (decision process) or unoptimized (chain), optionally
// step-bounded, optionally compared against a probability threshold.
type Query struct {
	Name      string
	Optimize  model.FixpointKind
	Target    func(state any) bool
	Bound     int // 0 means unbounded
	Threshold *Threshold
}

// Threshold is a probability comparison attached to a query.
type Threshold struct {
	Op    string // ">=", ">", "<=", "<"
	Value float64
}

// Decide interprets the final bounds against the threshold. When the
// interval is conclusive on its own the verdict follows from it; otherwise
// the midpoint decides (the analysis already converged to precision).
func (t Threshold) Decide(b values.Bounds) bool {
	switch t.Op {
	case ">=", ">":
		if b.Lower >= t.Value {
			return true
		}
		if b.Upper < t.Value {
			return false
		}
	case "<=", "<":
		if b.Upper <= t.Value {
			return true
		}
		if b.Lower > t.Value {
			return false
		}
	}
	switch t.Op {
	case ">=":
		return b.Average() >= t.Value
	case ">":
		return b.Average() > t.Value
	case "<=":
		return b.Average() <= t.Value
	case "<":
		return b.Average() < t.Value
	default:
		return false
	}
}

// #endregion query

// #region property-spec

// PropertySpec is the serializable form of a query, shared by the
// properties file and replay fixtures. Targets are explicit state indices
// of the single-variable model loaded alongside.
type PropertySpec struct {
	Name      string         `json:"name"`
	Optimize  string         `json:"optimize,omitempty"` // "max" | "min"; chains ignore it
	Targets   []int          `json:"targets"`
	Bound     int            `json:"bound,omitempty"`
	Threshold *ThresholdSpec `json:"threshold,omitempty"`
}

// ThresholdSpec is the serializable threshold of a query.
type ThresholdSpec struct {
	Op    string  `json:"op"`
	Value float64 `json:"value"`
}

type propertiesFile struct {
	Properties []PropertySpec `json:"properties"`
}

// LoadProperties reads a properties JSON file into queries. An empty query
// set is a configuration error.
func LoadProperties(path string) ([]Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read properties: %w", err)
	}
	var f propertiesFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse properties %s: %w", path, err)
	}
	if len(f.Properties) == 0 {
		return nil, fmt.Errorf("properties file %s declares no properties", path)
	}

	queries := make([]Query, 0, len(f.Properties))
	for i, p := range f.Properties {
		q, err := BuildQuery(p)
		if err != nil {
			return nil, fmt.Errorf("property %d (%s): %w", i, p.Name, err)
		}
		queries = append(queries, q)
	}
	return queries, nil
}

// SelectProperty picks a query by name. A missing name is a configuration
// error the caller turns into a non-zero exit.
func SelectProperty(queries []Query, name string) (Query, error) {
	for _, q := range queries {
		if q.Name == name {
			return q, nil
		}
	}
	return Query{}, fmt.Errorf("no property found for name %q", name)
}

// BuildQuery validates a spec and compiles its target predicate.
func BuildQuery(p PropertySpec) (Query, error) {
	if len(p.Targets) == 0 {
		return Query{}, fmt.Errorf("no target states")
	}
	if p.Bound < 0 {
		return Query{}, fmt.Errorf("negative step bound %d", p.Bound)
	}

	optimize := model.Greatest
	if p.Optimize != "" {
		var err error
		optimize, err = model.ParseFixpointKind(p.Optimize)
		if err != nil {
			return Query{}, err
		}
	}

	targets := make(map[int]bool, len(p.Targets))
	for _, t := range p.Targets {
		targets[t] = true
	}
	target := func(state any) bool {
		index, ok := state.(int)
		return ok && targets[index]
	}

	q := Query{
		Name:     p.Name,
		Optimize: optimize,
		Target:   target,
		Bound:    p.Bound,
	}
	if p.Threshold != nil {
		switch p.Threshold.Op {
		case ">=", ">", "<=", "<":
		default:
			return Query{}, fmt.Errorf("unknown threshold operator %q", p.Threshold.Op)
		}
		q.Threshold = &Threshold{Op: p.Threshold.Op, Value: p.Threshold.Value}
	}
	return q, nil
}

// #endregion property-spec
