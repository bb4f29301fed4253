package model

import "fmt"

// #region fixpoint-kind

// FixpointKind selects how the value-update engine aggregates a state's
// choices. It is fixed once per analysis, never per state.
type FixpointKind int

const (
	// Greatest maximizes over choices: "exists a strategy" reachability on
	// a decision process.
	Greatest FixpointKind = iota
	// Least minimizes over choices.
	Least
	// Unique is the chain case: at most one choice per state.
	Unique
)

func (k FixpointKind) String() string {
	switch k {
	case Greatest:
		return "max"
	case Least:
		return "min"
	case Unique:
		return "unique"
	default:
		return fmt.Sprintf("FixpointKind(%d)", int(k))
	}
}

// ParseFixpointKind maps the CLI/fixture spelling to a kind.
func ParseFixpointKind(s string) (FixpointKind, error) {
	switch s {
	case "max", "Pmax":
		return Greatest, nil
	case "min", "Pmin":
		return Least, nil
	case "unique", "P":
		return Unique, nil
	default:
		return Greatest, fmt.Errorf("unknown fixpoint kind %q (want max, min or unique)", s)
	}
}

// #endregion fixpoint-kind

// #region kind

// Kind is the model class: chain (one choice per state) or decision process.
type Kind int

const (
	// Chain is a Markov chain: every state has exactly one distribution.
	Chain Kind = iota
	// DecisionProcess is an MDP: states may offer several choices.
	DecisionProcess
)

func (k Kind) String() string {
	if k == Chain {
		return "dtmc"
	}
	return "mdp"
}

// ParseKind maps a model-file header token to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "dtmc", "ctmc":
		return Chain, nil
	case "mdp":
		return DecisionProcess, nil
	default:
		return Chain, fmt.Errorf("unknown model type %q (want dtmc, ctmc or mdp)", s)
	}
}

// #endregion kind

// #region explicit-model

// ExplicitModel is a fully materialized transition system over integer
// states 0..NumStates-1. It backs fixtures, tests, and models loaded from
// the exported text format, and implements the generator contract consumed
// by the explorer.
type ExplicitModel struct {
	Kind    Kind
	Initial []int
	Choices [][]Distribution // state -> its choices
}

// NumStates returns the number of states in the explicit table.
func (m *ExplicitModel) NumStates() int {
	return len(m.Choices)
}

// InitialStates yields the initial states as opaque generator states.
func (m *ExplicitModel) InitialStates() ([]any, error) {
	states := make([]any, len(m.Initial))
	for i, s := range m.Initial {
		if s < 0 || s >= len(m.Choices) {
			return nil, fmt.Errorf("initial state %d out of range [0, %d)", s, len(m.Choices))
		}
		states[i] = s
	}
	return states, nil
}

// Expand returns the choices of a state. Successor states are the raw
// integer indices, handed back as opaque states for the explorer to number.
func (m *ExplicitModel) Expand(state any) ([]Choice, error) {
	index, ok := state.(int)
	if !ok {
		return nil, fmt.Errorf("explicit model: unexpected state type %T", state)
	}
	if index < 0 || index >= len(m.Choices) {
		return nil, fmt.Errorf("explicit model: state %d out of range [0, %d)", index, len(m.Choices))
	}
	if m.Kind == Chain && len(m.Choices[index]) > 1 {
		return nil, fmt.Errorf("explicit model: chain state %d has %d choices", index, len(m.Choices[index]))
	}
	choices := make([]Choice, len(m.Choices[index]))
	for c, d := range m.Choices[index] {
		successors := make([]WeightedState, len(d.Support))
		for i, t := range d.Support {
			successors[i] = WeightedState{State: t.Target, Probability: t.Probability}
		}
		choices[c] = Choice{Label: d.Label, Successors: successors}
	}
	return choices, nil
}

// #endregion explicit-model

// #region generator-contract

// WeightedState pairs an opaque generator state with a transition
// probability.
type WeightedState struct {
	State       any
	Probability float64
}

// Choice is one distribution as produced by a generator, before the
// explorer has assigned dense ids to the successor states.
type Choice struct {
	Label      string
	Successors []WeightedState
}

// Generator incrementally produces a transition system. States are opaque
// comparable values; the explorer assigns dense integer ids on first sight.
// An Expand error is fatal to the whole analysis.
type Generator interface {
	InitialStates() ([]any, error)
	Expand(state any) ([]Choice, error)
}

// #endregion generator-contract
