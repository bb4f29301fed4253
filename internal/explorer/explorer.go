package explorer

import (
	"fmt"

	"github.com/Vipul-Cariappa/partial-exploration/internal/model"
)

// #region explorer-struct

// Explorer is a thin facade over an external generator. It assigns dense
// integer ids to generator states on first discovery and lazily expands a
// state into its choices. All core packages key their tables by these ids.
//
// Generator states must be comparable; the id of a state is stable for the
// whole analysis. After a component collapse, member ids resolve to the
// component representative through Resolve.
type Explorer struct {
	gen      model.Generator
	ids      map[any]int
	states   []any                  // id -> opaque generator state
	choices  [][]model.Distribution // id -> expanded choices (nil until explored)
	explored []bool
	remap    []int // id -> representative id, identity unless collapsed
	initial  []int
}

// #endregion explorer-struct

// #region constructor

// New registers the generator's initial states and returns the facade.
func New(gen model.Generator) (*Explorer, error) {
	e := &Explorer{
		gen: gen,
		ids: make(map[any]int),
	}
	initial, err := gen.InitialStates()
	if err != nil {
		return nil, fmt.Errorf("initial states: %w", err)
	}
	if len(initial) == 0 {
		return nil, fmt.Errorf("generator produced no initial states")
	}
	for _, s := range initial {
		e.initial = append(e.initial, e.stateID(s))
	}
	return e, nil
}

// #endregion constructor

// #region id-assignment

// stateID returns the dense id for a generator state, assigning a fresh one
// on first sight.
func (e *Explorer) stateID(state any) int {
	if id, ok := e.ids[state]; ok {
		return id
	}
	id := len(e.states)
	e.ids[state] = id
	e.states = append(e.states, state)
	e.choices = append(e.choices, nil)
	e.explored = append(e.explored, false)
	e.remap = append(e.remap, id)
	return id
}

// #endregion id-assignment

// #region accessors

// InitialStates returns the ids of the generator's initial states.
func (e *Explorer) InitialStates() []int {
	return e.initial
}

// NumStates returns the number of discovered states (explored or not).
func (e *Explorer) NumStates() int {
	return len(e.states)
}

// State maps an id back to the opaque generator state.
func (e *Explorer) State(id int) any {
	return e.states[id]
}

// IsExplored reports whether the state's choices have been materialized.
func (e *Explorer) IsExplored(id int) bool {
	return e.explored[id]
}

// Choices returns the expanded choices of an explored state. Calling it on
// an unexplored state is a defect.
func (e *Explorer) Choices(id int) []model.Distribution {
	if !e.explored[id] {
		panic(fmt.Sprintf("choices requested for unexplored state %d", id))
	}
	return e.choices[id]
}

// ExploredStates returns the ids of all explored, uncollapsed states.
func (e *Explorer) ExploredStates() []int {
	var out []int
	for id := range e.states {
		if e.explored[id] && e.remap[id] == id {
			out = append(out, id)
		}
	}
	return out
}

// #endregion accessors

// #region explore

// Explore expands a state through the generator, assigning ids to newly
// seen successors. Expansion failure is fatal to the analysis; the error
// propagates unchanged. Exploring an already-explored state is a no-op.
func (e *Explorer) Explore(id int) ([]model.Distribution, error) {
	if e.explored[id] {
		return e.choices[id], nil
	}
	raw, err := e.gen.Expand(e.states[id])
	if err != nil {
		return nil, fmt.Errorf("expand state %d: %w", id, err)
	}
	choices := make([]model.Distribution, len(raw))
	for c, choice := range raw {
		support := make([]model.Transition, len(choice.Successors))
		for i, ws := range choice.Successors {
			support[i] = model.Transition{
				Target:      e.stateID(ws.State),
				Probability: ws.Probability,
			}
		}
		choices[c] = model.Distribution{Label: choice.Label, Support: support}
	}
	e.choices[id] = choices
	e.explored[id] = true
	return choices, nil
}

// #endregion explore

// #region collapse

// Resolve follows collapse redirections to the current representative of an
// id, compressing the chain as it goes.
func (e *Explorer) Resolve(id int) int {
	root := id
	for e.remap[root] != root {
		root = e.remap[root]
	}
	for e.remap[id] != root {
		e.remap[id], id = root, e.remap[id]
	}
	return root
}

// Collapse merges members into representative. Member ids keep resolving to
// the representative forever; their choice lists are dropped and the
// representative takes over the component's exit choices. One-way.
func (e *Explorer) Collapse(representative int, members []int, exits []model.Distribution) {
	for _, m := range members {
		if m == representative {
			continue
		}
		e.remap[m] = representative
		e.choices[m] = nil
	}
	e.choices[representative] = exits
	e.explored[representative] = true
}

// #endregion collapse
