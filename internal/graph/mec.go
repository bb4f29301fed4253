package graph

import "sort"

// #region mec-analyser

// MECAnalyser detects maximal end components of the explored subgraph: sets
// of states and choices from which no kept choice can leave the set. Choices
// touching unexplored states count as escaping. The escaping choices come
// back as the component's exits; a bottom end component has none.
type MECAnalyser struct{}

// FindComponents iteratively restricts each state to the choices fully
// contained in its current candidate component until the decomposition is
// stable, the standard end-component fixpoint.
func (a *MECAnalyser) FindComponents(view SubgraphView) []Component {
	explored := view.ExploredStates()
	inSubgraph := make(map[int]bool, len(explored))
	for _, s := range explored {
		inSubgraph[s] = true
	}

	// contained reports whether a choice keeps all its mass inside the set.
	contained := func(s int, choiceIdx int, member map[int]bool) bool {
		for _, t := range view.Choices(s)[choiceIdx].Support {
			target := view.Resolve(t.Target)
			if target == s {
				continue
			}
			if !view.IsExplored(target) || !member[target] {
				return false
			}
		}
		return true
	}

	// 1. Candidate set starts as the whole explored subgraph; allowed[s]
	// holds the indices of choices not yet known to escape.
	candidate := make(map[int]bool, len(explored))
	allowed := make(map[int][]int, len(explored))
	for _, s := range explored {
		candidate[s] = true
		for c := range view.Choices(s) {
			allowed[s] = append(allowed[s], c)
		}
	}

	// 2. Fixpoint: restrict choices to the member's SCC, drop states left
	// without an internal choice, repeat until stable.
	var final [][]int
	for {
		var nodes []int
		for s := range candidate {
			nodes = append(nodes, s)
		}
		sort.Ints(nodes)
		succ := func(s int) []int {
			var out []int
			for _, c := range allowed[s] {
				for _, t := range view.Choices(s)[c].Support {
					target := view.Resolve(t.Target)
					if target != s && candidate[target] {
						out = append(out, target)
					}
				}
			}
			return out
		}

		sccs := tarjan(nodes, succ)
		changed := false
		final = final[:0]
		for _, comp := range sccs {
			member := make(map[int]bool, len(comp))
			for _, s := range comp {
				member[s] = true
			}
			keep := true
			for _, s := range comp {
				var kept []int
				for _, c := range allowed[s] {
					if contained(s, c, member) {
						kept = append(kept, c)
					}
				}
				if len(kept) != len(allowed[s]) {
					changed = true
				}
				allowed[s] = kept
				if len(kept) == 0 {
					// No choice stays inside: s cannot be part of any end
					// component built from this SCC.
					delete(candidate, s)
					keep = false
					changed = true
				}
			}
			if keep {
				final = append(final, comp)
			}
		}
		if !changed {
			break
		}
	}

	// 3. Emit components with their escaping choices.
	var components []Component
	for _, comp := range final {
		member := make(map[int]bool, len(comp))
		for _, s := range comp {
			member[s] = true
		}
		if len(comp) == 1 && len(allowed[comp[0]]) == 0 {
			continue
		}
		if len(comp) == 1 {
			// Self-loop-only end component, or a plain transient state whose
			// single contained choice is a pure self-loop. Only the former
			// stays: a singleton without a self-loop choice gains nothing.
			s := comp[0]
			selfOnly := false
			for _, c := range allowed[s] {
				if contained(s, c, member) {
					selfOnly = true
				}
			}
			if !selfOnly {
				continue
			}
		}
		c := Component{Members: comp}
		for _, s := range comp {
			for idx, d := range view.Choices(s) {
				if !containsIndex(allowed[s], idx) || !contained(s, idx, member) {
					c.Exits = append(c.Exits, d)
				}
			}
		}
		components = append(components, c)
	}
	return components
}

func containsIndex(indices []int, idx int) bool {
	for _, i := range indices {
		if i == idx {
			return true
		}
	}
	return false
}

// #endregion mec-analyser
