package graph

// #region scc-analyser

// SCCAnalyser detects bottom strongly connected components of the explored
// subgraph, the collapsible regions under chain semantics. A component is
// bottom when no transition of any member leaves the component — in
// particular none may lead to an unexplored state.
type SCCAnalyser struct{}

// FindComponents returns the bottom SCCs worth collapsing: every multi-state
// bottom SCC, and singletons only when they carry a self-loop (an absorbing
// state without choices already settles to (0,0) through a plain update).
func (a *SCCAnalyser) FindComponents(view SubgraphView) []Component {
	nodes := view.ExploredStates()
	inSubgraph := make(map[int]bool, len(nodes))
	for _, s := range nodes {
		inSubgraph[s] = true
	}

	succ := func(s int) []int {
		var out []int
		for _, d := range view.Choices(s) {
			for _, t := range d.Support {
				target := view.Resolve(t.Target)
				if target != s && inSubgraph[target] {
					out = append(out, target)
				}
			}
		}
		return out
	}

	var components []Component
	for _, comp := range tarjan(nodes, succ) {
		member := make(map[int]bool, len(comp))
		for _, s := range comp {
			member[s] = true
		}

		bottom := true
		selfLoop := false
		for _, s := range comp {
			for _, d := range view.Choices(s) {
				for _, t := range d.Support {
					target := view.Resolve(t.Target)
					if target == s {
						selfLoop = true
						continue
					}
					if !view.IsExplored(target) || !member[target] {
						bottom = false
					}
				}
			}
			if !bottom {
				break
			}
		}
		if !bottom {
			continue
		}
		if len(comp) == 1 && !selfLoop {
			continue
		}
		components = append(components, Component{Members: comp})
	}
	return components
}

// #endregion scc-analyser
