package graph

import (
	"sort"

	"github.com/Vipul-Cariappa/partial-exploration/internal/model"
)

// #region subgraph-view

// SubgraphView exposes the currently explored part of the transition system
// to the analysers. The explorer satisfies it.
type SubgraphView interface {
	ExploredStates() []int
	IsExplored(id int) bool
	Choices(id int) []model.Distribution
	Resolve(id int) int
}

// #endregion subgraph-view

// #region component

// Component is a set of member state ids that can be merged into one
// representative, together with the choices that escape the set. For bottom
// components Exits is empty.
type Component struct {
	Members []int
	Exits   []model.Distribution
}

// Representative is the id that subsumes the members: the smallest one.
func (c Component) Representative() int {
	rep := c.Members[0]
	for _, m := range c.Members[1:] {
		if m < rep {
			rep = m
		}
	}
	return rep
}

// #endregion component

// #region analyser-interface

// ComponentAnalyser detects collapsible regions of the explored subgraph.
// Exactly two implementations exist, picked at analysis construction: SCCs
// for chains, maximal end components for decision processes.
type ComponentAnalyser interface {
	FindComponents(view SubgraphView) []Component
}

// NewAnalyser picks the analyser matching the model kind.
func NewAnalyser(kind model.Kind) ComponentAnalyser {
	if kind == model.Chain {
		return &SCCAnalyser{}
	}
	return &MECAnalyser{}
}

// #endregion analyser-interface

// #region tarjan

// tarjan computes strongly connected components of the directed graph given
// by succ, iteratively (explored subgraphs can be deep). nodes must be
// deduplicated; succ may repeat targets.
func tarjan(nodes []int, succ func(int) []int) [][]int {
	index := make(map[int]int, len(nodes))
	lowlink := make(map[int]int, len(nodes))
	onStack := make(map[int]bool, len(nodes))
	var stack []int
	var components [][]int
	next := 0

	type frame struct {
		node int
		succ []int
		pos  int
	}

	for _, root := range nodes {
		if _, seen := index[root]; seen {
			continue
		}
		work := []frame{{node: root, succ: succ(root)}}
		index[root] = next
		lowlink[root] = next
		next++
		stack = append(stack, root)
		onStack[root] = true

		for len(work) > 0 {
			f := &work[len(work)-1]
			advanced := false
			for f.pos < len(f.succ) {
				w := f.succ[f.pos]
				f.pos++
				if _, seen := index[w]; !seen {
					index[w] = next
					lowlink[w] = next
					next++
					stack = append(stack, w)
					onStack[w] = true
					work = append(work, frame{node: w, succ: succ(w)})
					advanced = true
					break
				}
				if onStack[w] && index[w] < lowlink[f.node] {
					lowlink[f.node] = index[w]
				}
			}
			if advanced {
				continue
			}

			// node finished
			v := f.node
			if lowlink[v] == index[v] {
				var comp []int
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					comp = append(comp, w)
					if w == v {
						break
					}
				}
				sort.Ints(comp)
				components = append(components, comp)
			}
			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := &work[len(work)-1]
				if lowlink[v] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[v]
				}
			}
		}
	}
	return components
}

// #endregion tarjan
