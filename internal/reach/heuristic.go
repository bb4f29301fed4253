package reach

import (
	"fmt"
	"math/rand"

	"github.com/Vipul-Cariappa/partial-exploration/internal/model"
)

// #region heuristic-enums

// SuccessorHeuristic weighs successors inside the chosen distribution. The
// set is closed; scoring formulas are fixed here, not inferred elsewhere.
type SuccessorHeuristic int

const (
	// HeuristicWeighted samples by transition probability times successor
	// uncertainty, biasing trajectories toward informative states.
	HeuristicWeighted SuccessorHeuristic = iota
	// HeuristicDifferences samples by successor uncertainty alone.
	HeuristicDifferences
	// HeuristicGraph samples by raw transition probability.
	HeuristicGraph
)

func (h SuccessorHeuristic) String() string {
	switch h {
	case HeuristicWeighted:
		return "weighted"
	case HeuristicDifferences:
		return "differences"
	case HeuristicGraph:
		return "graph"
	default:
		return fmt.Sprintf("SuccessorHeuristic(%d)", int(h))
	}
}

// ParseHeuristic maps the CLI spelling to a heuristic.
func ParseHeuristic(s string) (SuccessorHeuristic, error) {
	switch s {
	case "weighted", "":
		return HeuristicWeighted, nil
	case "differences", "diffs":
		return HeuristicDifferences, nil
	case "graph", "prob":
		return HeuristicGraph, nil
	default:
		return HeuristicWeighted, fmt.Errorf("unknown heuristic %q (want weighted, differences or graph)", s)
	}
}

// ChoicePolicy selects among a state's choices given their heuristic scores.
type ChoicePolicy int

const (
	// PolicyBestScore deterministically picks the best-scoring choice.
	PolicyBestScore ChoicePolicy = iota
	// PolicyScoreWeighted samples a choice with probability proportional to
	// its score.
	PolicyScoreWeighted
	// PolicyUniform ignores scores and picks uniformly.
	PolicyUniform
)

func (p ChoicePolicy) String() string {
	switch p {
	case PolicyBestScore:
		return "best"
	case PolicyScoreWeighted:
		return "score-weighted"
	case PolicyUniform:
		return "uniform"
	default:
		return fmt.Sprintf("ChoicePolicy(%d)", int(p))
	}
}

// ParsePolicy maps the CLI spelling to a policy.
func ParsePolicy(s string) (ChoicePolicy, error) {
	switch s {
	case "best", "":
		return PolicyBestScore, nil
	case "score-weighted", "weighted":
		return PolicyScoreWeighted, nil
	case "uniform":
		return PolicyUniform, nil
	default:
		return PolicyBestScore, fmt.Errorf("unknown choice policy %q (want best, score-weighted or uniform)", s)
	}
}

// #endregion heuristic-enums

// #region sample-next

// sampleNext scores each choice, selects one by policy, then samples a
// successor inside it by heuristic weight. Returns -1 when nothing carries
// weight, which ends the forward phase of a trajectory.
func sampleNext(
	choices []model.Distribution,
	rng *rand.Rand,
	policy ChoicePolicy,
	heuristic SuccessorHeuristic,
	actionScore func(model.Distribution) float64,
	uncertainty func(successor int) float64,
) int {
	if len(choices) == 0 {
		return -1
	}

	// 1. Choice selection
	var choice model.Distribution
	switch {
	case len(choices) == 1:
		choice = choices[0]
	case policy == PolicyUniform:
		choice = choices[rng.Intn(len(choices))]
	case policy == PolicyBestScore:
		best := 0
		bestScore := actionScore(choices[0])
		for i := 1; i < len(choices); i++ {
			if score := actionScore(choices[i]); score > bestScore {
				best, bestScore = i, score
			}
		}
		choice = choices[best]
	default: // PolicyScoreWeighted
		scores := make([]float64, len(choices))
		total := 0.0
		for i, d := range choices {
			scores[i] = actionScore(d)
			total += scores[i]
		}
		if total <= 0 {
			return -1
		}
		pick := rng.Float64() * total
		index := 0
		for ; index < len(scores)-1; index++ {
			pick -= scores[index]
			if pick <= 0 {
				break
			}
		}
		choice = choices[index]
	}

	// 2. Successor sampling within the choice
	weights := make([]float64, len(choice.Support))
	total := 0.0
	for i, t := range choice.Support {
		var w float64
		switch heuristic {
		case HeuristicWeighted:
			w = t.Probability * uncertainty(t.Target)
		case HeuristicDifferences:
			w = uncertainty(t.Target)
		case HeuristicGraph:
			w = t.Probability
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return -1
	}
	pick := rng.Float64() * total
	index := 0
	for ; index < len(weights)-1; index++ {
		pick -= weights[index]
		if pick <= 0 {
			break
		}
	}
	return choice.Support[index].Target
}

// #endregion sample-next
