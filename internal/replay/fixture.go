package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Vipul-Cariappa/partial-exploration/internal/checker"
	"github.com/Vipul-Cariappa/partial-exploration/internal/model"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: an inline
// explicit model, the queries to run against it, and the expected values.
type Fixture struct {
	Description string                 `json:"description"`
	Model       FixtureModel           `json:"model"`
	Queries     []checker.PropertySpec `json:"queries"`
	Expected    []FixtureExpected      `json:"expected"`
	Seed        int64                  `json:"seed"`
	Precision   float64                `json:"precision"`
}

// FixtureModel is the JSON-serializable explicit transition table.
type FixtureModel struct {
	Type    string         `json:"type"` // "dtmc" | "mdp"
	Initial []int          `json:"initial"`
	States  []FixtureState `json:"states"`
}

// FixtureState lists the choices of one state.
type FixtureState struct {
	ID      int             `json:"id"`
	Choices []FixtureChoice `json:"choices"`
}

// FixtureChoice is one distribution with an optional action label.
type FixtureChoice struct {
	Label       string              `json:"label,omitempty"`
	Transitions []FixtureTransition `json:"transitions"`
}

// FixtureTransition is one weighted successor.
type FixtureTransition struct {
	To   int     `json:"to"`
	Prob float64 `json:"prob"`
}

// FixtureExpected captures the expected value per query.
type FixtureExpected struct {
	Query     string  `json:"query"`
	Value     float64 `json:"value"`
	Tolerance float64 `json:"tolerance,omitempty"`
}

// #endregion fixture-types

// #region load

// LoadFixture reads and validates a fixture JSON file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.Model.States) == 0 {
		return Fixture{}, fmt.Errorf("fixture %s: model has no states", path)
	}
	if len(f.Queries) == 0 {
		return Fixture{}, fmt.Errorf("fixture %s: no queries", path)
	}
	if f.Precision <= 0 {
		f.Precision = 1e-6
	}
	if f.Seed == 0 {
		f.Seed = 1
	}
	return f, nil
}

// #endregion load

// #region build-model

// BuildModel converts the fixture transition table into an explicit model.
func (f Fixture) BuildModel() (*model.ExplicitModel, error) {
	kind, err := model.ParseKind(f.Model.Type)
	if err != nil {
		return nil, err
	}

	numStates := 0
	for _, s := range f.Model.States {
		if s.ID >= numStates {
			numStates = s.ID + 1
		}
	}

	m := &model.ExplicitModel{
		Kind:    kind,
		Initial: f.Model.Initial,
		Choices: make([][]model.Distribution, numStates),
	}
	for _, s := range f.Model.States {
		for _, c := range s.Choices {
			support := make([]model.Transition, len(c.Transitions))
			for i, t := range c.Transitions {
				support[i] = model.Transition{Target: t.To, Probability: t.Prob}
			}
			d, err := model.NewDistribution(c.Label, support)
			if err != nil {
				return nil, fmt.Errorf("state %d: %w", s.ID, err)
			}
			m.Choices[s.ID] = append(m.Choices[s.ID], d)
		}
	}
	if len(m.Initial) == 0 {
		m.Initial = []int{0}
	}
	return m, nil
}

// #endregion build-model
