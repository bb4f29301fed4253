package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Vipul-Cariappa/partial-exploration/internal/export"
	"github.com/Vipul-Cariappa/partial-exploration/internal/model"
	"github.com/Vipul-Cariappa/partial-exploration/internal/store"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	modelPath := flag.String("model", "", "path to model file (model mode)")
	dbPath := flag.String("db", "", "path to snapshot database (snapshot mode)")
	runID := flag.String("run", "", "run id to export (snapshot mode)")
	outPath := flag.String("out", "", "output model file path")
	typeArg := flag.String("type", "", "override model type header: dtmc or mdp")
	flag.Parse()

	modelMode := *modelPath != ""
	snapshotMode := *dbPath != "" && *runID != ""
	if *outPath == "" || modelMode == snapshotMode {
		fmt.Fprintln(os.Stderr, "usage: export --model path/to/model --out path/to/out.prism")
		fmt.Fprintln(os.Stderr, "       export --db path/to/snapshots.db --run id --out path/to/out.prism")
		os.Exit(2)
	}

	var err error
	if modelMode {
		err = exportModel(*modelPath, *outPath)
	} else {
		err = exportSnapshot(*dbPath, *runID, *outPath, *typeArg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region model-mode

// exportModel round-trips a model file through the writer, normalizing it.
func exportModel(modelPath, outPath string) error {
	m, err := model.ReadModel(modelPath)
	if err != nil {
		return err
	}
	return export.WriteModel(outPath, export.FromExplicit(m), nil)
}

// #endregion model-mode

// #region snapshot-mode

// snapshotSource adapts a persisted run snapshot to the writer's view.
type snapshotSource struct {
	kind    model.Kind
	initial int
	choices [][]model.Distribution
}

func (s *snapshotSource) ModelType() model.Kind                  { return s.kind }
func (s *snapshotSource) NumStates() int                         { return len(s.choices) }
func (s *snapshotSource) InitialState() int                      { return s.initial }
func (s *snapshotSource) Choices(state int) []model.Distribution { return s.choices[state] }

// exportSnapshot writes a run's explored subgraph as a model file. States
// the run never explored have no transitions, which the format represents
// by simply listing no line for them.
func exportSnapshot(dbPath, runID, outPath, typeArg string) error {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.GetRun(runID); err != nil {
		return err
	}
	snap, err := s.LoadSnapshot(runID)
	if err != nil {
		return err
	}
	if len(snap.States) == 0 {
		return fmt.Errorf("run %s has no snapshot states", runID)
	}

	src := &snapshotSource{}
	maxID := 0
	for _, st := range snap.States {
		if st.StateID > maxID {
			maxID = st.StateID
		}
		if st.IsInitial {
			src.initial = st.StateID
		}
	}
	src.choices = make([][]model.Distribution, maxID+1)

	// Regroup transition rows by (state, choice)
	type key struct{ state, choice int }
	grouped := make(map[key]*model.Distribution)
	var order []key
	for _, tr := range snap.Transitions {
		k := key{tr.StateID, tr.ChoiceIdx}
		d, ok := grouped[k]
		if !ok {
			d = &model.Distribution{Label: tr.Label}
			grouped[k] = d
			order = append(order, k)
		}
		d.Support = append(d.Support, model.Transition{Target: tr.SuccessorID, Probability: tr.Probability})
	}
	for _, k := range order {
		src.choices[k.state] = append(src.choices[k.state], *grouped[k])
	}

	// Header: explicit override, otherwise inferred from choice counts
	src.kind = model.Chain
	if typeArg != "" {
		src.kind, err = model.ParseKind(typeArg)
		if err != nil {
			return err
		}
	} else {
		for _, cs := range src.choices {
			if len(cs) > 1 {
				src.kind = model.DecisionProcess
				break
			}
		}
	}

	return export.WriteModel(outPath, src, nil)
}

// #endregion snapshot-mode
