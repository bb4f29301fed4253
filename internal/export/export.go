package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Vipul-Cariappa/partial-exploration/internal/model"
)

// #region source

// Source is the view of an already-built model the writer needs.
type Source interface {
	ModelType() model.Kind
	NumStates() int
	InitialState() int
	Choices(state int) []model.Distribution
}

// RewardSource supplies state and transition rewards; nil rewards skip the
// rewards block entirely, and zero rewards are not written.
type RewardSource interface {
	StateReward(state int) float64
	TransitionReward(state int, label string) float64
}

// explicitSource adapts an ExplicitModel to the writer's view.
type explicitSource struct{ m *model.ExplicitModel }

func (s explicitSource) ModelType() model.Kind                   { return s.m.Kind }
func (s explicitSource) NumStates() int                          { return s.m.NumStates() }
func (s explicitSource) Choices(state int) []model.Distribution  { return s.m.Choices[state] }
func (s explicitSource) InitialState() int {
	if len(s.m.Initial) == 0 {
		return 0
	}
	return s.m.Initial[0]
}

// FromExplicit wraps an explicit model as a writer source.
func FromExplicit(m *model.ExplicitModel) Source { return explicitSource{m: m} }

// #endregion source

// #region write-model

// WriteModel serializes a model into the single-variable text format: model
// type header, a module with one integer-ranged variable s, one line per
// (state, choice), and an optional rewards block. On any failure the
// partially written file is removed on a best-effort basis; the in-memory
// model is unaffected.
func WriteModel(path string, src Source, rewards RewardSource) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	w := bufio.NewWriter(f)
	if err := writeModel(w, src, rewards); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func writeModel(w *bufio.Writer, src Source, rewards RewardSource) error {
	// 1. Header and module open
	fmt.Fprintf(w, "%s\n\n", src.ModelType())
	fmt.Fprintf(w, "module default\n\n")

	// 2. State variable declaration
	fmt.Fprintf(w, "s: [0..%d] init %d;\n\n", src.NumStates()-1, src.InitialState())

	// 3. One line per (state, choice)
	for state := 0; state < src.NumStates(); state++ {
		for _, d := range src.Choices(state) {
			if err := writeTransition(w, state, d); err != nil {
				return err
			}
		}
	}

	// 4. Module close
	fmt.Fprintf(w, "\nendmodule\n")

	if rewards == nil {
		return nil
	}

	// 5. Rewards block: only nonzero rewards are listed
	fmt.Fprintf(w, "\nrewards \"default_reward\"\n\n")
	for state := 0; state < src.NumStates(); state++ {
		if r := rewards.StateReward(state); r != 0 {
			fmt.Fprintf(w, "s=%d : %g;\n", state, r)
		}
		for _, d := range src.Choices(state) {
			if r := rewards.TransitionReward(state, d.Label); r != 0 {
				fmt.Fprintf(w, "[%s] s=%d : %g;\n", d.Label, state, r)
			}
		}
	}
	fmt.Fprintf(w, "\nendrewards\n")
	return w.Flush()
}

func writeTransition(w *bufio.Writer, state int, d model.Distribution) error {
	fmt.Fprintf(w, "[%s] s=%d -> ", d.Label, state)
	for i, t := range d.Support {
		if i > 0 {
			fmt.Fprint(w, " + ")
		}
		fmt.Fprintf(w, "%g:(s'=%d)", t.Probability, t.Target)
	}
	_, err := fmt.Fprintln(w, ";")
	return err
}

// #endregion write-model
