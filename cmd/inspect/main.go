package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/Vipul-Cariappa/partial-exploration/internal/store"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", envOr("REACH_DB", ""), "path to snapshot database")
	last := flag.Int("last", 20, "show N most recent runs")
	runID := flag.String("run", "", "show per-state bounds of a single run")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/snapshots.db [--last N] [--run id] [--json]")
		os.Exit(2)
	}

	s, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if *runID != "" {
		err = runDetailMode(s, *runID, *jsonOut)
	} else {
		err = runListMode(s, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	RunID        string  `json:"run_id"`
	Property     string  `json:"property"`
	Kind         string  `json:"kind"`
	Precision    float64 `json:"precision"`
	Trajectories int     `json:"trajectories"`
	Explored     int     `json:"explored"`
	Collapsed    int     `json:"collapsed"`
	DurationMS   int64   `json:"duration_ms"`
	CreatedAt    string  `json:"created_at"`
}

func runListMode(s *store.Store, last int, jsonOut bool) error {
	runs, err := s.ListRuns(last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	rows := make([]listRow, len(runs))
	for i, r := range runs {
		rows[i] = listRow{
			RunID:        r.RunID,
			Property:     r.Property,
			Kind:         r.Kind,
			Precision:    r.Precision,
			Trajectories: r.Trajectories,
			Explored:     r.ExploredStates,
			Collapsed:    r.CollapsedComponents,
			DurationMS:   r.DurationMS,
			CreatedAt:    r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Printf("%-36s  %-16s  %-6s  %10s  %8s  %8s  %9s\n",
		"RUN", "PROPERTY", "KIND", "PRECISION", "EXPLORED", "COLLAPSED", "TRAJ")
	for _, r := range rows {
		fmt.Printf("%-36s  %-16s  %-6s  %10.2g  %8d  %8d  %9d\n",
			r.RunID, r.Property, r.Kind, r.Precision, r.Explored, r.Collapsed, r.Trajectories)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type stateRow struct {
	StateID    int     `json:"state_id"`
	Initial    bool    `json:"initial"`
	Target     bool    `json:"target"`
	Explored   bool    `json:"explored"`
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	Difference float64 `json:"difference"`
}

func runDetailMode(s *store.Store, runID string, jsonOut bool) error {
	run, err := s.GetRun(runID)
	if err != nil {
		return err
	}
	snap, err := s.LoadSnapshot(runID)
	if err != nil {
		return err
	}

	rows := make([]stateRow, len(snap.States))
	for i, st := range snap.States {
		rows[i] = stateRow{
			StateID:    st.StateID,
			Initial:    st.IsInitial,
			Target:     st.IsTarget,
			Explored:   st.IsExplored,
			Lower:      st.Lower,
			Upper:      st.Upper,
			Difference: st.Upper - st.Lower,
		}
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Printf("run %s: property=%s kind=%s precision=%.2g\n", run.RunID, run.Property, run.Kind, run.Precision)
	fmt.Printf("%6s  %4s  %4s  %4s  %10s  %10s  %10s\n", "STATE", "INIT", "TGT", "EXP", "LOWER", "UPPER", "DIFF")
	for _, r := range rows {
		fmt.Printf("%6d  %4s  %4s  %4s  %10.6f  %10.6f  %10.6f\n",
			r.StateID, mark(r.Initial), mark(r.Target), mark(r.Explored), r.Lower, r.Upper, r.Difference)
	}
	return nil
}

func mark(b bool) string {
	if b {
		return "*"
	}
	return ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion detail-mode
