package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Vipul-Cariappa/partial-exploration/internal/checker"
	"github.com/Vipul-Cariappa/partial-exploration/internal/eval"
	"github.com/Vipul-Cariappa/partial-exploration/internal/logging"
	"github.com/Vipul-Cariappa/partial-exploration/internal/model"
	"github.com/Vipul-Cariappa/partial-exploration/internal/reach"
	"github.com/Vipul-Cariappa/partial-exploration/internal/sampler"
	"github.com/Vipul-Cariappa/partial-exploration/internal/store"
)

// #region main

func main() {
	modelPath := flag.String("model", "", "path to model file")
	propertiesPath := flag.String("properties", "", "path to properties JSON file")
	propertyName := flag.String("property", "", "name of property to check")
	precision := flag.Float64("precision", 1e-6, "precision")
	heuristicArg := flag.String("heuristic", "weighted", "successor heuristic: weighted, differences or graph")
	policyArg := flag.String("policy", "best", "choice policy: best, score-weighted or uniform")
	seed := flag.Int64("seed", 1, "random seed")
	expectedArg := flag.String("expected", "", "comma separated list of the true values of the properties")
	relativeError := flag.Bool("relative-error", false, "use relative error estimate")
	onlyResult := flag.Bool("only-result", false, "only print result")
	dbPath := flag.String("db", os.Getenv("REACH_DB"), "optional path to snapshot database")
	flag.Parse()

	if *modelPath == "" || *propertiesPath == "" {
		fmt.Fprintln(os.Stderr, "usage: check --model path/to/model --properties path/to/props.json [--property name] [--precision p] [--heuristic h] [--policy p] [--seed n] [--expected v1,v2] [--relative-error] [--only-result] [--db path]")
		os.Exit(2)
	}

	if err := run(*modelPath, *propertiesPath, *propertyName, *precision, *heuristicArg,
		*policyArg, *seed, *expectedArg, *relativeError, *onlyResult, *dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(modelPath, propertiesPath, propertyName string, precision float64,
	heuristicArg, policyArg string, seed int64, expectedArg string,
	relativeError, onlyResult bool, dbPath string) error {

	// 1. Configuration, validated before any sampling starts
	heuristic, err := reach.ParseHeuristic(heuristicArg)
	if err != nil {
		return err
	}
	policy, err := reach.ParsePolicy(policyArg)
	if err != nil {
		return err
	}

	m, err := model.ReadModel(modelPath)
	if err != nil {
		return err
	}

	queries, err := checker.LoadProperties(propertiesPath)
	if err != nil {
		return err
	}
	if propertyName != "" {
		q, err := checker.SelectProperty(queries, propertyName)
		if err != nil {
			return err
		}
		queries = []checker.Query{q}
	}

	expected, err := eval.ParseExpectedList(expectedArg, len(queries))
	if err != nil {
		return err
	}

	cfg := sampler.DefaultConfig()
	cfg.Precision = precision
	cfg.Heuristic = heuristic
	cfg.Policy = policy
	cfg.Seed = seed

	var sink logging.Sink = logging.LogSink{}
	if onlyResult {
		sink = logging.NopSink{}
	}

	var snapshots *store.Store
	if dbPath != "" {
		snapshots, err = store.NewStore(dbPath)
		if err != nil {
			return err
		}
		defer snapshots.Close()
	}

	// 2. Solve each query
	allCorrect := true
	for i, q := range queries {
		start := time.Now()
		sol, err := checker.Solve(m, m.Kind, q, cfg, sink)
		if err != nil {
			return err
		}
		duration := time.Since(start)

		if snapshots != nil {
			if err := saveSnapshot(snapshots, sol, q, modelPath, cfg, duration); err != nil {
				return err
			}
		}

		if len(expected) > 0 {
			outcome, err := eval.Validate(sol.Results, expected[i], precision, relativeError)
			if err != nil {
				return err
			}
			fmt.Println(outcome.Message)
			if !outcome.Passed {
				allCorrect = false
			}
		}

		printResults(q, sol.Results)
	}

	if !allCorrect {
		return fmt.Errorf("expected-value validation failed")
	}
	return nil
}

// #endregion run

// #region output

// printResults mirrors the result shape to the states: a bare value for a
// single initial state, "state value" lines for several.
func printResults(q checker.Query, results []checker.Result) {
	if len(results) == 1 {
		r := results[0]
		if r.Verdict != nil {
			fmt.Printf("%v\n", *r.Verdict)
		} else {
			fmt.Printf("%.10g\n", r.Value)
		}
		return
	}
	for _, r := range results {
		if r.Verdict != nil {
			fmt.Printf("%v %v\n", r.State, *r.Verdict)
		} else {
			fmt.Printf("%v %.10g\n", r.State, r.Value)
		}
	}
}

func saveSnapshot(snapshots *store.Store, sol *checker.Solution, q checker.Query,
	modelPath string, cfg sampler.Config, duration time.Duration) error {
	run := store.RunRecord{
		RunID:               store.NewRunID(),
		ModelPath:           modelPath,
		Property:            q.Name,
		Kind:                q.Optimize.String(),
		Precision:           cfg.Precision,
		Trajectories:        sol.Stats.Trajectories,
		ExploredStates:      sol.Stats.ExploredStates,
		CollapsedComponents: sol.Stats.CollapsedComponents,
		DurationMS:          duration.Milliseconds(),
	}
	snap := store.SnapshotFromExplorer(sol.Explorer, sol.Bounds, sol.Target)
	if err := snapshots.SaveRun(run, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// #endregion output
