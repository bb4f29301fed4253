package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Vipul-Cariappa/partial-exploration/internal/logging"
	"github.com/Vipul-Cariappa/partial-exploration/internal/replay"
)

// #region main

func main() {
	fixtureArg := flag.String("fixture", "", "path to a fixture JSON file or a directory of them")
	verbose := flag.Bool("v", false, "log sampler events")
	flag.Parse()

	if *fixtureArg == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixtures/")
		os.Exit(2)
	}

	paths, err := collectFixtures(*fixtureArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var sink logging.Sink = logging.NopSink{}
	if *verbose {
		sink = logging.LogSink{}
	}

	totalFailed := 0
	for _, path := range paths {
		f, err := replay.LoadFixture(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("=== %s\n", filepath.Base(path))
		if f.Description != "" {
			fmt.Printf("    %s\n", f.Description)
		}

		results, summary, err := replay.Replay(f, sink)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: replay %s: %v\n", path, err)
			os.Exit(1)
		}
		for _, r := range results {
			mark := "PASS"
			if !r.Passed {
				mark = "FAIL"
			}
			fmt.Printf("  [%s] %-24s %s\n", mark, r.Query, r.Message)
		}
		fmt.Printf("  %d queries, %d passed, %d failed\n", summary.TotalQueries, summary.Passed, summary.Failed)
		totalFailed += summary.Failed
	}

	if totalFailed > 0 {
		os.Exit(1)
	}
}

// #endregion main

// #region collect

// collectFixtures resolves the argument to a sorted list of fixture files.
func collectFixtures(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{arg}, nil
	}

	entries, err := os.ReadDir(arg)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(arg, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no fixture files in %s", arg)
	}
	sort.Strings(paths)
	return paths, nil
}

// #endregion collect
