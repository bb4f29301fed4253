package replay

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Vipul-Cariappa/partial-exploration/internal/checker"
	"github.com/Vipul-Cariappa/partial-exploration/internal/logging"
)

func loadTestFixture(t *testing.T) Fixture {
	t.Helper()
	f, err := LoadFixture(filepath.Join("testdata", "half_chain.json"))
	require.NoError(t, err)
	return f
}

func TestLoadFixture(t *testing.T) {
	f := loadTestFixture(t)
	require.Equal(t, int64(7), f.Seed)
	require.Len(t, f.Queries, 2)
	require.Len(t, f.Expected, 2)

	m, err := f.BuildModel()
	require.NoError(t, err)
	require.Equal(t, 3, m.NumStates())
	require.Equal(t, []int{0}, m.Initial)
}

func TestLoadFixtureMissingFile(t *testing.T) {
	_, err := LoadFixture(filepath.Join("testdata", "does-not-exist.json"))
	require.Error(t, err)
}

func TestReplayPasses(t *testing.T) {
	f := loadTestFixture(t)

	results, summary, err := Replay(f, logging.NopSink{})
	require.NoError(t, err)
	require.Equal(t, 2, summary.TotalQueries)
	require.Equal(t, 2, summary.Passed)
	require.Equal(t, 0, summary.Failed)
	for _, r := range results {
		require.True(t, r.Passed, "query %s: %s", r.Query, r.Message)
		require.InDelta(t, 0.5, r.Value, 1e-5)
	}
}

func TestReplayDetectsDrift(t *testing.T) {
	f := loadTestFixture(t)
	f.Expected = []FixtureExpected{{Query: "reach-goal", Value: 0.9}}

	results, summary, err := Replay(f, logging.NopSink{})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Failed)

	var drifted *ReplayResult
	for i := range results {
		if results[i].Query == "reach-goal" {
			drifted = &results[i]
		}
	}
	require.NotNil(t, drifted)
	require.False(t, drifted.Passed)
	require.Contains(t, drifted.Message, "drift")
}

func TestReplayQueryWithoutExpectation(t *testing.T) {
	f := loadTestFixture(t)
	f.Expected = nil

	results, summary, err := Replay(f, logging.NopSink{})
	require.NoError(t, err)
	require.Equal(t, 0, summary.Failed)
	require.Equal(t, 2, summary.Passed)
	for _, r := range results {
		require.Contains(t, r.Message, "no expectation")
	}
}

func TestReplayFixtureTolerance(t *testing.T) {
	f := loadTestFixture(t)
	// A generous explicit tolerance accepts a coarse expectation.
	f.Expected = []FixtureExpected{
		{Query: "reach-goal", Value: 0.45, Tolerance: 0.1},
		{Query: "reach-goal-min", Value: 0.5},
	}

	_, summary, err := Replay(f, logging.NopSink{})
	require.NoError(t, err)
	require.Equal(t, 0, summary.Failed)
}

func TestBuildQuerySharedWithProperties(t *testing.T) {
	// Fixture queries use the same spec type as the properties file.
	spec := checker.PropertySpec{Name: "q", Targets: []int{1}, Bound: 2}
	q, err := checker.BuildQuery(spec)
	require.NoError(t, err)
	require.Equal(t, 2, q.Bound)
}
