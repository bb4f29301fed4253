package eval

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Vipul-Cariappa/partial-exploration/internal/checker"
)

// #region types

// Expectation is one externally supplied true value for a query, either a
// probability or a boolean verdict, in its textual CLI form.
type Expectation struct {
	Raw string
}

// ParseExpectedList splits the comma-separated --expected argument. The
// list length must match the number of queries; a mismatch is a
// configuration error detected before any sampling starts.
func ParseExpectedList(arg string, queries int) ([]Expectation, error) {
	if arg == "" {
		return nil, nil
	}
	parts := strings.Split(arg, ",")
	if len(parts) != queries {
		return nil, fmt.Errorf("expected-value list has %d entries for %d queries", len(parts), queries)
	}
	out := make([]Expectation, len(parts))
	for i, p := range parts {
		out[i] = Expectation{Raw: strings.TrimSpace(p)}
	}
	return out, nil
}

// Outcome reports one validation.
type Outcome struct {
	Passed  bool
	Message string
}

// #endregion types

// #region validate

// Validate compares a query's single-initial-state result against its
// expectation within the run's precision, absolute or relative.
func Validate(results []checker.Result, exp Expectation, precision float64, relativeError bool) (Outcome, error) {
	if len(results) != 1 {
		return Outcome{}, fmt.Errorf("validation needs exactly one initial state, model has %d", len(results))
	}
	r := results[0]

	// Boolean expectation for threshold queries
	if r.Verdict != nil {
		want, err := strconv.ParseBool(exp.Raw)
		if err != nil {
			return Outcome{}, fmt.Errorf("expected value %q for a threshold query: %w", exp.Raw, err)
		}
		if want != *r.Verdict {
			return Outcome{Passed: false, Message: fmt.Sprintf("expected %v, got %v", want, *r.Verdict)}, nil
		}
		return Outcome{Passed: true, Message: fmt.Sprintf("expected %v, got %v", want, *r.Verdict)}, nil
	}

	want, err := strconv.ParseFloat(exp.Raw, 64)
	if err != nil {
		return Outcome{}, fmt.Errorf("expected value %q: %w", exp.Raw, err)
	}

	if relativeError {
		lo := (1 - precision) * want
		hi := (1 + precision) * want
		if r.Value < lo || r.Value > hi {
			return Outcome{
				Passed: false,
				Message: fmt.Sprintf("expected in range [%.6g, %.6g] but got %.6g, actual precision %.6g > required precision %.6g",
					lo, hi, r.Value, math.Abs(1-r.Value/want), precision),
			}, nil
		}
		return Outcome{
			Passed: true,
			Message: fmt.Sprintf("expected in range [%.6g, %.6g], got %.6g, actual precision: %.6g",
				lo, hi, r.Value, math.Abs(1-r.Value/want)),
		}, nil
	}

	diff := math.Abs(want - r.Value)
	if diff >= precision {
		return Outcome{
			Passed: false,
			Message: fmt.Sprintf("expected %.6g but got %.6g (difference %.6g > precision %.6g)",
				want, r.Value, diff, precision),
		}, nil
	}
	return Outcome{
		Passed:  true,
		Message: fmt.Sprintf("expected %.6g, got %.6g, actual precision: %.6g", want, r.Value, diff),
	}, nil
}

// #endregion validate
