package eval

import (
	"strings"
	"testing"

	"github.com/Vipul-Cariappa/partial-exploration/internal/checker"
	"github.com/Vipul-Cariappa/partial-exploration/internal/values"
)

func TestParseExpectedList(t *testing.T) {
	exps, err := ParseExpectedList("0.5, true ,0.25", 3)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(exps) != 3 || exps[1].Raw != "true" {
		t.Fatalf("unexpected expectations %v", exps)
	}

	if _, err := ParseExpectedList("0.5,0.25", 3); err == nil {
		t.Fatal("expected error for list length mismatch")
	}

	exps, err = ParseExpectedList("", 3)
	if err != nil || exps != nil {
		t.Fatalf("empty argument should yield no expectations, got %v, %v", exps, err)
	}
}

func result(value float64, verdict *bool) []checker.Result {
	return []checker.Result{{
		Bounds:  values.New(value, value),
		Value:   value,
		Verdict: verdict,
	}}
}

func TestValidateAbsolute(t *testing.T) {
	out, err := Validate(result(0.5000001, nil), Expectation{Raw: "0.5"}, 1e-3, false)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !out.Passed {
		t.Fatalf("expected pass, got %s", out.Message)
	}

	out, err = Validate(result(0.7, nil), Expectation{Raw: "0.5"}, 1e-3, false)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.Passed {
		t.Fatal("0.7 should not validate against 0.5")
	}
	if !strings.Contains(out.Message, "expected 0.5") {
		t.Fatalf("message should name the expected value: %s", out.Message)
	}
}

func TestValidateRelative(t *testing.T) {
	// 2% relative error around 0.5 accepts [0.49, 0.51].
	out, err := Validate(result(0.505, nil), Expectation{Raw: "0.5"}, 0.02, true)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !out.Passed {
		t.Fatalf("0.505 is within 2%% of 0.5: %s", out.Message)
	}

	out, err = Validate(result(0.52, nil), Expectation{Raw: "0.5"}, 0.02, true)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.Passed {
		t.Fatal("0.52 is outside 2% of 0.5")
	}
}

func TestValidateVerdict(t *testing.T) {
	yes := true
	out, err := Validate(result(0.9, &yes), Expectation{Raw: "true"}, 1e-6, false)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !out.Passed {
		t.Fatalf("matching verdict should pass: %s", out.Message)
	}

	out, err = Validate(result(0.9, &yes), Expectation{Raw: "false"}, 1e-6, false)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.Passed {
		t.Fatal("mismatched verdict should fail")
	}

	if _, err := Validate(result(0.9, &yes), Expectation{Raw: "0.5"}, 1e-6, false); err == nil {
		t.Fatal("non-boolean expectation for a threshold query is an error")
	}
}

func TestValidateRequiresSingleInitial(t *testing.T) {
	two := append(result(0.5, nil), result(0.5, nil)...)
	if _, err := Validate(two, Expectation{Raw: "0.5"}, 1e-6, false); err == nil {
		t.Fatal("expected error for multiple initial states")
	}

	if _, err := Validate(nil, Expectation{Raw: "0.5"}, 1e-6, false); err == nil {
		t.Fatal("expected error for no results")
	}
}

func TestValidateBadExpectation(t *testing.T) {
	if _, err := Validate(result(0.5, nil), Expectation{Raw: "not-a-number"}, 1e-6, false); err == nil {
		t.Fatal("expected parse error")
	}
}
