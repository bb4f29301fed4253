package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeModelFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.prism")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write model file: %v", err)
	}
	return path
}

func TestReadModelChain(t *testing.T) {
	path := writeModelFile(t, `dtmc

module default

s: [0..2] init 0;

[step] s=0 -> 0.5:(s'=1) + 0.5:(s'=2);
[loop] s=2 -> 1:(s'=2);

endmodule
`)

	m, err := ReadModel(path)
	if err != nil {
		t.Fatalf("read model: %v", err)
	}
	if m.Kind != Chain {
		t.Fatalf("expected dtmc, got %s", m.Kind)
	}
	if len(m.Initial) != 1 || m.Initial[0] != 0 {
		t.Fatalf("expected initial [0], got %v", m.Initial)
	}
	if m.NumStates() != 3 {
		t.Fatalf("expected 3 states, got %d", m.NumStates())
	}
	if len(m.Choices[0]) != 1 {
		t.Fatalf("state 0 should have one choice, got %d", len(m.Choices[0]))
	}
	d := m.Choices[0][0]
	if d.Label != "step" || len(d.Support) != 2 {
		t.Fatalf("unexpected distribution %v", d)
	}
	if d.Support[0].Target != 1 || math.Abs(d.Support[0].Probability-0.5) > 1e-12 {
		t.Fatalf("unexpected first transition %v", d.Support[0])
	}
	if len(m.Choices[1]) != 0 {
		t.Fatalf("state 1 should have no choices, got %d", len(m.Choices[1]))
	}
}

func TestReadModelMDPWithRewards(t *testing.T) {
	path := writeModelFile(t, `mdp

module default

s: [0..1] init 0;

[a] s=0 -> 1:(s'=1);
[b] s=0 -> 0.5:(s'=0) + 0.5:(s'=1);

endmodule

rewards "default_reward"

s=1 : 2;

endrewards
`)

	m, err := ReadModel(path)
	if err != nil {
		t.Fatalf("read model: %v", err)
	}
	if m.Kind != DecisionProcess {
		t.Fatalf("expected mdp, got %s", m.Kind)
	}
	if len(m.Choices[0]) != 2 {
		t.Fatalf("state 0 should have two choices, got %d", len(m.Choices[0]))
	}
	if m.Choices[0][1].Label != "b" {
		t.Fatalf("choice order not preserved: %v", m.Choices[0])
	}
}

func TestReadModelErrors(t *testing.T) {
	cases := map[string]string{
		"bad header":      "pomdp\nmodule default\ns: [0..0] init 0;\nendmodule\n",
		"no declaration":  "dtmc\nmodule default\nendmodule\n",
		"bad probability": "dtmc\nmodule default\ns: [0..1] init 0;\n[a] s=0 -> 0.4:(s'=1);\nendmodule\n",
		"state range":     "dtmc\nmodule default\ns: [0..0] init 0;\n[a] s=5 -> 1:(s'=0);\nendmodule\n",
		"nonzero low":     "dtmc\nmodule default\ns: [1..3] init 1;\nendmodule\n",
	}
	for name, content := range cases {
		path := writeModelFile(t, content)
		if _, err := ReadModel(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
