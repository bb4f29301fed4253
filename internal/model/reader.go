package model

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// #region read-model

// ReadModel loads a model from the single-variable text format written by
// the export package: a model-type header, one module block with an
// integer-ranged variable s, and one guarded line per (state, choice).
// A rewards block, if present, is skipped; rewards do not feed reachability.
func ReadModel(path string) (*ExplicitModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		m         *ExplicitModel
		numStates int
		inModule  bool
		lineNum   int
	)

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		// 1. Header token
		if m == nil {
			kind, err := ParseKind(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			m = &ExplicitModel{Kind: kind}
			continue
		}

		// 2. Module block boundaries
		if strings.HasPrefix(line, "module") {
			inModule = true
			continue
		}
		if line == "endmodule" {
			inModule = false
			continue
		}
		if strings.HasPrefix(line, "rewards") || line == "endrewards" {
			continue
		}
		if !inModule {
			// rewards body or other trailing content
			continue
		}

		// 3. State variable declaration: s: [0..R] init I;
		if strings.HasPrefix(line, "s:") || strings.HasPrefix(line, "s :") {
			rangeHi, init, err := parseStateDecl(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			numStates = rangeHi + 1
			m.Choices = make([][]Distribution, numStates)
			m.Initial = []int{init}
			continue
		}

		// 4. Transition line: [label] s=I -> P:(s'=J) + ... ;
		if strings.HasPrefix(line, "[") {
			if m.Choices == nil {
				return nil, fmt.Errorf("line %d: transition before state declaration", lineNum)
			}
			state, dist, err := parseTransitionLine(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			if state < 0 || state >= numStates {
				return nil, fmt.Errorf("line %d: state %d outside [0, %d)", lineNum, state, numStates)
			}
			m.Choices[state] = append(m.Choices[state], dist)
			continue
		}

		return nil, fmt.Errorf("line %d: unrecognized line %q", lineNum, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("model file %s is empty", path)
	}
	if m.Choices == nil {
		return nil, fmt.Errorf("model file %s has no state declaration", path)
	}
	return m, nil
}

// #endregion read-model

// #region line-parsers

// parseStateDecl parses `s: [0..R] init I;` returning R and I.
func parseStateDecl(line string) (rangeHi int, init int, err error) {
	line = strings.TrimSuffix(strings.TrimSpace(line), ";")
	open := strings.Index(line, "[")
	dots := strings.Index(line, "..")
	close := strings.Index(line, "]")
	initIdx := strings.Index(line, "init")
	if open < 0 || dots < 0 || close < 0 || initIdx < 0 || !(open < dots && dots < close && close < initIdx) {
		return 0, 0, fmt.Errorf("malformed state declaration %q", line)
	}
	lo, err := strconv.Atoi(strings.TrimSpace(line[open+1 : dots]))
	if err != nil {
		return 0, 0, fmt.Errorf("state range low: %w", err)
	}
	if lo != 0 {
		return 0, 0, fmt.Errorf("state range must start at 0, got %d", lo)
	}
	hi, err := strconv.Atoi(strings.TrimSpace(line[dots+2 : close]))
	if err != nil {
		return 0, 0, fmt.Errorf("state range high: %w", err)
	}
	init, err = strconv.Atoi(strings.TrimSpace(line[initIdx+len("init"):]))
	if err != nil {
		return 0, 0, fmt.Errorf("initial value: %w", err)
	}
	return hi, init, nil
}

// parseTransitionLine parses `[label] s=I -> P:(s'=J) + ... ;`.
func parseTransitionLine(line string) (state int, dist Distribution, err error) {
	line = strings.TrimSuffix(strings.TrimSpace(line), ";")

	end := strings.Index(line, "]")
	if end < 0 {
		return 0, Distribution{}, fmt.Errorf("missing action label bracket in %q", line)
	}
	label := strings.TrimSpace(line[1:end])

	rest := strings.TrimSpace(line[end+1:])
	arrow := strings.Index(rest, "->")
	if arrow < 0 {
		return 0, Distribution{}, fmt.Errorf("missing -> in %q", line)
	}

	guard := strings.TrimSpace(rest[:arrow])
	if !strings.HasPrefix(guard, "s=") {
		return 0, Distribution{}, fmt.Errorf("malformed guard %q", guard)
	}
	state, err = strconv.Atoi(strings.TrimSpace(guard[2:]))
	if err != nil {
		return 0, Distribution{}, fmt.Errorf("guard state: %w", err)
	}

	var support []Transition
	for _, term := range strings.Split(rest[arrow+2:], "+") {
		term = strings.TrimSpace(term)
		colon := strings.Index(term, ":")
		if colon < 0 {
			return 0, Distribution{}, fmt.Errorf("malformed transition term %q", term)
		}
		prob, err := strconv.ParseFloat(strings.TrimSpace(term[:colon]), 64)
		if err != nil {
			return 0, Distribution{}, fmt.Errorf("transition probability: %w", err)
		}
		target := strings.TrimSpace(term[colon+1:])
		target = strings.TrimPrefix(target, "(s'=")
		target = strings.TrimSuffix(target, ")")
		successor, err := strconv.Atoi(target)
		if err != nil {
			return 0, Distribution{}, fmt.Errorf("transition target %q: %w", term, err)
		}
		support = append(support, Transition{Target: successor, Probability: prob})
	}

	dist, err = NewDistribution(label, support)
	if err != nil {
		return 0, Distribution{}, err
	}
	return state, dist, nil
}

// #endregion line-parsers
