// Package validate compares a variant's consensus result against the
// trusted reference oracle.
package validate

import (
	"fmt"
	"sort"

	"snnverify/internal/model"
	"snnverify/internal/verr"
)

// Mismatch names one node whose resolved count diverges from the oracle.
type Mismatch struct {
	Node     string
	Actual   float64
	Expected int
}

// Outcome is the structured comparison result, usable for diagnostics and
// caller branching without error-based control flow.
type Outcome struct {
	Passed          bool
	MissingNodes    []string
	UnexpectedNodes []string
	Mismatches      []Mismatch
}

// Plotter renders a diagnostic view of the offending network before a
// validation error propagates. The real renderer lives outside this core.
type Plotter interface {
	Plot(graphName string) error
}

// Compare evaluates a consensus result against the oracle. It never errors;
// callers that need the error taxonomy use Validate.
func Compare(actual model.ConsensusResult, expected model.OracleMarks) Outcome {
	outcome := Outcome{}
	for _, name := range sortedOracleKeys(expected) {
		count, ok := actual.Counts[name]
		if !ok {
			outcome.MissingNodes = append(outcome.MissingNodes, name)
			continue
		}
		if count != float64(expected[name]) {
			outcome.Mismatches = append(outcome.Mismatches, Mismatch{
				Node:     name,
				Actual:   count,
				Expected: expected[name],
			})
		}
	}
	for _, name := range sortedCountKeys(actual.Counts) {
		if _, ok := expected[name]; !ok {
			outcome.UnexpectedNodes = append(outcome.UnexpectedNodes, name)
		}
	}
	outcome.Passed = len(outcome.MissingNodes) == 0 &&
		len(outcome.UnexpectedNodes) == 0 &&
		len(outcome.Mismatches) == 0
	return outcome
}

// Validate checks a variant result against the oracle and converts any
// divergence into the error taxonomy. The node-name sets must match
// exactly, every count must equal the oracle mark, and the producer's
// passed flag must agree with the comparison. On a count mismatch the
// diagnostic plotter runs first; plotting never suppresses or alters the
// returned error.
func Validate(graphName string, actual model.ConsensusResult, expected model.OracleMarks, plotter Plotter) error {
	outcome := Compare(actual, expected)

	if len(outcome.MissingNodes) > 0 || len(outcome.UnexpectedNodes) > 0 {
		return &verr.ValidationError{
			Graph: graphName,
			Reason: fmt.Sprintf("selected node names are not equal to the reference nodes: snn=%v != reference=%v",
				sortedCountKeys(actual.Counts), sortedOracleKeys(expected)),
		}
	}

	if len(outcome.Mismatches) > 0 {
		if plotter != nil {
			// Best effort; the validation error below must propagate
			// regardless of how plotting went.
			_ = plotter.Plot(graphName)
		}
		mismatch := outcome.Mismatches[0]
		return &verr.ValidationError{
			Graph:  graphName,
			Node:   mismatch.Node,
			Reason: fmt.Sprintf("count %v is not equal to the reference count %d", mismatch.Actual, mismatch.Expected),
		}
	}

	if !actual.Passed {
		return &verr.ValidationError{
			Graph:  graphName,
			Reason: "did not detect a difference from the reference counts, yet the result computation says there should be one",
		}
	}
	return nil
}

func sortedOracleKeys(marks model.OracleMarks) []string {
	keys := make([]string, 0, len(marks))
	for name := range marks {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

func sortedCountKeys(counts map[string]float64) []string {
	keys := make([]string, 0, len(counts))
	for name := range counts {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}
