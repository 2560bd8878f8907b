// Package verr defines the error taxonomy shared by the verification
// pipeline. Every error is raised synchronously and never retried here;
// the outer experiment driver decides whether to skip, retry, or abort.
package verr

import (
	"fmt"
	"strings"
)

// PreconditionError reports a readout attempted before the required
// simulation stage completed.
type PreconditionError struct {
	Graph string
	Stage int
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("stage %d simulation is not yet completed for: %s", e.Stage, e.Graph)
}

// ConfigError reports an invalid configuration value, e.g. a redundancy
// level with the wrong parity or magnitude.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConsistencyError reports an impossible network state: partial fault
// tagging across a neuron population, or more than two distinct values in
// a redundancy group.
type ConsistencyError struct {
	Reason string
}

func (e *ConsistencyError) Error() string {
	return e.Reason
}

// LookupError reports a referenced neuron id absent from the network being
// wired or read. This is a programming or config error, not recoverable.
type LookupError struct {
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("neuron not found: %s", e.Name)
}

// UnsupportedBackendError reports an unrecognized simulator identifier.
type UnsupportedBackendError struct {
	Kind string
}

func (e *UnsupportedBackendError) Error() string {
	return fmt.Sprintf("unsupported simulator backend: %s", e.Kind)
}

// ValidationError reports that a variant's result set diverges from the
// reference oracle, or that its passed flag is inconsistent with the
// comparison outcome.
type ValidationError struct {
	Graph  string
	Node   string
	Reason string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "validation failed for %s", e.Graph)
	if e.Node != "" {
		fmt.Fprintf(&b, " at %s", e.Node)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}
