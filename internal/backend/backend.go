// Package backend normalizes the two completed-simulation shapes (a
// per-neuron trace graph and a flat multimeter raster) behind one numeric
// read interface. Backends are read-only; no trace is mutated here.
package backend

import "snnverify/internal/model"

type Backend interface {
	// Read returns the recorded scalar for one neuron at one timestep.
	Read(id model.NeuronID, t int) (float64, error)
	// ReadGroup returns every reading for one neuron kind at a timestep,
	// keyed by display name.
	ReadGroup(kind model.NeuronKind, t int) (map[string]float64, error)
	// Duration is the number of recorded timesteps.
	Duration() int
	// HasCompletedStage reports whether the given simulation stage finished.
	HasCompletedStage(stage int) bool
}
