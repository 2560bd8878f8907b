package backend

import (
	"fmt"

	"snnverify/internal/model"
	"snnverify/internal/verr"
)

// TraceBackend reads the time-indexed trace each neuron of a wired network
// carries, looked up by structural id.
type TraceBackend struct {
	net *model.Network
}

func NewTraceBackend(net *model.Network) (*TraceBackend, error) {
	if net == nil {
		return nil, fmt.Errorf("trace backend requires a network")
	}
	return &TraceBackend{net: net}, nil
}

func (b *TraceBackend) Read(id model.NeuronID, t int) (float64, error) {
	neuron, ok := b.net.Neuron(id)
	if !ok {
		return 0, &verr.LookupError{Name: id.Name()}
	}
	if t < 0 || t >= len(neuron.Trace) {
		return 0, fmt.Errorf("timestep %d out of range for %s (trace length %d)", t, id.Name(), len(neuron.Trace))
	}
	return neuron.Trace[t], nil
}

func (b *TraceBackend) ReadGroup(kind model.NeuronKind, t int) (map[string]float64, error) {
	readings := make(map[string]float64)
	for _, neuron := range b.net.NeuronsOfKind(kind) {
		value, err := b.Read(neuron.ID, t)
		if err != nil {
			return nil, err
		}
		readings[neuron.ID.Name()] = value
	}
	return readings, nil
}

func (b *TraceBackend) Duration() int {
	return b.net.Duration()
}

func (b *TraceBackend) HasCompletedStage(stage int) bool {
	return b.net.HasCompletedStage(stage)
}
