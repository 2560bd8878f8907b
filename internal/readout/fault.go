// Package readout extracts per-node counter values from a completed
// simulation and resolves redundant readings into one authoritative count
// per node under the radiation-fault model.
package readout

import (
	"fmt"

	"snnverify/internal/model"
	"snnverify/internal/verr"
)

// FaultDetector answers whether a node's primary counter is flagged as
// radiation-dead.
type FaultDetector interface {
	IsDead(nodeIndex int) (bool, error)
}

// NoFaultModel is the detector for networks simulated without radiation.
type NoFaultModel struct{}

func (NoFaultModel) IsDead(int) (bool, error) {
	return false, nil
}

// NetworkFaultDetector probes the rad_death flags stored on a wired network.
type NetworkFaultDetector struct {
	Net *model.Network
}

// IsDead returns the stored rad_death flag of the primary counter. When no
// neuron in the network carries the flag the fault model is inactive and
// every neuron is alive.
func (d NetworkFaultDetector) IsDead(nodeIndex int) (bool, error) {
	active, err := HasDeadNeurons(d.Net)
	if err != nil {
		return false, err
	}
	if !active {
		return false, nil
	}
	neuron, ok := d.Net.Neuron(model.CounterID(nodeIndex))
	if !ok {
		return false, &verr.LookupError{Name: model.CounterID(nodeIndex).Name()}
	}
	return neuron.RadDeath != nil && *neuron.RadDeath, nil
}

// HasDeadNeurons reports whether the fault model is active. If any neuron
// carries the rad_death flag, every counter neuron must carry it; partial
// tagging is a consistency violation.
func HasDeadNeurons(net *model.Network) (bool, error) {
	if net == nil {
		return false, fmt.Errorf("fault probe requires a network")
	}
	found := false
	for _, neuron := range net.Neurons {
		if neuron.RadDeath != nil {
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	for _, neuron := range net.NeuronsOfKind(model.KindCounter) {
		if neuron.RadDeath == nil {
			return false, &verr.ConsistencyError{
				Reason: fmt.Sprintf("rad_death flag is not set on all counter neurons of the network, missing on %s", neuron.ID.Name()),
			}
		}
	}
	return true, nil
}
