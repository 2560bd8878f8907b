package snn

import (
	"fmt"

	"snnverify/internal/model"
	"snnverify/internal/verr"
)

// ValidateRedLevel enforces the canonical redundancy parity rule: the
// replica count must be an even integer >= 2. The voting population is the
// primary plus its replicas, so an even replica count keeps the voter count
// odd and the majority vote tie-proof.
func ValidateRedLevel(redLevel int) error {
	if redLevel < 2 || redLevel%2 != 0 {
		return &verr.ConfigError{
			Field:  "red_level",
			Reason: fmt.Sprintf("redundancy should be an even integer of 2 or larger, it is: %d", redLevel),
		}
	}
	return nil
}

// AddCounterRedundancy instantiates redLevel replica counters per logical
// counter, each wired identically to its primary, and records the resulting
// redundancy groups on the network.
func AddCounterRedundancy(net *model.Network, redLevel int) ([]model.RedundancyGroup, error) {
	if net == nil {
		return nil, fmt.Errorf("counter redundancy requires a network")
	}
	if err := ValidateRedLevel(redLevel); err != nil {
		return nil, err
	}

	primaries := make([]model.NeuronID, 0)
	for _, neuron := range net.NeuronsOfKind(model.KindCounter) {
		if neuron.ID.IsPrimaryCounter() {
			primaries = append(primaries, neuron.ID)
		} else {
			return nil, fmt.Errorf("network already carries replica counter %s", neuron.ID.Name())
		}
	}

	groups := make([]model.RedundancyGroup, 0, len(primaries))
	// Snapshot before wiring replicas so duplicated synapses are not
	// re-duplicated.
	baseline := append([]model.Synapse(nil), net.Synapses...)

	for _, primary := range primaries {
		group := model.RedundancyGroup{NodeIndex: primary.NodeIndex, Primary: primary}
		for replica := 1; replica <= redLevel; replica++ {
			replicaID := model.ReplicaCounterID(replica, primary.NodeIndex)
			if _, err := net.AddNeuron(replicaID); err != nil {
				return nil, err
			}
			group.Replicas = append(group.Replicas, replicaID)
		}
		groups = append(groups, group)
	}

	for _, primary := range primaries {
		for replica := 1; replica <= redLevel; replica++ {
			replicaID := model.ReplicaCounterID(replica, primary.NodeIndex)
			for _, synapse := range baseline {
				from, to := synapse.From, synapse.To
				touches := false
				if from == primary {
					from = replicaID
					touches = true
				}
				if to == primary {
					to = replicaID
					touches = true
				}
				if !touches {
					continue
				}
				if err := net.Connect(from, to, synapse.Weight, synapse.Delay, synapse.ChangePerT); err != nil {
					return nil, err
				}
			}
		}
	}

	net.RedLevel = redLevel
	return groups, nil
}
