package readout

import (
	"fmt"

	"snnverify/internal/backend"
	"snnverify/internal/model"
	"snnverify/internal/snn"
)

// ReadCounters returns the primary counter value per node at one timestep,
// keyed by display name.
func ReadCounters(b backend.Backend, nodeCount, t int) (map[string]float64, error) {
	counts := make(map[string]float64, nodeCount)
	for nodeIndex := 0; nodeIndex < nodeCount; nodeIndex++ {
		id := model.CounterID(nodeIndex)
		value, err := b.Read(id, t)
		if err != nil {
			return nil, err
		}
		counts[id.Name()] = value
	}
	return counts, nil
}

// ReadRedundant returns the replica counter values of one node at one
// timestep, keyed by display name.
func ReadRedundant(b backend.Backend, nodeIndex, redLevel, t int) (map[string]float64, error) {
	readings := make(map[string]float64, redLevel)
	for replica := 1; replica <= redLevel; replica++ {
		id := model.ReplicaCounterID(replica, nodeIndex)
		value, err := b.Read(id, t)
		if err != nil {
			return nil, err
		}
		readings[id.Name()] = value
	}
	return readings, nil
}

// groupReadings collects one node's voting population in deterministic
// order: the primary first (unless flagged dead), then replicas 1..redLevel.
func groupReadings(b backend.Backend, fd FaultDetector, nodeIndex, redLevel, t int) ([]model.CounterReading, error) {
	dead, err := fd.IsDead(nodeIndex)
	if err != nil {
		return nil, err
	}

	readings := make([]model.CounterReading, 0, redLevel+1)
	if !dead {
		primary := model.CounterID(nodeIndex)
		value, err := b.Read(primary, t)
		if err != nil {
			return nil, err
		}
		readings = append(readings, model.CounterReading{ID: primary, Value: value, Timestep: t})
	}
	for replica := 1; replica <= redLevel; replica++ {
		id := model.ReplicaCounterID(replica, nodeIndex)
		value, err := b.Read(id, t)
		if err != nil {
			return nil, err
		}
		readings = append(readings, model.CounterReading{ID: id, Value: value, Timestep: t})
	}
	return readings, nil
}

// Marks extracts the resolved count per node. Without redundancy this is the
// plain primary readout; with redundancy each node's count is the majority
// vote over its primary and replicas, negatives discarded as inhibition
// sentinels.
func Marks(b backend.Backend, fd FaultDetector, nodeCount int, redundant bool, redLevel, t int) (map[string]float64, error) {
	if !redundant {
		return ReadCounters(b, nodeCount, t)
	}
	if err := snn.ValidateRedLevel(redLevel); err != nil {
		return nil, err
	}
	if fd == nil {
		fd = NoFaultModel{}
	}

	counts := make(map[string]float64, nodeCount)
	for nodeIndex := 0; nodeIndex < nodeCount; nodeIndex++ {
		readings, err := groupReadings(b, fd, nodeIndex, redLevel, t)
		if err != nil {
			return nil, err
		}
		values := make([]float64, 0, len(readings))
		for _, reading := range readings {
			values = append(values, reading.Value)
		}
		majority, _, err := Resolve(values, true)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", model.CounterID(nodeIndex).Name(), err)
		}
		counts[model.CounterID(nodeIndex).Name()] = majority
	}
	return counts, nil
}
