package model

import (
	"fmt"
	"strconv"
	"strings"
)

type NeuronKind string

const (
	KindSpikeOnce      NeuronKind = "spike_once"
	KindDegreeReceiver NeuronKind = "degree_receiver"
	KindRand           NeuronKind = "rand"
	KindCounter        NeuronKind = "counter"
	KindNextRound      NeuronKind = "next_round"
	KindDelay          NeuronKind = "delay"
)

// NeuronID is the structural identity of a neuron. Identity comparisons use
// the fields, never display-name containment; names are derived only at the
// backend boundary.
type NeuronID struct {
	Kind      NeuronKind `json:"kind"`
	NodeIndex int        `json:"node_index"`
	Neighbour int        `json:"neighbour"`
	MVal      int        `json:"m_val"`
	Replica   int        `json:"replica"`
}

func SpikeOnceID(nodeIndex int) NeuronID {
	return NeuronID{Kind: KindSpikeOnce, NodeIndex: nodeIndex}
}

func DegreeReceiverID(nodeIndex, neighbour, mVal int) NeuronID {
	return NeuronID{Kind: KindDegreeReceiver, NodeIndex: nodeIndex, Neighbour: neighbour, MVal: mVal}
}

func RandID(nodeIndex, mVal int) NeuronID {
	return NeuronID{Kind: KindRand, NodeIndex: nodeIndex, MVal: mVal}
}

func CounterID(nodeIndex int) NeuronID {
	return NeuronID{Kind: KindCounter, NodeIndex: nodeIndex}
}

// ReplicaCounterID identifies redundant counter replicas; replica 1 is the
// first replica, replica 0 is the primary.
func ReplicaCounterID(replica, nodeIndex int) NeuronID {
	return NeuronID{Kind: KindCounter, NodeIndex: nodeIndex, Replica: replica}
}

func NextRoundID(mVal int) NeuronID {
	return NeuronID{Kind: KindNextRound, MVal: mVal}
}

func DelayID(mVal int) NeuronID {
	return NeuronID{Kind: KindDelay, MVal: mVal}
}

// Name renders the display name used by simulator traces and multimeter
// neuron lists, e.g. counter_3, r_2_counter_3, degree_receiver_1_2_0.
func (id NeuronID) Name() string {
	switch id.Kind {
	case KindSpikeOnce:
		return fmt.Sprintf("spike_once_%d", id.NodeIndex)
	case KindDegreeReceiver:
		return fmt.Sprintf("degree_receiver_%d_%d_%d", id.NodeIndex, id.Neighbour, id.MVal)
	case KindRand:
		return fmt.Sprintf("rand_%d_%d", id.NodeIndex, id.MVal)
	case KindCounter:
		if id.Replica > 0 {
			return fmt.Sprintf("r_%d_counter_%d", id.Replica, id.NodeIndex)
		}
		return fmt.Sprintf("counter_%d", id.NodeIndex)
	case KindNextRound:
		return fmt.Sprintf("next_round_%d", id.MVal)
	case KindDelay:
		return fmt.Sprintf("delay_%d", id.MVal)
	default:
		return fmt.Sprintf("%s_%d", id.Kind, id.NodeIndex)
	}
}

// IsPrimaryCounter reports whether the id names the primary counter of a node.
func (id NeuronID) IsPrimaryCounter() bool {
	return id.Kind == KindCounter && id.Replica == 0
}

// ParseNeuronName converts a display name back into a structured id requiring
// an exact token match, so counter_1 never matches counter_10 or
// r_2_counter_1.
func ParseNeuronName(name string) (NeuronID, error) {
	replica := 0
	rest := name
	if tail, ok := strings.CutPrefix(rest, "r_"); ok {
		sep := strings.Index(tail, "_")
		if sep <= 0 {
			return NeuronID{}, fmt.Errorf("malformed neuron name: %s", name)
		}
		k, err := parseIndexToken(tail[:sep])
		if err != nil {
			return NeuronID{}, fmt.Errorf("malformed neuron name: %s", name)
		}
		replica = k
		rest = tail[sep+1:]
	}

	for _, kind := range []NeuronKind{KindSpikeOnce, KindDegreeReceiver, KindRand, KindCounter, KindNextRound, KindDelay} {
		tail, ok := strings.CutPrefix(rest, string(kind)+"_")
		if !ok {
			continue
		}
		indices, err := parseIndexTokens(tail)
		if err != nil {
			return NeuronID{}, fmt.Errorf("malformed neuron name: %s", name)
		}
		id, err := idFromIndices(kind, indices)
		if err != nil {
			return NeuronID{}, fmt.Errorf("malformed neuron name %s: %w", name, err)
		}
		if replica > 0 {
			if id.Kind != KindCounter {
				return NeuronID{}, fmt.Errorf("replica prefix on non-counter neuron: %s", name)
			}
			id.Replica = replica
		}
		return id, nil
	}
	return NeuronID{}, fmt.Errorf("unknown neuron kind in name: %s", name)
}

func idFromIndices(kind NeuronKind, indices []int) (NeuronID, error) {
	switch kind {
	case KindSpikeOnce:
		if len(indices) != 1 {
			return NeuronID{}, fmt.Errorf("spike_once expects 1 index, got %d", len(indices))
		}
		return SpikeOnceID(indices[0]), nil
	case KindDegreeReceiver:
		if len(indices) != 3 {
			return NeuronID{}, fmt.Errorf("degree_receiver expects 3 indices, got %d", len(indices))
		}
		return DegreeReceiverID(indices[0], indices[1], indices[2]), nil
	case KindRand:
		if len(indices) != 2 {
			return NeuronID{}, fmt.Errorf("rand expects 2 indices, got %d", len(indices))
		}
		return RandID(indices[0], indices[1]), nil
	case KindCounter:
		if len(indices) != 1 {
			return NeuronID{}, fmt.Errorf("counter expects 1 index, got %d", len(indices))
		}
		return CounterID(indices[0]), nil
	case KindNextRound:
		if len(indices) != 1 {
			return NeuronID{}, fmt.Errorf("next_round expects 1 index, got %d", len(indices))
		}
		return NextRoundID(indices[0]), nil
	case KindDelay:
		if len(indices) != 1 {
			return NeuronID{}, fmt.Errorf("delay expects 1 index, got %d", len(indices))
		}
		return DelayID(indices[0]), nil
	default:
		return NeuronID{}, fmt.Errorf("unknown neuron kind: %s", kind)
	}
}

func parseIndexTokens(tail string) ([]int, error) {
	tokens := strings.Split(tail, "_")
	indices := make([]int, 0, len(tokens))
	for _, token := range tokens {
		index, err := parseIndexToken(token)
		if err != nil {
			return nil, err
		}
		indices = append(indices, index)
	}
	return indices, nil
}

func parseIndexToken(token string) (int, error) {
	if token == "" {
		return 0, fmt.Errorf("empty index token")
	}
	index, err := strconv.Atoi(token)
	if err != nil {
		return 0, err
	}
	if index < 0 {
		return 0, fmt.Errorf("negative index token: %d", index)
	}
	return index, nil
}
