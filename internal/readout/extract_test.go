package readout

import (
	"strings"
	"testing"

	"snnverify/internal/backend"
	"snnverify/internal/model"
)

// redundantNetwork wires two nodes with red_level 2 and fixed final readings:
// node 0 agrees on 3 across all copies, node 1 has an outvoted primary.
func redundantNetwork(t *testing.T) *model.Network {
	t.Helper()

	net := model.NewNetwork()
	traces := map[model.NeuronID][]float64{
		model.CounterID(0):           {0, 3},
		model.ReplicaCounterID(1, 0): {0, 3},
		model.ReplicaCounterID(2, 0): {0, 3},
		model.CounterID(1):           {0, 9},
		model.ReplicaCounterID(1, 1): {0, 5},
		model.ReplicaCounterID(2, 1): {0, 5},
	}
	for id, trace := range traces {
		neuron, err := net.AddNeuron(id)
		if err != nil {
			t.Fatalf("add neuron failed: %v", err)
		}
		neuron.Trace = trace
	}
	net.MarkStageCompleted(2)
	return net
}

func redundantBackend(t *testing.T, net *model.Network) backend.Backend {
	t.Helper()

	b, err := backend.NewTraceBackend(net)
	if err != nil {
		t.Fatalf("new trace backend failed: %v", err)
	}
	return b
}

func TestReadCounters(t *testing.T) {
	net := redundantNetwork(t)
	counts, err := ReadCounters(redundantBackend(t, net), 2, 1)
	if err != nil {
		t.Fatalf("read counters failed: %v", err)
	}
	if len(counts) != 2 || counts["counter_0"] != 3 || counts["counter_1"] != 9 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestReadRedundant(t *testing.T) {
	net := redundantNetwork(t)
	readings, err := ReadRedundant(redundantBackend(t, net), 1, 2, 1)
	if err != nil {
		t.Fatalf("read redundant failed: %v", err)
	}
	if len(readings) != 2 || readings["r_1_counter_1"] != 5 || readings["r_2_counter_1"] != 5 {
		t.Fatalf("unexpected readings: %v", readings)
	}
}

func TestMarksWithoutRedundancy(t *testing.T) {
	net := redundantNetwork(t)
	counts, err := Marks(redundantBackend(t, net), nil, 2, false, 0, 1)
	if err != nil {
		t.Fatalf("marks failed: %v", err)
	}
	if counts["counter_1"] != 9 {
		t.Fatalf("non-redundant readout must use the primary alone: %v", counts)
	}
}

func TestMarksMajorityOutvotesPrimary(t *testing.T) {
	net := redundantNetwork(t)
	counts, err := Marks(redundantBackend(t, net), nil, 2, true, 2, 1)
	if err != nil {
		t.Fatalf("marks failed: %v", err)
	}
	if counts["counter_0"] != 3 {
		t.Fatalf("unanimous node miscounted: %v", counts)
	}
	if counts["counter_1"] != 5 {
		t.Fatalf("replica majority should outvote the primary: %v", counts)
	}
}

func TestMarksSkipsDeadPrimary(t *testing.T) {
	net := redundantNetwork(t)
	for _, neuron := range net.Neurons {
		dead := neuron.ID == model.CounterID(1)
		flag := dead
		neuron.RadDeath = &flag
	}
	// The dead primary reads a stale 9; the detector must drop it from the
	// vote entirely.
	counts, err := Marks(redundantBackend(t, net), NetworkFaultDetector{Net: net}, 2, true, 2, 1)
	if err != nil {
		t.Fatalf("marks failed: %v", err)
	}
	if counts["counter_1"] != 5 {
		t.Fatalf("dead primary must not participate in the vote: %v", counts)
	}
}

func TestMarksRejectsOddRedLevel(t *testing.T) {
	net := redundantNetwork(t)
	if _, err := Marks(redundantBackend(t, net), nil, 2, true, 3, 1); err == nil {
		t.Fatal("expected odd red_level rejection")
	}
}

func TestMarksNamesFailingCounter(t *testing.T) {
	net := redundantNetwork(t)
	neuron, _ := net.Neuron(model.ReplicaCounterID(2, 1))
	neuron.Trace = []float64{0, 6}

	_, err := Marks(redundantBackend(t, net), nil, 2, true, 2, 1)
	if err == nil {
		t.Fatal("expected three-way split rejection")
	}
	if !strings.Contains(err.Error(), "counter_1") {
		t.Fatalf("error should name the failing counter: %v", err)
	}
}
