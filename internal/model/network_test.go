package model

import (
	"encoding/json"
	"errors"
	"testing"

	"snnverify/internal/verr"
)

func TestNetworkAddAndLookup(t *testing.T) {
	net := NewNetwork()
	if _, err := net.AddNeuron(CounterID(0)); err != nil {
		t.Fatalf("add neuron failed: %v", err)
	}
	if _, err := net.AddNeuron(CounterID(0)); err == nil {
		t.Fatal("expected duplicate neuron error")
	}
	if _, ok := net.Neuron(CounterID(0)); !ok {
		t.Fatal("expected counter_0 to be present")
	}
	if _, ok := net.Neuron(CounterID(1)); ok {
		t.Fatal("counter_1 should be absent")
	}
}

func TestNetworkConnectRequiresEndpoints(t *testing.T) {
	net := NewNetwork()
	if _, err := net.AddNeuron(SpikeOnceID(0)); err != nil {
		t.Fatalf("add neuron failed: %v", err)
	}

	if err := net.Connect(SpikeOnceID(0), SpikeOnceID(0), -2, 0, 0); err != nil {
		t.Fatalf("self-loop on existing neuron failed: %v", err)
	}
	if len(net.Synapses) != 1 {
		t.Fatalf("expected 1 synapse, got %d", len(net.Synapses))
	}

	err := net.Connect(SpikeOnceID(0), CounterID(3), 1, 0, 0)
	var lookupErr *verr.LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	if lookupErr.Name != "counter_3" {
		t.Fatalf("lookup error names wrong neuron: %s", lookupErr.Name)
	}
}

func TestNetworkStagesAndDuration(t *testing.T) {
	net := NewNetwork()
	neuron, err := net.AddNeuron(CounterID(0))
	if err != nil {
		t.Fatalf("add neuron failed: %v", err)
	}
	neuron.Trace = []float64{0, 1, 3}

	if net.HasCompletedStage(2) {
		t.Fatal("stage 2 should not be completed yet")
	}
	net.MarkStageCompleted(2)
	net.MarkStageCompleted(2)
	if !net.HasCompletedStage(2) {
		t.Fatal("stage 2 should be completed")
	}
	if len(net.CompletedStages) != 1 {
		t.Fatalf("stage recorded twice: %v", net.CompletedStages)
	}
	if got := net.Duration(); got != 3 {
		t.Fatalf("unexpected duration: %d", got)
	}
}

func TestNetworkIndexSurvivesJSONDecode(t *testing.T) {
	net := NewNetwork()
	if _, err := net.AddNeuron(CounterID(1)); err != nil {
		t.Fatalf("add neuron failed: %v", err)
	}
	data, err := json.Marshal(net)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Network
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := decoded.Neuron(CounterID(1)); !ok {
		t.Fatal("decoded network lost its neuron index")
	}
}

func TestInputGraph(t *testing.T) {
	if _, err := NewInputGraph(0); err == nil {
		t.Fatal("expected error for empty graph")
	}

	graph, err := NewInputGraph(3)
	if err != nil {
		t.Fatalf("new input graph failed: %v", err)
	}
	if err := graph.AddEdge(0, 1); err != nil {
		t.Fatalf("add edge failed: %v", err)
	}
	if err := graph.AddEdge(1, 2); err != nil {
		t.Fatalf("add edge failed: %v", err)
	}
	if err := graph.AddEdge(1, 1); err == nil {
		t.Fatal("expected self-edge rejection")
	}
	if err := graph.AddEdge(0, 5); err == nil {
		t.Fatal("expected out-of-range rejection")
	}

	neighbours := graph.Neighbours(1)
	if len(neighbours) != 2 || neighbours[0] != 0 || neighbours[1] != 2 {
		t.Fatalf("unexpected neighbours of 1: %v", neighbours)
	}
	if got := graph.NodeCount(); got != 3 {
		t.Fatalf("unexpected node count: %d", got)
	}
}
