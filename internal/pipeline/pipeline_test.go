package pipeline

import (
	"errors"
	"strings"
	"testing"

	"snnverify/internal/model"
	"snnverify/internal/verr"
)

var testOracle = model.OracleMarks{"counter_0": 1, "counter_1": 0, "counter_2": 1}

type recordingPlotter struct {
	graphs []string
}

func (p *recordingPlotter) Plot(graphName string) error {
	p.graphs = append(p.graphs, graphName)
	return nil
}

func triangleGraph(t *testing.T) *model.InputGraph {
	t.Helper()

	graph, err := model.NewInputGraph(3)
	if err != nil {
		t.Fatalf("new input graph failed: %v", err)
	}
	for _, edge := range [][2]int{{0, 1}, {1, 2}, {0, 2}} {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			t.Fatalf("add edge failed: %v", err)
		}
	}
	return graph
}

func setTrace(t *testing.T, net *model.Network, id model.NeuronID, trace []float64) {
	t.Helper()

	neuron, err := net.AddNeuron(id)
	if err != nil {
		t.Fatalf("add neuron failed: %v", err)
	}
	neuron.Trace = trace
}

// variantNet wires counters (and replicas when redundant) whose final trace
// entry matches the oracle mark, with the fault flags of a radiated run when
// rad is set.
func variantNet(t *testing.T, redundant, rad bool) *model.Network {
	t.Helper()

	net := model.NewNetwork()
	for nodeIndex := 0; nodeIndex < 3; nodeIndex++ {
		mark := float64(testOracle[model.CounterID(nodeIndex).Name()])
		setTrace(t, net, model.CounterID(nodeIndex), []float64{0, mark})
		if redundant {
			setTrace(t, net, model.ReplicaCounterID(1, nodeIndex), []float64{0, mark})
			setTrace(t, net, model.ReplicaCounterID(2, nodeIndex), []float64{0, mark})
			net.RedLevel = 2
		}
	}
	if rad {
		for _, neuron := range net.Neurons {
			alive := false
			neuron.RadDeath = &alive
		}
	}
	net.MarkStageCompleted(2)
	return net
}

func TestApplySweepsAllVariants(t *testing.T) {
	req := Request{
		Graph:  triangleGraph(t),
		Oracle: testOracle,
		Variants: []VariantRun{
			{Name: VariantBaseline, Simulator: "nx", Net: variantNet(t, false, false)},
			{Name: VariantAdapted, Simulator: "nx", Net: variantNet(t, true, false)},
			{Name: VariantRadBaseline, Simulator: "nx", Net: variantNet(t, false, true)},
			{Name: VariantRadAdapted, Simulator: "nx", Net: variantNet(t, true, true)},
		},
	}

	results, err := Apply(req)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 variant results, got %d", len(results))
	}
	for _, result := range results {
		if !result.Result.Passed {
			t.Fatalf("%s should match the oracle: %+v", result.Name, result.Result)
		}
	}
	if !results[0].Validated || !results[1].Validated {
		t.Fatal("non-radiated variants must be validated")
	}
	if results[2].Validated || results[3].Validated {
		t.Fatal("radiated variants must not be validated")
	}
}

func TestApplyRadMismatchDoesNotAbort(t *testing.T) {
	net := variantNet(t, false, true)
	neuron, _ := net.Neuron(model.CounterID(0))
	neuron.Trace = []float64{0, 7}

	results, err := Apply(Request{
		Graph:    triangleGraph(t),
		Oracle:   testOracle,
		Variants: []VariantRun{{Name: VariantRadBaseline, Simulator: "nx", Net: net}},
	})
	if err != nil {
		t.Fatalf("radiated mismatch must not abort the sweep: %v", err)
	}
	if results[0].Result.Passed {
		t.Fatal("mismatched radiated variant should not pass")
	}
	if len(results[0].Outcome.Mismatches) != 1 {
		t.Fatalf("outcome should record the mismatch: %+v", results[0].Outcome)
	}
}

func TestApplyValidatedMismatchAbortsAfterPlot(t *testing.T) {
	net := variantNet(t, false, false)
	neuron, _ := net.Neuron(model.CounterID(0))
	neuron.Trace = []float64{0, 7}

	plotter := &recordingPlotter{}
	_, err := Apply(Request{
		Graph:    triangleGraph(t),
		Oracle:   testOracle,
		Variants: []VariantRun{{Name: VariantBaseline, Simulator: "nx", Net: net}},
		Plotter:  plotter,
	})

	var validationErr *verr.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validationErr.Node != "counter_0" {
		t.Fatalf("error should name the diverging node: %+v", validationErr)
	}
	if len(plotter.graphs) != 1 || plotter.graphs[0] != VariantBaseline {
		t.Fatalf("diagnostic plot should run before the abort: %v", plotter.graphs)
	}
}

func TestApplyRequiresCompletedStage(t *testing.T) {
	net := variantNet(t, false, false)
	net.CompletedStages = nil

	_, err := Apply(Request{
		Graph:    triangleGraph(t),
		Oracle:   testOracle,
		Variants: []VariantRun{{Name: VariantBaseline, Simulator: "nx", Net: net}},
	})

	var preconditionErr *verr.PreconditionError
	if !errors.As(err, &preconditionErr) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if preconditionErr.Graph != VariantBaseline || preconditionErr.Stage != 2 {
		t.Fatalf("precondition error carries wrong context: %+v", preconditionErr)
	}
}

func TestApplyRequiresRecordedTraces(t *testing.T) {
	net := model.NewNetwork()
	if _, err := net.AddNeuron(model.CounterID(0)); err != nil {
		t.Fatalf("add neuron failed: %v", err)
	}
	net.MarkStageCompleted(2)

	_, err := Apply(Request{
		Graph:    triangleGraph(t),
		Oracle:   testOracle,
		Variants: []VariantRun{{Name: VariantBaseline, Simulator: "nx", Net: net}},
	})

	var preconditionErr *verr.PreconditionError
	if !errors.As(err, &preconditionErr) {
		t.Fatalf("expected precondition error for empty traces, got %v", err)
	}
}

func TestApplyRejectsUnknownVariantName(t *testing.T) {
	_, err := Apply(Request{
		Graph:    triangleGraph(t),
		Oracle:   testOracle,
		Variants: []VariantRun{{Name: "mystery_graph", Simulator: "nx", Net: variantNet(t, false, false)}},
	})
	if err == nil || !strings.Contains(err.Error(), "invalid graph name") {
		t.Fatalf("expected invalid graph name rejection, got %v", err)
	}
}

func TestApplyRequiresGraphAndOracle(t *testing.T) {
	if _, err := Apply(Request{Oracle: testOracle}); err == nil {
		t.Fatal("expected missing graph rejection")
	}
	if _, err := Apply(Request{Graph: triangleGraph(t)}); err == nil {
		t.Fatal("expected missing oracle rejection")
	}
}
