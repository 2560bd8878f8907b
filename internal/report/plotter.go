package report

import (
	"fmt"
	"os"
	"path/filepath"

	"snnverify/internal/backend"
	"snnverify/internal/model"
)

// TracePlotter records the counter behaviour of an offending network as a
// JSON artifact in the run directory. It stands in for the external plot
// renderer: the pipeline invokes it before a validation error propagates,
// and its own failures never mask that error.
type TracePlotter struct {
	Dir     string
	Nets    map[string]*model.Network
	Rasters map[string]*backend.Raster
}

func (p TracePlotter) Plot(graphName string) error {
	if p.Dir == "" {
		return fmt.Errorf("trace plotter requires a run directory")
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return err
	}

	payload := map[string]any{"graph": graphName}
	if net := p.Nets[graphName]; net != nil {
		traces := make(map[string][]float64)
		for _, neuron := range net.NeuronsOfKind(model.KindCounter) {
			traces[neuron.ID.Name()] = neuron.Trace
		}
		payload["counter_traces"] = traces
	}
	if raster := p.Rasters[graphName]; raster != nil {
		payload["raster_names"] = raster.Names
		payload["raster_currents"] = raster.Currents
	}

	return writeJSON(filepath.Join(p.Dir, "trace_plot_"+graphName+".json"), payload)
}
