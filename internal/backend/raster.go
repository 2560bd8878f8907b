package backend

import (
	"fmt"

	"snnverify/internal/model"
	"snnverify/internal/verr"
)

// Raster is the flat multimeter shape: an ordered neuron-name list plus a
// time-by-neuron current matrix.
type Raster struct {
	Names           []string    `json:"names"`
	Currents        [][]float64 `json:"currents"`
	CompletedStages []int       `json:"completed_stages,omitempty"`
}

// RasterBackend serves positional lookups into a Raster via a structural
// name-to-position index built once at construction.
type RasterBackend struct {
	raster    Raster
	ids       []model.NeuronID
	positions map[model.NeuronID]int
}

func NewRasterBackend(raster Raster) (*RasterBackend, error) {
	ids := make([]model.NeuronID, 0, len(raster.Names))
	positions := make(map[model.NeuronID]int, len(raster.Names))
	for position, name := range raster.Names {
		id, err := model.ParseNeuronName(name)
		if err != nil {
			return nil, fmt.Errorf("raster position %d: %w", position, err)
		}
		if _, exists := positions[id]; exists {
			return nil, fmt.Errorf("duplicate raster neuron: %s", name)
		}
		ids = append(ids, id)
		positions[id] = position
	}
	for t, row := range raster.Currents {
		if len(row) != len(raster.Names) {
			return nil, fmt.Errorf("raster row %d has %d currents for %d neurons", t, len(row), len(raster.Names))
		}
	}
	return &RasterBackend{raster: raster, ids: ids, positions: positions}, nil
}

func (b *RasterBackend) Read(id model.NeuronID, t int) (float64, error) {
	position, ok := b.positions[id]
	if !ok {
		return 0, &verr.LookupError{Name: id.Name()}
	}
	if t < 0 || t >= len(b.raster.Currents) {
		return 0, fmt.Errorf("timestep %d out of range for %s (duration %d)", t, id.Name(), len(b.raster.Currents))
	}
	return b.raster.Currents[t][position], nil
}

func (b *RasterBackend) ReadGroup(kind model.NeuronKind, t int) (map[string]float64, error) {
	readings := make(map[string]float64)
	for _, id := range b.ids {
		if id.Kind != kind {
			continue
		}
		value, err := b.Read(id, t)
		if err != nil {
			return nil, err
		}
		readings[id.Name()] = value
	}
	return readings, nil
}

func (b *RasterBackend) Duration() int {
	return len(b.raster.Currents)
}

func (b *RasterBackend) HasCompletedStage(stage int) bool {
	for _, completed := range b.raster.CompletedStages {
		if completed == stage {
			return true
		}
	}
	return false
}
