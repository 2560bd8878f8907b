// Package pipeline runs the post-simulation verification sweep over the
// four network variants: baseline, redundancy-adapted, and the
// radiation-fault-injected counterpart of each.
package pipeline

import (
	"fmt"

	"snnverify/internal/backend"
	"snnverify/internal/model"
	"snnverify/internal/readout"
	"snnverify/internal/validate"
	"snnverify/internal/verr"
)

// Variant names, matching the stage-2 graph naming of the simulation side.
const (
	VariantBaseline    = "snn_algo_graph"
	VariantAdapted     = "adapted_snn_graph"
	VariantRadBaseline = "rad_snn_algo_graph"
	VariantRadAdapted  = "rad_adapted_snn_graph"
)

// requiredStage is the simulation stage that must be completed before any
// readout is attempted.
const requiredStage = 2

// VariantRun carries one completed variant: the wired network (fault flags
// plus traces for the nx shape) and, for the simsnn shape, the multimeter
// raster.
type VariantRun struct {
	Name      string
	Simulator string
	Net       *model.Network
	Raster    *backend.Raster
	RedLevel  int
}

type Request struct {
	Graph    *model.InputGraph
	Oracle   model.OracleMarks
	Variants []VariantRun
	Plotter  validate.Plotter
}

// VariantResult is one variant's consensus result plus its comparison
// against the oracle. Validated marks the variants the sweep checks hard.
type VariantResult struct {
	Name      string
	Result    model.ConsensusResult
	Outcome   validate.Outcome
	Validated bool
}

// Apply extracts and checks results for every variant. Radiated variants
// are read out and compared but not validated hard; a validation failure on
// a non-radiated variant aborts the sweep with a ValidationError after the
// diagnostic plot hook ran.
func Apply(req Request) ([]VariantResult, error) {
	if req.Graph == nil {
		return nil, fmt.Errorf("verification requires the input graph")
	}
	if len(req.Oracle) == 0 {
		return nil, fmt.Errorf("verification requires the reference oracle marks")
	}

	results := make([]VariantResult, 0, len(req.Variants))
	for _, variant := range req.Variants {
		result, err := applyVariant(req, variant)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func applyVariant(req Request, variant VariantRun) (VariantResult, error) {
	redundant, validated, err := variantTraits(variant.Name)
	if err != nil {
		return VariantResult{}, err
	}

	b, err := backend.ForSimulator(variant.Simulator, variant.Net, variant.Raster)
	if err != nil {
		return VariantResult{}, err
	}
	if !b.HasCompletedStage(requiredStage) {
		return VariantResult{}, &verr.PreconditionError{Graph: variant.Name, Stage: requiredStage}
	}
	duration := b.Duration()
	if duration == 0 {
		return VariantResult{}, &verr.PreconditionError{Graph: variant.Name, Stage: requiredStage}
	}
	// Timestep indices start at zero, so the readout happens at the last
	// recorded step.
	finalTimestep := duration - 1

	var detector readout.FaultDetector = readout.NoFaultModel{}
	if variant.Net != nil {
		detector = readout.NetworkFaultDetector{Net: variant.Net}
	}

	redLevel := variant.RedLevel
	if redLevel == 0 && variant.Net != nil {
		redLevel = variant.Net.RedLevel
	}

	counts, err := readout.Marks(b, detector, req.Graph.NodeCount(), redundant, redLevel, finalTimestep)
	if err != nil {
		return VariantResult{}, fmt.Errorf("%s: %w", variant.Name, err)
	}

	result := model.ConsensusResult{Counts: counts}
	result.Passed = result.Matches(req.Oracle)

	variantResult := VariantResult{
		Name:      variant.Name,
		Result:    result,
		Outcome:   validate.Compare(result, req.Oracle),
		Validated: validated,
	}
	if validated {
		if err := validate.Validate(variant.Name, result, req.Oracle, req.Plotter); err != nil {
			return VariantResult{}, err
		}
	}
	return variantResult, nil
}

func variantTraits(name string) (redundant, validated bool, err error) {
	switch name {
	case VariantBaseline:
		return false, true, nil
	case VariantAdapted:
		return true, true, nil
	case VariantRadBaseline:
		return false, false, nil
	case VariantRadAdapted:
		return true, false, nil
	default:
		return false, false, fmt.Errorf("invalid graph name: %s", name)
	}
}
