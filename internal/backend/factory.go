package backend

import (
	"fmt"

	"snnverify/internal/model"
	"snnverify/internal/verr"
)

// Simulator identifiers matching the upstream simulation stacks.
const (
	SimulatorNX     = "nx"
	SimulatorSimSNN = "simsnn"
)

// ForSimulator builds the adapter matching a simulator identifier.
func ForSimulator(simulator string, net *model.Network, raster *Raster) (Backend, error) {
	switch simulator {
	case SimulatorNX:
		if net == nil {
			return nil, fmt.Errorf("simulator %s requires a network with traces", simulator)
		}
		return NewTraceBackend(net)
	case SimulatorSimSNN:
		if raster == nil {
			return nil, fmt.Errorf("simulator %s requires a multimeter raster", simulator)
		}
		return NewRasterBackend(*raster)
	default:
		return nil, &verr.UnsupportedBackendError{Kind: simulator}
	}
}
