package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Neuron is one node of the spiking network. The trace is the per-timestep
// scalar the simulator recorded for it (membrane potential or output
// current). RadDeath is nil while the radiation-fault model is inactive.
type Neuron struct {
	ID       NeuronID  `json:"id"`
	Trace    []float64 `json:"trace,omitempty"`
	RadDeath *bool     `json:"rad_death,omitempty"`
}

// Synapse is a timed, weighted edge. From == To models recurrent
// self-sustaining or self-inhibiting behaviour.
type Synapse struct {
	From       NeuronID `json:"from"`
	To         NeuronID `json:"to"`
	Weight     float64  `json:"weight"`
	Delay      int      `json:"delay"`
	ChangePerT float64  `json:"change_per_t"`
}

// RedundancyGroup maps one logical counter to its primary and replicas.
type RedundancyGroup struct {
	NodeIndex int        `json:"node_index"`
	Primary   NeuronID   `json:"primary"`
	Replicas  []NeuronID `json:"replicas"`
}

// CounterReading is one raw readout sample. Ephemeral: produced per readout
// call and never persisted.
type CounterReading struct {
	ID       NeuronID
	Value    float64
	Timestep int
}

// OracleMarks is the trusted reference result: counter_<i> to the expected
// count per node.
type OracleMarks map[string]int

// ConsensusResult is the per-variant outcome of the fault-tolerant readout:
// one resolved count per node plus the flag stating whether the full set
// equals the oracle.
type ConsensusResult struct {
	Counts map[string]float64 `json:"counts"`
	Passed bool               `json:"passed"`
}

// Matches reports whether every oracle node has an equal resolved count and
// no extra nodes are present.
func (r ConsensusResult) Matches(expected OracleMarks) bool {
	if len(r.Counts) != len(expected) {
		return false
	}
	for name, mark := range expected {
		count, ok := r.Counts[name]
		if !ok || count != float64(mark) {
			return false
		}
	}
	return true
}

// RunResult is the persisted form of a per-variant consensus result.
type RunResult struct {
	VersionedRecord
	RunID        string             `json:"run_id"`
	Variant      string             `json:"variant"`
	Counts       map[string]float64 `json:"counts"`
	Passed       bool               `json:"passed"`
	CreatedAtUTC string             `json:"created_at_utc"`
}

// ValidationRecord is the persisted form of one variant's validation outcome.
type ValidationRecord struct {
	VersionedRecord
	RunID        string   `json:"run_id"`
	Variant      string   `json:"variant"`
	Passed       bool     `json:"passed"`
	Mismatched   []string `json:"mismatched,omitempty"`
	CreatedAtUTC string   `json:"created_at_utc"`
}
