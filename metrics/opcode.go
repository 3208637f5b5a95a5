package metrics

import "github.com/bnb-chain/perf-dashboard/common/cycles"

// OpcodeRecord accumulates per-instruction execution counts and cycles for a block.
type OpcodeRecord struct {
	Count        [OpcodeNumber]uint64   `json:"count"`
	Cycles       [OpcodeNumber]uint64   `json:"cycles"`
	TotalCount   uint64                 `json:"total_count"`
	TotalCycles  uint64                 `json:"total_cycles"`
	Distribution *TimeDistributionStats `json:"time_distribution"`
}

// NewOpcodeRecord returns an empty record with a default-span distribution.
func NewOpcodeRecord() *OpcodeRecord {
	return &OpcodeRecord{
		Distribution: NewTimeDistributionStats(DefaultSpanInNs, DefaultSpanInUs),
	}
}

// Record adds one execution of op that took the given number of cycles.
func (r *OpcodeRecord) Record(op OpCode, cycleCount uint64) {
	r.Count[op]++
	r.Cycles[op] += cycleCount
	r.TotalCount++
	r.TotalCycles += cycleCount
	if r.Distribution != nil {
		r.Distribution.Record(uint64(cycles.ConvertCyclesToNsF64(cycleCount)))
	}
}

// Copy returns a deep copy suitable for handing to the dashboard.
func (r *OpcodeRecord) Copy() *OpcodeRecord {
	cpy := *r
	cpy.Distribution = r.Distribution.Copy()
	return &cpy
}
