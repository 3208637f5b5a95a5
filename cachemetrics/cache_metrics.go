package cachemetrics

import (
	"github.com/bnb-chain/perf-dashboard/common/cycles"
	"github.com/bnb-chain/perf-dashboard/metrics"
)

// Function identifies a state access entry point of the cached database. It is
// used as the index into every counter array of a CacheDbRecord.
type Function int

const (
	BlockHash Function = iota
	CodeByHash
	LoadCacheAccount
	Storage

	// FunctionCount is the number of tracked functions.
	FunctionCount
)

func (f Function) String() string {
	switch f {
	case BlockHash:
		return "blockhash"
	case CodeByHash:
		return "code_by_hash"
	case LoadCacheAccount:
		return "load_account/basic"
	case Storage:
		return "storage"
	}
	return "unknown"
}

// Functions lists every tracked function in index order.
func Functions() []Function {
	return []Function{BlockHash, CodeByHash, LoadCacheAccount, Storage}
}

// FunctionStats is one counter per Function.
type FunctionStats [FunctionCount]uint64

// Sum adds up the counters of all functions.
func (s *FunctionStats) Sum() uint64 {
	var sum uint64
	for _, v := range s {
		sum += v
	}
	return sum
}

// CacheDbRecord is the cache family counter snapshot. All counter arrays share
// the Function index, so their lengths and order always agree.
type CacheDbRecord struct {
	Access  FunctionStats `json:"access"`
	Hits    FunctionStats `json:"hits"`
	Misses  FunctionStats `json:"misses"`
	Penalty PenaltyStats  `json:"penalty"`
}

// PenaltyStats holds the cycles spent serving misses and their latency distribution.
type PenaltyStats struct {
	Cycles     FunctionStats                  `json:"cycles"`
	Percentile *metrics.TimeDistributionStats `json:"percentile"`
}

// NewCacheDbRecord returns an empty record with a default-span penalty histogram.
func NewCacheDbRecord() *CacheDbRecord {
	return &CacheDbRecord{
		Penalty: PenaltyStats{
			Percentile: metrics.NewTimeDistributionStats(metrics.DefaultSpanInNs, metrics.DefaultSpanInUs),
		},
	}
}

// RecordHit marks an access of fn served from the cache.
func (r *CacheDbRecord) RecordHit(fn Function) {
	r.Access[fn]++
	r.Hits[fn]++
}

// RecordMiss marks an access of fn that fell through to the database, costing
// penaltyCycles.
func (r *CacheDbRecord) RecordMiss(fn Function, penaltyCycles uint64) {
	r.Access[fn]++
	r.Misses[fn]++
	r.Penalty.Cycles[fn] += penaltyCycles
	if r.Penalty.Percentile != nil {
		r.Penalty.Percentile.Record(uint64(cycles.ConvertCyclesToNsF64(penaltyCycles)))
	}
}

// Snapshot returns a deep copy that can be sent with a metric event while the
// producer keeps counting.
func (r *CacheDbRecord) Snapshot() *CacheDbRecord {
	cpy := *r
	cpy.Penalty.Percentile = r.Penalty.Percentile.Copy()
	return &cpy
}
