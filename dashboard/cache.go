package dashboard

import (
	"fmt"
	"io"

	"github.com/bnb-chain/perf-dashboard/cachemetrics"
	"github.com/bnb-chain/perf-dashboard/common/cycles"
)

// CacheStat is the derived row of one state function.
type CacheStat struct {
	Hits       uint64
	Misses     uint64
	MissRatio  float64 // misses / accesses
	Penalty    float64 // seconds
	AvgPenalty float64 // microseconds per miss
}

const cacheStatsLen = int(cachemetrics.FunctionCount) + 1

// CacheStats holds one row per state function and the total row in the last slot.
type CacheStats struct {
	Functions [cacheStatsLen]CacheStat
}

// NewCacheStats derives the table from a cache record. Ratios over a zero
// count are left as the NaN or Inf the division produces.
func NewCacheStats(record *cachemetrics.CacheDbRecord) *CacheStats {
	stats := new(CacheStats)
	for _, fn := range cachemetrics.Functions() {
		stats.Functions[fn] = newCacheStat(
			record.Hits[fn],
			record.Misses[fn],
			record.Access[fn],
			record.Penalty.Cycles[fn],
		)
	}
	// The total row is computed from the sums, not from the row ratios.
	stats.Functions[cacheStatsLen-1] = newCacheStat(
		record.Hits.Sum(),
		record.Misses.Sum(),
		record.Access.Sum(),
		record.Penalty.Cycles.Sum(),
	)
	return stats
}

func newCacheStat(hits, misses, access, penaltyCycles uint64) CacheStat {
	return CacheStat{
		Hits:       hits,
		Misses:     misses,
		MissRatio:  float64(misses) / float64(access),
		Penalty:    cyclesAsSecs(penaltyCycles),
		AvgPenalty: cycles.ConvertCyclesToNsF64(penaltyCycles) / (1000 * float64(misses)),
	}
}

// Function returns the row of fn.
func (s *CacheStats) Function(fn cachemetrics.Function) CacheStat {
	return s.Functions[fn]
}

// Total returns the aggregate row.
func (s *CacheStats) Total() CacheStat {
	return s.Functions[cacheStatsLen-1]
}

func (s *CacheStats) PrintTitle(w io.Writer) {
	printTitleLine(w, "================================================ Metric of State ===========================================")
	fmt.Fprintf(w, "%-*s%*s%*s%*s%*s%*s\n",
		colWidthBig, "State functions",
		colWidthMiddle, "Hits",
		colWidthMiddle, "Misses",
		colWidthBig, "Miss ratio (%)",
		colWidthBig, "Penalty time (s)",
		colWidthBig, "Avg penalty (μs)",
	)
}

func (s *CacheStats) PrintContent(w io.Writer) {
	for _, fn := range cachemetrics.Functions() {
		s.printItem(w, fn.String(), s.Functions[fn])
	}
	s.printItem(w, "total", s.Total())
}

func (s *CacheStats) printItem(w io.Writer, name string, stat CacheStat) {
	fmt.Fprintf(w, "%-*s%*d%*d%*.3f%*.3f%*.3f\n",
		colWidthBig, name,
		colWidthMiddle, stat.Hits,
		colWidthMiddle, stat.Misses,
		colWidthBig, stat.MissRatio*100,
		colWidthBig, stat.Penalty,
		colWidthBig, stat.AvgPenalty,
	)
}

// cacheReport is the full cache family report: the state size banner, the
// function table and the penalty distribution.
type cacheReport struct {
	blockNumber uint64
	size        uint64
	record      *cachemetrics.CacheDbRecord
}

func (r *cacheReport) print(w io.Writer) {
	printStateSize(w, r.blockNumber, r.size)
	Print(w, NewCacheStats(r.record))
	r.printPenalty(w)
}

func (r *cacheReport) printPenalty(w io.Writer) {
	fmt.Fprintln(w)
	printTitleLine(w, "================Penalty Percentile=============")
	if p := r.record.Penalty.Percentile; p != nil {
		distribution{p}.PrintContent(w)
	}
	fmt.Fprintln(w)
}

func printStateSize(w io.Writer, blockNumber, size uint64) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Block number: %d, State size: %d\n", blockNumber, size)
	fmt.Fprintln(w)
}
