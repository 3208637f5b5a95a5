package dashboard

import (
	"fmt"
	"io"

	"github.com/bnb-chain/perf-dashboard/metrics"
)

// StageStat is the derived row of one execution stage.
type StageStat struct {
	Name string
	Time float64 // seconds
	Pct  float64 // fraction of the total
}

// ExecutionStats is the stage breakdown of a block. Misc covers the part of
// the total not attributed to a named stage.
type ExecutionStats struct {
	Stages      []StageStat
	CacheSizeMB float64
}

// NewExecutionStats derives the stage table. Percentages are relative to the
// total stage, so a zero total yields NaN.
func NewExecutionStats(record *metrics.ExecutionDurationRecord) *ExecutionStats {
	total := record.Stages[metrics.StageTotal]
	stat := func(name string, c uint64) StageStat {
		return StageStat{
			Name: name,
			Time: cyclesAsSecs(c),
			Pct:  float64(c) / float64(total),
		}
	}
	stats := &ExecutionStats{CacheSizeMB: convertBytesToMega(record.CacheSize)}
	for stage := metrics.StageTotal; stage < metrics.StageCount; stage++ {
		stats.Stages = append(stats.Stages, stat(stage.String(), record.Stages[stage]))
	}
	stats.Stages = append(stats.Stages, stat("misc", record.Misc()))
	return stats
}

func (s *ExecutionStats) PrintTitle(w io.Writer) {
	printTitleLine(w, "===================== Time of execution stages =====================")
	fmt.Fprintf(w, "%-*s%*s%*s\n",
		colWidthBig, "Stage",
		colWidthBig, "Time (s)",
		colWidthBig, "Time (%)",
	)
}

func (s *ExecutionStats) PrintContent(w io.Writer) {
	for _, stage := range s.Stages {
		fmt.Fprintf(w, "%-*s%*.3f%*.3f\n",
			colWidthBig, stage.Name,
			colWidthBig, stage.Time,
			colWidthBig, stage.Pct*100,
		)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-*s%*.3f\n", colWidthBig, "State cache (MB)", colWidthBig, s.CacheSizeMB)
}
