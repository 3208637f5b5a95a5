package dashboard

import (
	"fmt"
	"io"

	"github.com/bnb-chain/perf-dashboard/common/cycles"
	"github.com/bnb-chain/perf-dashboard/metrics"
)

// OpcodeStat is the derived row of one instruction.
type OpcodeStat struct {
	Name     string
	Count    uint64
	CountPct float64 // fraction of all executed instructions
	Time     float64 // seconds
	TimePct  float64 // fraction of all instruction cycles
	AvgTime  float64 // nanoseconds per execution
}

// OpcodeStats lists the instructions executed in a block, in opcode order,
// and their total.
type OpcodeStats struct {
	Opcodes []OpcodeStat
	Total   OpcodeStat
}

// NewOpcodeStats derives the instruction table. Opcodes that never ran are
// skipped.
func NewOpcodeStats(record *metrics.OpcodeRecord) *OpcodeStats {
	stats := new(OpcodeStats)
	for i := 0; i < metrics.OpcodeNumber; i++ {
		if record.Count[i] == 0 {
			continue
		}
		stats.Opcodes = append(stats.Opcodes, newOpcodeStat(
			metrics.OpCode(i).String(), record.Count[i], record.Cycles[i], record))
	}
	stats.Total = newOpcodeStat("total", record.TotalCount, record.TotalCycles, record)
	return stats
}

func newOpcodeStat(name string, count, cycleCount uint64, record *metrics.OpcodeRecord) OpcodeStat {
	return OpcodeStat{
		Name:     name,
		Count:    count,
		CountPct: float64(count) / float64(record.TotalCount),
		Time:     cyclesAsSecs(cycleCount),
		TimePct:  float64(cycleCount) / float64(record.TotalCycles),
		AvgTime:  cycles.ConvertCyclesToNsF64(cycleCount) / float64(count),
	}
}

func (s *OpcodeStats) PrintTitle(w io.Writer) {
	printTitleLine(w, "=================================== Metric of instruction ====================================")
	fmt.Fprintf(w, "%-*s%*s%*s%*s%*s%*s\n",
		colWidthBig, "Opcode",
		colWidthMiddle, "Count",
		colWidthMiddle, "Count (%)",
		colWidthMiddle, "Time (s)",
		colWidthMiddle, "Time (%)",
		colWidthBig, "Avg time (ns)",
	)
}

func (s *OpcodeStats) PrintContent(w io.Writer) {
	for _, op := range s.Opcodes {
		printOpcodeItem(w, op)
	}
	printOpcodeItem(w, s.Total)
}

func printOpcodeItem(w io.Writer, stat OpcodeStat) {
	fmt.Fprintf(w, "%-*s%*d%*.3f%*.3f%*.3f%*.3f\n",
		colWidthBig, stat.Name,
		colWidthMiddle, stat.Count,
		colWidthMiddle, stat.CountPct*100,
		colWidthMiddle, stat.Time,
		colWidthMiddle, stat.TimePct*100,
		colWidthBig, stat.AvgTime,
	)
}

func printOpcodeReport(w io.Writer, record *metrics.OpcodeRecord) {
	Print(w, NewOpcodeStats(record))
	if record.Distribution == nil {
		return
	}
	fmt.Fprintln(w)
	printTitleLine(w, "================Opcode Time Percentile=============")
	distribution{record.Distribution}.PrintContent(w)
	fmt.Fprintln(w)
}
