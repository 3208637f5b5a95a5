// Package dashboard turns metric events into fixed width text reports.
//
// Every report is a Printer: a title section and a content section written by
// Print in a fixed order. The Listener drains the metric event channel and
// prints one report per event on a single goroutine.
package dashboard

import (
	"fmt"
	"io"

	"github.com/bnb-chain/perf-dashboard/common/cycles"
	"github.com/bnb-chain/perf-dashboard/metrics"
	"github.com/fatih/color"
)

const (
	colWidthBig    = 20
	colWidthMiddle = 14

	// colWidth is the column width of distribution tables.
	colWidth = 15
)

// Printer is implemented by every report table.
type Printer interface {
	PrintTitle(w io.Writer)
	PrintContent(w io.Writer)
}

// Print writes the title and the content of p framed by blank lines.
func Print(w io.Writer, p Printer) {
	fmt.Fprintln(w)
	p.PrintTitle(w)
	p.PrintContent(w)
	fmt.Fprintln(w)
}

var titleColor = color.New(color.FgCyan, color.Bold)

func init() {
	// Colouring is decided by the writer, not by the terminal detection of
	// the color package.
	titleColor.EnableColor()
}

type colorWriter struct {
	io.Writer
}

// NewColorWriter wraps w so that report titles written to it are coloured.
func NewColorWriter(w io.Writer) io.Writer {
	return colorWriter{w}
}

func printTitleLine(w io.Writer, title string) {
	if _, ok := w.(colorWriter); ok {
		titleColor.Fprintln(w, title)
		return
	}
	fmt.Fprintln(w, title)
}

func cyclesAsSecs(c uint64) float64 {
	return cycles.ConvertCyclesToDuration(c).Seconds()
}

func convertBytesToMega(size uint64) float64 {
	return float64(size) / (1024 * 1024)
}

// DistributionRow is one bucket of a rendered latency distribution. Pct and
// Cumulative are fractions of the total observation count.
type DistributionRow struct {
	UpperNs    uint64
	Count      uint64
	Pct        float64
	Cumulative float64
}

// DeriveDistribution flattens a two resolution histogram into a single list
// of buckets. All fine buckets come first, followed by the coarse buckets
// whose range lies past the fine array. The coarse array total is the
// denominator of every percentage, so an empty histogram yields NaN.
func DeriveDistribution(s *metrics.TimeDistributionStats) []DistributionRow {
	total := float64(s.Total())
	boundary := s.Boundary()

	rows := make([]DistributionRow, 0, len(s.NsPercentile)+len(s.UsPercentile))
	var cumulative float64
	for j, cnt := range s.NsPercentile {
		pct := float64(cnt) / total
		cumulative += pct
		rows = append(rows, DistributionRow{
			UpperNs:    uint64(j+1) * metrics.NsBucketWidth,
			Count:      cnt,
			Pct:        pct,
			Cumulative: cumulative,
		})
	}
	for k := boundary; k < len(s.UsPercentile); k++ {
		cnt := s.UsPercentile[k]
		pct := float64(cnt) / total
		cumulative += pct
		rows = append(rows, DistributionRow{
			UpperNs:    uint64(k+1) * metrics.UsBucketWidth,
			Count:      cnt,
			Pct:        pct,
			Cumulative: cumulative,
		})
	}
	return rows
}

// distribution prints a TimeDistributionStats as a cumulative percentage table
// followed by a summary of the raw buckets. It has no title.
type distribution struct {
	stats *metrics.TimeDistributionStats
}

func (d distribution) PrintTitle(w io.Writer) {}

func (d distribution) PrintContent(w io.Writer) {
	s := d.stats
	fmt.Fprintf(w, "%-*s %*s %*s\n", colWidth, "Time (ns)", colWidth, "Count (%)", colWidth, "Cuml. (%)")
	for _, row := range DeriveDistribution(s) {
		fmt.Fprintf(w, "%-*d %*.3f %*.3f\n", colWidth, row.UpperNs, colWidth, row.Pct*100, colWidth, row.Cumulative*100)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "========>:")
	fmt.Fprintf(w, "Total count: %d\n", s.Total())
	fmt.Fprintf(w, "Span in ns: %d\n", s.SpanInNs)
	fmt.Fprintf(w, "Span in us: %d\n", s.SpanInUs)
	fmt.Fprintf(w, "Percentiles in ns: %v\n", s.NsPercentile)
	fmt.Fprintf(w, "Percentiles in us: %v\n", s.UsPercentile)
	fmt.Fprintln(w)
}
