package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/bnb-chain/perf-dashboard/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrinter struct{}

func (stubPrinter) PrintTitle(w io.Writer)   { fmt.Fprintln(w, "title") }
func (stubPrinter) PrintContent(w io.Writer) { fmt.Fprintln(w, "content") }

func TestPrintComposition(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, stubPrinter{})
	assert.Equal(t, "\ntitle\ncontent\n\n", buf.String())
}

func TestDistributionBoundary(t *testing.T) {
	for _, tt := range []struct {
		spanInNs, boundary int
	}{
		{100, 10},
		{10, 1},
		{15, 1},
		{9, 0},
		{0, 0},
	} {
		s := metrics.NewTimeDistributionStats(tt.spanInNs, 20)
		assert.Equal(t, tt.boundary, s.Boundary(), "span %d", tt.spanInNs)
		assert.Equal(t, tt.spanInNs*metrics.NsBucketWidth/metrics.UsBucketWidth, s.Boundary())

		rows := DeriveDistribution(s)
		require.Len(t, rows, tt.spanInNs+20-tt.boundary)
		if tt.spanInNs > 0 {
			assert.Equal(t, uint64(tt.spanInNs*metrics.NsBucketWidth), rows[tt.spanInNs-1].UpperNs)
		}
		assert.Equal(t, uint64((tt.boundary+1)*metrics.UsBucketWidth), rows[tt.spanInNs].UpperNs)
	}
}

func TestDeriveDistributionCumulative(t *testing.T) {
	s := metrics.NewTimeDistributionStats(metrics.DefaultSpanInNs, metrics.DefaultSpanInUs)
	for _, ns := range []uint64{0, 50, 99, 100, 950, 999, 1000, 1500, 9999, 10_000, 12_345, 150_000, 500_000, 1_000_000} {
		s.Record(ns)
	}
	rows := DeriveDistribution(s)
	require.Len(t, rows, 100+200-10)

	last := rows[len(rows)-1]
	assert.InDelta(t, 1.0, last.Cumulative, 1e-9)

	var prev float64
	for _, row := range rows {
		assert.GreaterOrEqual(t, row.Cumulative, prev)
		prev = row.Cumulative
	}
	assert.Equal(t, uint64(3), rows[0].Count)
	assert.InDelta(t, 3.0/14.0, rows[0].Pct, 1e-12)
	// 10000ns falls into coarse bucket 10, the first one past the fine range.
	assert.Equal(t, uint64(11_000), rows[100].UpperNs)
	assert.Equal(t, uint64(1), rows[100].Count)
	// Values past the span land in the last coarse bucket.
	assert.Equal(t, uint64(2), last.Count)
}

func TestDeriveDistributionEmpty(t *testing.T) {
	rows := DeriveDistribution(metrics.NewTimeDistributionStats(2, 3))
	require.Len(t, rows, 5)
	for _, row := range rows {
		assert.True(t, math.IsNaN(row.Pct))
		assert.True(t, math.IsNaN(row.Cumulative))
	}
}

func TestDistributionPrint(t *testing.T) {
	s := metrics.NewTimeDistributionStats(20, 4)
	s.Record(150)
	s.Record(1900)
	s.Record(2500)
	s.Record(3100)

	var buf bytes.Buffer
	Print(&buf, distribution{s})

	want := strings.Join([]string{
		"",
		"Time (ns)             Count (%)       Cuml. (%)",
	}, "\n")
	out := buf.String()
	require.True(t, strings.HasPrefix(out, want), out)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "100                       0.000           0.000", lines[2])
	assert.Equal(t, "200                      25.000          25.000", lines[3])
	assert.Equal(t, "2000                     25.000          50.000", lines[21])
	assert.Equal(t, "3000                     25.000          75.000", lines[22])
	assert.Equal(t, "4000                     25.000         100.000", lines[23])
	assert.Equal(t, []string{
		"",
		"========>:",
		"Total count: 4",
		"Span in ns: 20",
		"Span in us: 4",
		"Percentiles in ns: [0 1 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 1]",
		"Percentiles in us: [1 1 1 1]",
		"",
		"",
		"",
	}, lines[24:])
}

func TestColorWriter(t *testing.T) {
	var plain, colored bytes.Buffer
	printTitleLine(&plain, "== title ==")
	printTitleLine(NewColorWriter(&colored), "== title ==")

	assert.Equal(t, "== title ==\n", plain.String())
	assert.Contains(t, colored.String(), "\x1b[")
	assert.Contains(t, colored.String(), "== title ==")
}
