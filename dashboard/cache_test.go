package dashboard

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/bnb-chain/perf-dashboard/cachemetrics"
	"github.com/bnb-chain/perf-dashboard/common/cycles"
	"github.com/bnb-chain/perf-dashboard/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useFrequency pins the cycle rate for the duration of a test.
func useFrequency(t *testing.T, hz uint64) {
	t.Helper()
	orig := cycles.Default()
	cycles.SetDefault(cycles.NewConverter(hz))
	t.Cleanup(func() { cycles.SetDefault(orig) })
}

func exampleCacheRecord() *cachemetrics.CacheDbRecord {
	return &cachemetrics.CacheDbRecord{
		Access: cachemetrics.FunctionStats{10, 0, 5, 0},
		Hits:   cachemetrics.FunctionStats{8, 0, 5, 0},
		Misses: cachemetrics.FunctionStats{2, 0, 0, 0},
		Penalty: cachemetrics.PenaltyStats{
			Cycles: cachemetrics.FunctionStats{2_000_000, 0, 0, 0},
		},
	}
}

func TestCacheStatsWorkedExample(t *testing.T) {
	useFrequency(t, 2_000_000_000)
	stats := NewCacheStats(exampleCacheRecord())

	row := stats.Function(cachemetrics.BlockHash)
	assert.Equal(t, uint64(8), row.Hits)
	assert.Equal(t, uint64(2), row.Misses)
	assert.InDelta(t, 0.2, row.MissRatio, 1e-12)
	assert.InDelta(t, 0.001, row.Penalty, 1e-12)
	assert.InDelta(t, 500, row.AvgPenalty, 1e-9)

	row = stats.Function(cachemetrics.CodeByHash)
	assert.True(t, math.IsNaN(row.MissRatio))
	assert.True(t, math.IsNaN(row.AvgPenalty))

	row = stats.Function(cachemetrics.LoadCacheAccount)
	assert.Equal(t, 0.0, row.MissRatio)
	assert.True(t, math.IsNaN(row.AvgPenalty))

	total := stats.Total()
	assert.Equal(t, uint64(13), total.Hits)
	assert.Equal(t, uint64(2), total.Misses)
	assert.InDelta(t, 2.0/15.0, total.MissRatio, 1e-12)
	assert.InDelta(t, 0.001, total.Penalty, 1e-12)
	assert.InDelta(t, 500, total.AvgPenalty, 1e-9)
}

func TestCacheStatsTotalIsSum(t *testing.T) {
	r := cachemetrics.NewCacheDbRecord()
	for i, fn := range cachemetrics.Functions() {
		for j := 0; j <= i; j++ {
			r.RecordHit(fn)
			r.RecordMiss(fn, uint64(1000*(j+1)))
		}
	}
	stats := NewCacheStats(r)

	var hits, misses uint64
	for _, fn := range cachemetrics.Functions() {
		row := stats.Function(fn)
		hits += row.Hits
		misses += row.Misses
		assert.InDelta(t, 0.5, row.MissRatio, 1e-12)
	}
	assert.Equal(t, hits, stats.Total().Hits)
	assert.Equal(t, misses, stats.Total().Misses)
	assert.Equal(t, uint64(10), stats.Total().Misses)
}

func TestCacheStatsInfinitePenalty(t *testing.T) {
	r := &cachemetrics.CacheDbRecord{
		Access:  cachemetrics.FunctionStats{0, 0, 0, 3},
		Hits:    cachemetrics.FunctionStats{0, 0, 0, 3},
		Penalty: cachemetrics.PenaltyStats{Cycles: cachemetrics.FunctionStats{0, 0, 0, 100}},
	}
	row := NewCacheStats(r).Function(cachemetrics.Storage)
	assert.Equal(t, 0.0, row.MissRatio)
	assert.True(t, math.IsInf(row.AvgPenalty, 1))
}

func TestCacheStatsPrint(t *testing.T) {
	useFrequency(t, 2_000_000_000)
	var buf bytes.Buffer
	Print(&buf, NewCacheStats(exampleCacheRecord()))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "", lines[0])
	assert.Contains(t, lines[1], " Metric of State ")
	assert.Equal(t,
		"State functions               Hits        Misses      Miss ratio (%)    Penalty time (s)    Avg penalty (μs)",
		lines[2])
	assert.Equal(t,
		"blockhash                        8             2              20.000               0.001             500.000",
		lines[3])
	assert.Equal(t,
		"code_by_hash                     0             0                 NaN               0.000                 NaN",
		lines[4])
	assert.True(t, strings.HasPrefix(lines[7], "total               "))
	assert.Contains(t, lines[7], "13.333")
	assert.Equal(t, "", lines[8])
	assert.Equal(t, "", lines[9])
}

func TestCacheReport(t *testing.T) {
	useFrequency(t, 2_000_000_000)
	r := exampleCacheRecord()
	r.Penalty.Percentile = metrics.NewTimeDistributionStats(10, 5)
	r.Penalty.Percentile.Record(150)
	r.Penalty.Percentile.Record(3500)

	var buf bytes.Buffer
	report := &cacheReport{blockNumber: 42, size: 1024, record: r}
	report.print(&buf)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\nBlock number: 42, State size: 1024\n\n\n"))
	metricIdx := strings.Index(out, "Metric of State")
	penaltyIdx := strings.Index(out, "================Penalty Percentile=============")
	require.True(t, metricIdx > 0)
	assert.Greater(t, penaltyIdx, metricIdx)
	assert.Contains(t, out, "Total count: 2\n")
	assert.True(t, strings.HasSuffix(out, "Percentiles in us: [1 0 0 1 0]\n\n\n"))
}
