package main

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/bnb-chain/perf-dashboard/perf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayEvents(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"block_tps_and_gas","block_number":1,"record":{"txs":1,"gas":21000}}`,
		`{"type":"block_tps_and_gas","block_number":2`,
		`{"type":"execution_stage_time","block_number":3,"record":{"stages":[4,1,2,1],"cache_size":0}}`,
	}, "\n")
	tx, rx := perf.NewEventChannel()
	stats := newEventStats()

	require.NoError(t, replayEvents("test", strings.NewReader(input), tx, stats))
	tx.Close()

	var blocks []uint64
	for {
		ev, ok := rx.Recv()
		if !ok {
			break
		}
		blocks = append(blocks, ev.Block())
	}
	assert.Equal(t, []uint64{1, 3}, blocks)
	assert.Equal(t, uint64(1), stats.malformed)
	assert.Equal(t, uint64(1), stats.events[perf.FamilyTpsGas])
	assert.Equal(t, uint64(1), stats.events[perf.FamilyExecution])
}

func TestEventStatsRender(t *testing.T) {
	stats := newEventStats()
	stats.add(perf.FamilyCache)
	stats.add(perf.FamilyCache)
	stats.addMalformed()

	var buf bytes.Buffer
	stats.render(&buf, perf.NewFamilies(perf.FamilyCache))
	out := buf.String()
	assert.Contains(t, out, "cache")
	assert.Contains(t, out, "tps_gas")
	assert.Contains(t, out, "malformed")
	assert.Contains(t, out, "true")
	assert.Contains(t, out, "false")
}

func TestReplayPoolSize(t *testing.T) {
	assert.Equal(t, 1, replayPoolSize(16, 1))
	assert.Equal(t, 1, replayPoolSize(1, 1000))
	want := runtime.NumCPU()
	if want > 16 {
		want = 16
	}
	assert.Equal(t, want, replayPoolSize(16, 5*runtime.NumCPU()))
}
