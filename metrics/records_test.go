package metrics

import (
	"testing"

	"github.com/bnb-chain/perf-dashboard/common/cycles"
	"github.com/stretchr/testify/assert"
)

func TestOpCodeString(t *testing.T) {
	assert.Equal(t, "STOP", OpCode(0x00).String())
	assert.Equal(t, "SLOAD", OpCode(0x54).String())
	assert.Equal(t, "PUSH1", OpCode(0x60).String())
	assert.Equal(t, "PUSH32", OpCode(0x7f).String())
	assert.Equal(t, "DUP16", OpCode(0x8f).String())
	assert.Equal(t, "SWAP1", OpCode(0x90).String())
	assert.Equal(t, "LOG4", OpCode(0xa4).String())
	assert.Equal(t, "PUSH2_JUMPI", OpCode(0xd6).String())
	assert.Equal(t, "opcode 0xc not defined", OpCode(0x0c).String())
	assert.False(t, OpCode(0x0c).Defined())
	assert.True(t, OpCode(0xff).Defined())
}

func TestOpcodeRecord(t *testing.T) {
	orig := cycles.Default()
	defer cycles.SetDefault(orig)
	cycles.SetDefault(cycles.NewConverter(1_000_000_000))

	r := NewOpcodeRecord()
	r.Record(0x01, 150)
	r.Record(0x01, 250)
	r.Record(0x54, 5000)

	assert.Equal(t, uint64(2), r.Count[0x01])
	assert.Equal(t, uint64(400), r.Cycles[0x01])
	assert.Equal(t, uint64(3), r.TotalCount)
	assert.Equal(t, uint64(5400), r.TotalCycles)
	assert.Equal(t, uint64(3), r.Distribution.Total())
	assert.Equal(t, uint64(1), r.Distribution.NsPercentile[1])
	assert.Equal(t, uint64(1), r.Distribution.NsPercentile[2])

	cpy := r.Copy()
	cpy.Record(0x01, 1)
	assert.Equal(t, uint64(3), r.TotalCount)
	assert.Equal(t, uint64(3), r.Distribution.Total())
}

func TestExecutionDurationMisc(t *testing.T) {
	var r ExecutionDurationRecord
	r.Add(StageTotal, 1000)
	r.Add(StageFetchBlocks, 100)
	r.Add(StageExecute, 600)
	r.Add(StageVerifyAndWrite, 200)
	assert.Equal(t, uint64(100), r.Misc())

	r.Add(StageExecute, 500)
	assert.Equal(t, uint64(0), r.Misc())

	assert.Equal(t, "verify_and_write", StageVerifyAndWrite.String())
	assert.Equal(t, "unknown", StageCount.String())
}
