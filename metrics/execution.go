package metrics

// ExecutionStage names one timed section of block processing.
type ExecutionStage int

const (
	StageTotal ExecutionStage = iota
	StageFetchBlocks
	StageExecute
	StageVerifyAndWrite
	StageCount
)

func (s ExecutionStage) String() string {
	switch s {
	case StageTotal:
		return "total"
	case StageFetchBlocks:
		return "fetch_blocks"
	case StageExecute:
		return "execute"
	case StageVerifyAndWrite:
		return "verify_and_write"
	}
	return "unknown"
}

// ExecutionDurationRecord holds the cycles spent in each execution stage and the
// size of the state cache at the end of the block.
type ExecutionDurationRecord struct {
	Stages    [StageCount]uint64 `json:"stages"`
	CacheSize uint64             `json:"cache_size"`
}

// Add accumulates cycles into a stage.
func (r *ExecutionDurationRecord) Add(stage ExecutionStage, cycles uint64) {
	r.Stages[stage] += cycles
}

// Misc is the part of the total not attributed to a named stage. It saturates
// at zero when the named stages overlap.
func (r *ExecutionDurationRecord) Misc() uint64 {
	var named uint64
	for stage := StageFetchBlocks; stage < StageCount; stage++ {
		named += r.Stages[stage]
	}
	if named >= r.Stages[StageTotal] {
		return 0
	}
	return r.Stages[StageTotal] - named
}
