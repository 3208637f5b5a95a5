package perf

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/bnb-chain/perf-dashboard/cachemetrics"
	"github.com/bnb-chain/perf-dashboard/metrics"
	"github.com/pkg/errors"
)

// Event type tags used in the JSON lines encoding.
const (
	TypeExecutionStageTime = "execution_stage_time"
	TypeBlockTpsAndGas     = "block_tps_and_gas"
	TypeOpcodeInfo         = "opcode_info"
	TypeCacheDbInfo        = "cache_db_info"
)

// ErrUnknownEventType is returned when decoding an event with an unknown tag.
var ErrUnknownEventType = errors.New("unknown metric event type")

const maxLineSize = 8 * 1024 * 1024

type envelope struct {
	Type        string          `json:"type"`
	BlockNumber uint64          `json:"block_number"`
	Size        uint64          `json:"size,omitempty"`
	Record      json.RawMessage `json:"record"`
}

// encoder fills an envelope through the EventHandler visitor so a new event
// variant cannot be left without an encoding.
type encoder struct {
	env envelope
	err error
}

func (e *encoder) record(v interface{}) {
	e.env.Record, e.err = json.Marshal(v)
}

func (e *encoder) HandleExecutionStageTime(ev *ExecutionStageTime) {
	e.env = envelope{Type: TypeExecutionStageTime, BlockNumber: ev.BlockNumber}
	e.record(ev.Record)
}

func (e *encoder) HandleBlockTpsAndGas(ev *BlockTpsAndGas) {
	e.env = envelope{Type: TypeBlockTpsAndGas, BlockNumber: ev.BlockNumber}
	e.record(ev.Record)
}

func (e *encoder) HandleOpcodeInfo(ev *OpcodeInfo) {
	e.env = envelope{Type: TypeOpcodeInfo, BlockNumber: ev.BlockNumber}
	e.record(ev.Record)
}

func (e *encoder) HandleCacheDbInfo(ev *CacheDbInfo) {
	e.env = envelope{Type: TypeCacheDbInfo, BlockNumber: ev.BlockNumber, Size: ev.Size}
	e.record(ev.Record)
}

// EncodeEvent renders ev as a single JSON object without a trailing newline.
func EncodeEvent(ev MetricEvent) ([]byte, error) {
	var enc encoder
	ev.Accept(&enc)
	if enc.err != nil {
		return nil, errors.Wrapf(enc.err, "encode %s event", ev.Family())
	}
	return json.Marshal(&enc.env)
}

// DecodeEvent parses one JSON encoded event.
func DecodeEvent(data []byte) (MetricEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "decode event envelope")
	}
	if len(env.Record) == 0 || string(env.Record) == "null" {
		return nil, errors.Errorf("%s event for block %d has no record", env.Type, env.BlockNumber)
	}
	switch env.Type {
	case TypeExecutionStageTime:
		record := new(metrics.ExecutionDurationRecord)
		if err := json.Unmarshal(env.Record, record); err != nil {
			return nil, errors.Wrap(err, "decode execution record")
		}
		return &ExecutionStageTime{BlockNumber: env.BlockNumber, Record: record}, nil

	case TypeBlockTpsAndGas:
		var record metrics.TpsGasRecord
		if err := json.Unmarshal(env.Record, &record); err != nil {
			return nil, errors.Wrap(err, "decode tps record")
		}
		return &BlockTpsAndGas{BlockNumber: env.BlockNumber, Record: record}, nil

	case TypeOpcodeInfo:
		record := new(metrics.OpcodeRecord)
		if err := json.Unmarshal(env.Record, record); err != nil {
			return nil, errors.Wrap(err, "decode opcode record")
		}
		if err := validateDistribution(record.Distribution); err != nil {
			return nil, errors.Wrap(err, "opcode time distribution")
		}
		return &OpcodeInfo{BlockNumber: env.BlockNumber, Record: record}, nil

	case TypeCacheDbInfo:
		record := new(cachemetrics.CacheDbRecord)
		if err := json.Unmarshal(env.Record, record); err != nil {
			return nil, errors.Wrap(err, "decode cache record")
		}
		if err := validateDistribution(record.Penalty.Percentile); err != nil {
			return nil, errors.Wrap(err, "cache penalty percentile")
		}
		return &CacheDbInfo{BlockNumber: env.BlockNumber, Size: env.Size, Record: record}, nil
	}
	return nil, errors.Wrapf(ErrUnknownEventType, "%q", env.Type)
}

func validateDistribution(s *metrics.TimeDistributionStats) error {
	if s == nil {
		return nil
	}
	return s.Validate()
}

// EventReader decodes a stream of newline separated events.
type EventReader struct {
	scanner *bufio.Scanner
	line    int
	done    bool
}

// NewEventReader reads events from r.
func NewEventReader(r io.Reader) *EventReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &EventReader{scanner: scanner}
}

// Next returns the next event. It returns io.EOF at the end of the stream.
// Blank lines are skipped. A malformed line yields an error, after which
// reading may continue with the following line. A read error is reported
// once and then treated as the end of the stream.
func (r *EventReader) Next() (MetricEvent, error) {
	if r.done {
		return nil, io.EOF
	}
	for r.scanner.Scan() {
		r.line++
		data := r.scanner.Bytes()
		if len(bytes.TrimSpace(data)) == 0 {
			continue
		}
		ev, err := DecodeEvent(data)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", r.line)
		}
		return ev, nil
	}
	r.done = true
	if err := r.scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "line %d", r.line+1)
	}
	return nil, io.EOF
}

// Line is the number of the line last read.
func (r *EventReader) Line() int {
	return r.line
}

// EventWriter writes events as JSON lines.
type EventWriter struct {
	w io.Writer
}

// NewEventWriter writes events to w.
func NewEventWriter(w io.Writer) *EventWriter {
	return &EventWriter{w: w}
}

// Write encodes ev followed by a newline.
func (w *EventWriter) Write(ev MetricEvent) error {
	data, err := EncodeEvent(ev)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.w.Write(data)
	return err
}
