// Package metrics holds the counter snapshots that the execution engine hands to
// the dashboard with every metric event.
package metrics

import "github.com/pkg/errors"

const (
	// NsBucketWidth is the width in nanoseconds of a fine bucket.
	NsBucketWidth = 100
	// UsBucketWidth is the width in nanoseconds of a coarse bucket.
	UsBucketWidth = 1000

	DefaultSpanInNs = 100
	DefaultSpanInUs = 200
)

// TimeDistributionStats is a latency histogram kept at two resolutions.
//
// NsPercentile counts observations below SpanInNs*NsBucketWidth ns in
// NsBucketWidth wide buckets. UsPercentile counts every observation in
// UsBucketWidth wide buckets, the last bucket absorbing everything beyond
// the span. The coarse array therefore always holds the total count.
type TimeDistributionStats struct {
	SpanInNs     int      `json:"span_in_ns"`
	SpanInUs     int      `json:"span_in_us"`
	NsPercentile []uint64 `json:"ns_percentile"`
	UsPercentile []uint64 `json:"us_percentile"`
}

// NewTimeDistributionStats allocates both bucket arrays.
func NewTimeDistributionStats(spanInNs, spanInUs int) *TimeDistributionStats {
	return &TimeDistributionStats{
		SpanInNs:     spanInNs,
		SpanInUs:     spanInUs,
		NsPercentile: make([]uint64, spanInNs),
		UsPercentile: make([]uint64, spanInUs),
	}
}

// Record adds one observation of ns nanoseconds.
func (s *TimeDistributionStats) Record(ns uint64) {
	if idx := ns / NsBucketWidth; idx < uint64(len(s.NsPercentile)) {
		s.NsPercentile[idx]++
	}
	if len(s.UsPercentile) == 0 {
		return
	}
	idx := ns / UsBucketWidth
	if last := uint64(len(s.UsPercentile) - 1); idx > last {
		idx = last
	}
	s.UsPercentile[idx]++
}

// Total is the number of observations, taken from the coarse array.
func (s *TimeDistributionStats) Total() uint64 {
	var total uint64
	for _, v := range s.UsPercentile {
		total += v
	}
	return total
}

// Boundary is the first coarse bucket whose range is not already covered by
// the fine array.
func (s *TimeDistributionStats) Boundary() int {
	return len(s.NsPercentile) * NsBucketWidth / UsBucketWidth
}

// Copy returns a deep copy.
func (s *TimeDistributionStats) Copy() *TimeDistributionStats {
	if s == nil {
		return nil
	}
	cpy := &TimeDistributionStats{
		SpanInNs:     s.SpanInNs,
		SpanInUs:     s.SpanInUs,
		NsPercentile: make([]uint64, len(s.NsPercentile)),
		UsPercentile: make([]uint64, len(s.UsPercentile)),
	}
	copy(cpy.NsPercentile, s.NsPercentile)
	copy(cpy.UsPercentile, s.UsPercentile)
	return cpy
}

// Validate checks that the spans match the bucket arrays.
func (s *TimeDistributionStats) Validate() error {
	if s.SpanInNs != len(s.NsPercentile) {
		return errors.Errorf("span_in_ns %d does not match %d fine buckets", s.SpanInNs, len(s.NsPercentile))
	}
	if s.SpanInUs != len(s.UsPercentile) {
		return errors.Errorf("span_in_us %d does not match %d coarse buckets", s.SpanInUs, len(s.UsPercentile))
	}
	return nil
}
