package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeDistributionRecord(t *testing.T) {
	s := NewTimeDistributionStats(10, 5)

	s.Record(0)      // fine 0, coarse 0
	s.Record(99)     // fine 0, coarse 0
	s.Record(100)    // fine 1, coarse 0
	s.Record(999)    // fine 9, coarse 0
	s.Record(1000)   // beyond fine, coarse 1
	s.Record(4999)   // coarse 4
	s.Record(100000) // clamped into the last coarse bucket

	assert.Equal(t, []uint64{2, 1, 0, 0, 0, 0, 0, 0, 0, 1}, s.NsPercentile)
	assert.Equal(t, []uint64{4, 1, 0, 0, 2}, s.UsPercentile)
	assert.Equal(t, uint64(7), s.Total())
}

func TestTimeDistributionBoundary(t *testing.T) {
	for _, tt := range []struct {
		spanInNs int
		want     int
	}{
		{0, 0},
		{1, 0},
		{9, 0},
		{10, 1},
		{15, 1},
		{100, 10},
		{105, 10},
	} {
		s := NewTimeDistributionStats(tt.spanInNs, 200)
		assert.Equal(t, tt.want, s.Boundary(), "span %d", tt.spanInNs)
		assert.Equal(t, tt.spanInNs*NsBucketWidth/UsBucketWidth, s.Boundary())
	}
}

func TestTimeDistributionCopy(t *testing.T) {
	a := NewTimeDistributionStats(10, 5)
	a.Record(150)
	a.Record(3000)

	cpy := a.Copy()
	cpy.Record(0)
	assert.Equal(t, uint64(2), a.Total())
	assert.Equal(t, uint64(3), cpy.Total())
	assert.Equal(t, uint64(1), a.NsPercentile[1])
	assert.Zero(t, a.NsPercentile[0])

	assert.Nil(t, (*TimeDistributionStats)(nil).Copy())
}

func TestTimeDistributionValidate(t *testing.T) {
	s := NewTimeDistributionStats(3, 4)
	assert.NoError(t, s.Validate())
	s.SpanInNs = 4
	assert.Error(t, s.Validate())
	s.SpanInNs = 3
	s.UsPercentile = s.UsPercentile[:2]
	assert.Error(t, s.Validate())
}

func TestTimeDistributionEmptyCoarse(t *testing.T) {
	s := NewTimeDistributionStats(2, 0)
	s.Record(10)
	assert.Equal(t, uint64(0), s.Total())
	assert.Equal(t, uint64(1), s.NsPercentile[0])
}
