// Package cycles converts CPU cycle counts recorded by the execution engine into
// wall-clock units.
package cycles

import (
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/cpu"
)

// DefaultFrequencyHz is used when the CPU frequency cannot be detected.
const DefaultFrequencyHz uint64 = 2_000_000_000

// Converter turns cycle counts into durations for a fixed cycle rate.
type Converter struct {
	Hz uint64
}

// NewConverter returns a converter for the given rate, falling back to
// DefaultFrequencyHz when hz is zero.
func NewConverter(hz uint64) Converter {
	if hz == 0 {
		hz = DefaultFrequencyHz
	}
	return Converter{Hz: hz}
}

// ToNanos returns the number of nanoseconds spent in the given cycles.
func (c Converter) ToNanos(cycles uint64) float64 {
	return float64(cycles) * 1e9 / float64(c.Hz)
}

// ToDuration returns the cycles as a time.Duration, truncated to whole nanoseconds.
func (c Converter) ToDuration(cycles uint64) time.Duration {
	return time.Duration(c.ToNanos(cycles))
}

// FromDuration is the inverse of ToDuration and is used by producers that measure
// with the wall clock instead of the cycle counter.
func (c Converter) FromDuration(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(float64(d.Nanoseconds()) * float64(c.Hz) / 1e9)
}

// DetectFrequency reports the highest advertised CPU frequency in Hz.
func DetectFrequency() (uint64, error) {
	infos, err := cpu.Info()
	if err != nil {
		return 0, err
	}
	var mhz float64
	for _, info := range infos {
		if info.Mhz > mhz {
			mhz = info.Mhz
		}
	}
	return uint64(mhz * 1e6), nil
}

var defaultConverter atomic.Value

func init() {
	defaultConverter.Store(NewConverter(DefaultFrequencyHz))
}

// SetDefault replaces the converter used by the package level helpers.
func SetDefault(c Converter) {
	if c.Hz == 0 {
		c.Hz = DefaultFrequencyHz
	}
	defaultConverter.Store(c)
}

// Default returns the current package level converter.
func Default() Converter {
	return defaultConverter.Load().(Converter)
}

// ConvertCyclesToDuration converts with the default converter.
func ConvertCyclesToDuration(cycles uint64) time.Duration {
	return Default().ToDuration(cycles)
}

// ConvertCyclesToNsF64 converts with the default converter.
func ConvertCyclesToNsF64(cycles uint64) float64 {
	return Default().ToNanos(cycles)
}
