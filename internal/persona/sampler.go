package persona

import (
	"fmt"
	"math"
	"time"
)

// Instants SampleTimestamp can return. Outside these, unix milliseconds
// do not fit an int64.
var (
	MinTimestamp = time.UnixMilli(math.MinInt64).UTC()
	MaxTimestamp = time.UnixMilli(math.MaxInt64).UTC()
)

// SampleName returns a uniformly chosen entry of pool.
func SampleName(src Source, pool []string) (string, error) {
	if len(pool) == 0 {
		return "", ErrEmptyPool
	}
	return pick(src, pool), nil
}

// SampleTimestamp returns a uniform instant in [start, end) on whole
// milliseconds, in UTC. Instants are rounded up to the next millisecond so
// the result never precedes start. A range holding no whole millisecond
// yields start. Both ends must lie within [MinTimestamp, MaxTimestamp].
func SampleTimestamp(src Source, start, end time.Time) (time.Time, error) {
	if err := checkRange(start, end); err != nil {
		return time.Time{}, err
	}

	lo := ceilMilli(start)
	hi := ceilMilli(end)
	if hi <= lo {
		return start.UTC(), nil
	}

	// the span of two int64s always fits a uint64
	span := uint64(hi) - uint64(lo)
	return time.UnixMilli(int64(uint64(lo) + uniform(src, span))).UTC(), nil
}

func checkRange(start, end time.Time) error {
	if !start.Before(end) {
		return fmt.Errorf("%w: start %s is not before end %s",
			ErrInvalidRange, start.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano))
	}
	if start.Before(MinTimestamp) || end.After(MaxTimestamp) {
		return fmt.Errorf("%w: %s..%s exceeds %s..%s", ErrInvalidRange,
			start.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano),
			MinTimestamp.Format(time.RFC3339), MaxTimestamp.Format(time.RFC3339))
	}
	return nil
}

// ceilMilli returns t in unix milliseconds, rounded up.
// t must not exceed MaxTimestamp.
func ceilMilli(t time.Time) int64 {
	ms := t.UnixMilli()
	if t.Nanosecond()%int(time.Millisecond) != 0 {
		ms++
	}
	return ms
}

// uniform returns a uniform value in [0, n) for n > 0.
func uniform(src Source, n uint64) uint64 {
	if n <= math.MaxInt64 {
		return uint64(src.Int64N(int64(n)))
	}

	// n > 2^63, so each draw is accepted more than half the time
	for {
		v := uint64(src.Int64N(1<<32))<<32 | uint64(src.Int64N(1<<32))
		if v < n {
			return v
		}
	}
}
