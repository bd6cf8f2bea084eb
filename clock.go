package littlefs

import "time"

const picosecondsPerDay = int64(24 * 60 * 60 * 1e12)

// Clock supplies the timestamp written into a CTIME attribute: days since
// the Unix epoch, and picoseconds within that day. This is used only in
// CTIME payloads, nowhere else in the format.
type Clock interface {
	Now() (daysSinceEpoch uint32, picosecondsWithinDay uint64)
}

type systemClock struct{}

func (systemClock) Now() (uint32, uint64) { return splitTime(time.Now()) }

// fixedClock always reports the same instant; tests use it for
// deterministic CTIME stamps.
type fixedClock struct{ t time.Time }

func (f fixedClock) Now() (uint32, uint64) { return splitTime(f.t) }

func splitTime(t time.Time) (uint32, uint64) {
	const secondsPerDay = 24 * 60 * 60
	secs := t.Unix()
	days := secs / secondsPerDay
	rem := secs % secondsPerDay
	if rem < 0 {
		rem += secondsPerDay
		days--
	}
	within := rem*1e12 + int64(t.Nanosecond())*1000
	return uint32(days), uint64(within)
}
