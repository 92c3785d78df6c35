package chrono

import "time"

var eastern *time.Location

func init() {
	var err error
	eastern, err = time.LoadLocation("America/New_York")
	if err != nil {
		// tzdata may be missing in minimal containers, congress transitions
		// are only resolved to the day so UTC is close enough.
		eastern = time.UTC
	}
}

// Eastern returns the [*time.Location] congress convenes in.
func Eastern() *time.Location {
	return eastern
}

// TimeAPI is the interface that anything depending on the system clock should use.
//
// note: fault injection point
type TimeAPI interface {
	// Now returns the current time in America/New_York.
	Now() time.Time
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct{}

// NewStandardTime is the constructor of StandardTime.
func NewStandardTime() StandardTime {
	return StandardTime{}
}

func (StandardTime) Now() time.Time {
	return time.Now().In(eastern)
}

// FixedTime is a TimeAPI that always reports the same instant.
type FixedTime struct {
	t time.Time
}

func NewFixedTime(year int, month time.Month, day int) FixedTime {
	return FixedTime{t: time.Date(year, month, day, 12, 0, 0, 0, eastern)}
}

func (f FixedTime) Now() time.Time {
	return f.t
}
