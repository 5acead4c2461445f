package domain

import "time"

// Birth details supplied by the caller. BornAt is the UTC instant of birth;
// TZOffset preserves the caller-supplied offset (hours east of UTC, may be
// fractional) for echoing back in the chart.
type BirthDetails struct {
	Name     string
	BornAt   time.Time
	TZOffset float64
	Place    string
}
