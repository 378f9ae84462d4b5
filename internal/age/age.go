// Package age converts age windows into date-of-birth ranges.
// It is plain calendar arithmetic on UTC instants.
package age

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWindow is returned when a window cannot produce a range.
var ErrInvalidWindow = errors.New("invalid age window")

// MaxYears is the oldest age a window may reach.
const MaxYears = 150

// Adult is the window for anyone 18 or older, capped at 100.
var Adult = Window{Min: 18, Max: 100}

// Window is an inclusive range of ages in completed years.
type Window struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Validate reports whether the window is usable.
func (w Window) Validate() error {
	if w.Min < 0 || w.Max < 0 {
		return fmt.Errorf("%w: negative age %d..%d", ErrInvalidWindow, w.Min, w.Max)
	}
	if w.Max > MaxYears {
		return fmt.Errorf("%w: max %d above %d", ErrInvalidWindow, w.Max, MaxYears)
	}
	if w.Min > w.Max {
		return fmt.Errorf("%w: min %d > max %d", ErrInvalidWindow, w.Min, w.Max)
	}
	return nil
}

// Range returns the half-open [start, end) instant range of birth dates
// whose holders are between Min and Max years old at now.
func (w Window) Range(now time.Time) (start, end time.Time, err error) {
	if err := w.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}

	// birth dates are sampled on whole milliseconds
	now = now.UTC().Truncate(time.Millisecond)
	// born exactly Max+1 years ago is already too old
	start = now.AddDate(-(w.Max + 1), 0, 0).Add(time.Millisecond)
	// born exactly Min years ago is just old enough
	end = now.AddDate(-w.Min, 0, 0).Add(time.Millisecond)
	return start, end, nil
}

func (w Window) String() string {
	return fmt.Sprintf("%d-%d", w.Min, w.Max)
}

// Years returns the number of completed years between dob and now.
// It returns 0 when dob is after now.
func Years(dob, now time.Time) int {
	dob = dob.UTC()
	now = now.UTC()
	if now.Before(dob) {
		return 0
	}

	years := now.Year() - dob.Year()
	// birthday not reached yet this year
	if anniversary := dob.AddDate(years, 0, 0); now.Before(anniversary) {
		years--
	}
	return years
}
