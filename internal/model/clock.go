package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidClock = errors.New("model: invalid clock time")

// Clock is a time of day with minute precision, such as an advisory
// start time. It carries no date and no location.
type Clock struct {
	Hour   int
	Minute int
}

func NewClock(hour, minute int) (Clock, error) {
	c := Clock{Hour: hour, Minute: minute}
	if !c.valid() {
		return Clock{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidClock, hour, minute)
	}
	return c, nil
}

// ParseClock parses an "HH:MM" string, the wire form used by the
// persisted document and the add form.
func ParseClock(s string) (Clock, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return NewClock(h, m)
}

// ClockOf extracts the time of day from t.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

func (c Clock) valid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// MinuteOfDay returns minutes since midnight, used for ordering.
func (c Clock) MinuteOfDay() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) Before(other Clock) bool {
	return c.MinuteOfDay() < other.MinuteOfDay()
}

// On combines the clock with the calendar date of day, in day's
// location.
func (c Clock) On(day time.Time) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, c.Hour, c.Minute, 0, 0, day.Location())
}
