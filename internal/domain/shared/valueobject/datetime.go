package valueobject

import (
	"bytes"
	"errors"
	"fmt"
	"time"
)

// DateTimeLayout is the only accepted wire format for timestamps
const DateTimeLayout = "2006-01-02T15:04:05Z"

// ErrInvalidDateTime is returned when a timestamp does not follow DateTimeLayout
var ErrInvalidDateTime = errors.New("invalid date-time, expected yyyy-MM-ddTHH:mm:ssZ")

// DateTime is a UTC timestamp with second precision
type DateTime struct {
	t time.Time
}

// NewDateTime truncates t to seconds and converts it to UTC
func NewDateTime(t time.Time) DateTime {
	return DateTime{t: t.UTC().Truncate(time.Second)}
}

// ParseDateTime parses s strictly against DateTimeLayout. time.Parse lets a
// fractional second through after the seconds field, so s must also format
// back to itself.
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil || t.Format(DateTimeLayout) != s {
		return DateTime{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, s)
	}
	return DateTime{t: t}, nil
}

// MustDateTime is like ParseDateTime but panics on error. Intended for fixtures.
func MustDateTime(s string) DateTime {
	d, err := ParseDateTime(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns the underlying time value
func (d DateTime) Time() time.Time {
	return d.t
}

// IsZero reports whether the timestamp is unset
func (d DateTime) IsZero() bool {
	return d.t.IsZero()
}

// Before reports whether d is strictly before other
func (d DateTime) Before(other DateTime) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly after other
func (d DateTime) After(other DateTime) bool {
	return d.t.After(other.t)
}

// Equal reports whether both timestamps denote the same instant
func (d DateTime) Equal(other DateTime) bool {
	return d.t.Equal(other.t)
}

func (d DateTime) String() string {
	return d.t.Format(DateTimeLayout)
}

// MarshalJSON implements json.Marshaler
func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON only accepts a JSON string in DateTimeLayout
func (d *DateTime) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrInvalidDateTime, data)
	}
	parsed, err := ParseDateTime(string(bytes.Trim(data, `"`)))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
