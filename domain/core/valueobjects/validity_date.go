package valueobjects

import (
	"encoding/json"
	"time"
)

// DateLayout is the calendar date format used for validity dates
const DateLayout = "2006-01-02"

// ValidityDate is a calendar day with no time-of-day component.
// Comparisons are by day only.
type ValidityDate struct {
	day time.Time
}

// ParseValidityDate parses a YYYY-MM-DD string
func ParseValidityDate(s string) (ValidityDate, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return ValidityDate{}, err
	}
	return ValidityDate{day: t}, nil
}

// DateOf returns the UTC calendar day of an instant
func DateOf(t time.Time) ValidityDate {
	u := t.UTC()
	return ValidityDate{day: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// After reports whether d is strictly later than other
func (d ValidityDate) After(other ValidityDate) bool {
	return d.day.After(other.day)
}

// Equal reports whether both dates are the same day
func (d ValidityDate) Equal(other ValidityDate) bool {
	return d.day.Equal(other.day)
}

// IsZero checks if the date is unset
func (d ValidityDate) IsZero() bool {
	return d.day.IsZero()
}

// String returns the YYYY-MM-DD representation
func (d ValidityDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.day.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler
func (d ValidityDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *ValidityDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = ValidityDate{}
		return nil
	}
	parsed, err := ParseValidityDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// OptionalDate returns a pointer to d, or nil when d is unset
func OptionalDate(d ValidityDate) *ValidityDate {
	if d.IsZero() {
		return nil
	}
	return &d
}

// ParseOptionalDate parses s, returning nil for an empty string
func ParseOptionalDate(s string) (*ValidityDate, error) {
	if s == "" {
		return nil, nil
	}
	d, err := ParseValidityDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// SameDate compares two optional dates; two nils are equal
func SameDate(a, b *ValidityDate) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
