// Package date provides a day-granularity Date, used for option expiries
// and the report as-of parameter.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// Date represents a date with day-level granularity.
// The zero value means "no date" (e.g. a stock has no expiry).
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.Time().Date()
	return d
}

// Today returns the current date.
func Today() Date { return New(time.Now().Date()) }

// Of returns the Date of a point in time.
func Of(t time.Time) Date { return New(t.Date()) }

// Time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// IsZero reports whether d is the zero "no date" value.
func (d Date) IsZero() bool { return d == Date{} }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.Time().Before(x.Time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.Time().After(x.Time()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// String format the date in its standard format.
func (d Date) String() string { return d.Time().Format(DateFormat) }

// Format formats the date with an arbitrary time layout.
func (d Date) Format(layout string) string { return d.Time().Format(layout) }

// Parse parses a Date from a string. It is lenient and accepts formats like "2025-7-1".
func Parse(str string) (Date, error) {
	on, err := time.Parse(readDateFormat, str)
	// We use a slightly more permisive format for read, to support 2025-7-1 instead of 2025-07-01
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, readDateFormat, err)
	}
	return New(on.Date()), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	p, err := Parse(str)
	if err != nil {
		return err
	}
	*d = p
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	str := d.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
