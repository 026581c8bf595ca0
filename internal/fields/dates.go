package fields

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/HendryAvila/apply-wizard/internal/form"
)

// isoLayout is the persisted date layout.
const isoLayout = "2006-01-02"

// displayLayout is how dates appear in answers ("1 May 2026").
const displayLayout = "2 January 2006"

// Date is a day/month/year input as submitted in three boxes named
// "<key>-day", "<key>-month" and "<key>-year".
type Date struct {
	Day   string
	Month string
	Year  string
}

// ReadDate reads a date group. When the parts are absent it falls back to
// the composed "<key>" value of a previously stored body.
func ReadDate(input form.Input, key string) Date {
	d := Date{
		Day:   strings.TrimSpace(String(input, key+"-day")),
		Month: strings.TrimSpace(String(input, key+"-month")),
		Year:  strings.TrimSpace(String(input, key+"-year")),
	}
	if d.Empty() {
		if t, err := time.Parse(isoLayout, String(input, key)); err == nil {
			return FromTime(t)
		}
	}
	return d
}

// FromTime splits a time into date parts.
func FromTime(t time.Time) Date {
	return Date{
		Day:   strconv.Itoa(t.Day()),
		Month: strconv.Itoa(int(t.Month())),
		Year:  strconv.Itoa(t.Year()),
	}
}

// Empty reports whether no part was filled in.
func (d Date) Empty() bool {
	return d.Day == "" && d.Month == "" && d.Year == ""
}

// Time parses the parts into a date, reporting whether they form a real
// calendar date with a four-digit year.
func (d Date) Time() (time.Time, bool) {
	day, err1 := strconv.Atoi(d.Day)
	month, err2 := strconv.Atoi(d.Month)
	year, err3 := strconv.Atoi(d.Year)
	if err1 != nil || err2 != nil || err3 != nil || len(d.Year) != 4 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises overflow, so 31/2 becomes 2/3; reject that.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

// Valid reports whether the parts form a real date.
func (d Date) Valid() bool {
	_, ok := d.Time()
	return ok
}

// ISO renders the date as YYYY-MM-DD, or "" when invalid.
func (d Date) ISO() string {
	t, ok := d.Time()
	if !ok {
		return ""
	}
	return t.Format(isoLayout)
}

// FormatDate renders an ISO date or RFC 3339 timestamp for humans;
// unparseable input is returned unchanged.
func FormatDate(iso string) string {
	t, err := time.Parse(isoLayout, iso)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, iso); err != nil {
			return iso
		}
	}
	return t.Format(displayLayout)
}

// DateError is the standard message for a date group.
func DateError(d Date, label string) string {
	if d.Empty() {
		return fmt.Sprintf("You must specify the %s", label)
	}
	if !d.Valid() {
		return fmt.Sprintf("The %s is an invalid date", label)
	}
	return ""
}
