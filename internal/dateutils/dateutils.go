// Package dateutils provides the date parsing and report-date formatting used throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Layouts used by the reports.
const (
	DateLayoutISO    = "2006-01-02"
	DateLayoutUS     = "01/02/2006"
	DateLayoutFull   = "2006-01-02 15:04:05"
	DateLayoutFile   = "01022006"
	DateLayoutDashed = "01-02-2006"
	// DateLayoutStamp is the remark date-time stamp, e.g. "03/04/2024 02:40:00 PM".
	DateLayoutStamp = "01/02/2006 03:04:05 PM"
	// DateLayoutResult is DateLayoutStamp without the zero-padded hour.
	DateLayoutResult = "01/02/2006 3:04:05 PM"
)

// CommonFormats is the ordered list of layouts tried by ParseDate. US month-first layouts come
// before day-first ones since the contact-management exports are US formatted.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutUS,
	DateLayoutFull,
	DateLayoutFull + "-07",
	DateLayoutISO + "T15:04:05",
	DateLayoutISO + "T15:04:05Z07:00",
	DateLayoutStamp,
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"01/02/2006 15:04:05",
	"1/2/2006",
	"1/2/06",
	DateLayoutDashed,
	"2006/01/02",
	"2-Jan-2006",
	"02-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
}

var clockFormats = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"03:04:05 PM",
}

var spaces = regexp.MustCompile(`\s+`)

// ParseDate parses a date string with the first matching layout of CommonFormats.
// It returns the parsed time and the layout that matched.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, "", fmt.Errorf("unable to parse empty date")
	}
	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseCell reads a date cell. It accepts Excel serial numbers as well as the
// layouts of CommonFormats. The boolean is false for blank or unparseable input.
func ParseCell(raw string) (time.Time, bool) {
	raw = CleanDateString(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, ok := ParseExcelSerial(raw); ok {
		return t, true
	}
	t, _, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseExcelSerial converts an Excel serial date ("45300" or "45300.6041") to a time.
func ParseExcelSerial(raw string) (time.Time, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f < 0 || f > 2958465 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return t.Round(time.Second), true
}

// ParseClock reads a time-of-day cell. The result carries only the clock; its date is zero-based.
// Serial fractions ("0.6041") and full date-time values are accepted too.
func ParseClock(raw string) (time.Time, bool) {
	raw = CleanDateString(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, format := range clockFormats {
		if t, err := time.Parse(format, strings.ToUpper(raw)); err == nil {
			return Clock(t), true
		}
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f >= 0 && f < 1 {
		secs := int(f*86400 + 0.5)
		return time.Date(0, 1, 1, secs/3600, secs%3600/60, secs%60, 0, time.UTC), true
	}
	if t, ok := ParseCell(raw); ok {
		return Clock(t), true
	}
	return time.Time{}, false
}

// Clock strips the date of t, keeping hours, minutes and seconds.
func Clock(t time.Time) time.Time {
	return time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// AtClock returns day with the given wall clock.
func AtClock(day time.Time, hour, minute, second int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, second, 0, day.Location())
}

// CleanDateString trims a date string and collapses inner whitespace.
func CleanDateString(dateStr string) string {
	return spaces.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// StartOfDay drops the clock of t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ToReportDate formats MM/DD/YYYY; zero dates give "".
func ToReportDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayoutUS)
}

// ToFileDate formats MMDDYYYY for output file names.
func ToFileDate(t time.Time) string { return t.Format(DateLayoutFile) }

// ToDashedDate formats MM-DD-YYYY.
func ToDashedDate(t time.Time) string { return t.Format(DateLayoutDashed) }

// ToISODate formats YYYY-MM-DD.
func ToISODate(t time.Time) string { return t.Format(DateLayoutISO) }

// ToStamp formats the remark date-time stamp.
func ToStamp(t time.Time) string { return t.Format(DateLayoutStamp) }

// ToResultStamp formats the monitoring result date-time.
func ToResultStamp(t time.Time) string { return t.Format(DateLayoutResult) }

// ToMonthDate formats DDMONYYYY in upper case, e.g. "05MAR2024".
func ToMonthDate(t time.Time) string { return strings.ToUpper(t.Format("02Jan2006")) }

// ToMonthDay formats "MONTH D" in upper case, e.g. "MARCH 5".
func ToMonthDay(t time.Time) string { return strings.ToUpper(t.Format("January 2")) }
