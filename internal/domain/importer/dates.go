package importer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hrconsole/internal/domain/skills"
)

var (
	numericDate = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})$`)
	yearMonth   = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})$`)
	monthYear   = regexp.MustCompile(`^(\d{1,2})[-/](\d{4})$`)
)

// excelEpoch is day zero of the 1900 date system as Excel counts it.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate accepts ISO dates, dd-mm-yyyy and mm/dd/yyyy style dates and
// Excel serial numbers. A first part above 12 is read as the day; otherwise
// the month comes first.
func ParseDate(value string) (skills.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return skills.Date{}, nil
	}
	if d, err := skills.ParseDate(value); err == nil {
		return d, nil
	}
	if m := numericDate.FindStringSubmatch(value); m != nil {
		first, _ := strconv.Atoi(m[1])
		second, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if first > 12 {
			if d, ok := calendarDate(year, second, first); ok {
				return d, nil
			}
		} else if d, ok := calendarDate(year, first, second); ok {
			return d, nil
		}
		return skills.Date{}, fmt.Errorf("invalid date %q", value)
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 && serial < 2958466 {
		days := int(math.Floor(serial))
		return skills.DateFromTime(ptr(excelEpoch.AddDate(0, 0, days))), nil
	}
	return skills.Date{}, fmt.Errorf("invalid date %q", value)
}

// ParseMonth reads an assessment month as YYYY-MM. It accepts YYYY-MM,
// MM/YYYY and any full date ParseDate accepts.
func ParseMonth(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	year, month := 0, 0
	if m := yearMonth.FindStringSubmatch(value); m != nil {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
	} else if m := monthYear.FindStringSubmatch(value); m != nil {
		month, _ = strconv.Atoi(m[1])
		year, _ = strconv.Atoi(m[2])
	} else {
		d, err := ParseDate(value)
		if err != nil {
			return "", err
		}
		return d.Format("2006-01"), nil
	}
	if month < 1 || month > 12 {
		return "", fmt.Errorf("invalid month %q", value)
	}
	return fmt.Sprintf("%04d-%02d", year, month), nil
}

func calendarDate(year, month, day int) (skills.Date, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return skills.Date{}, false
	}
	d := skills.NewDate(year, time.Month(month), day)
	if d.Day() != day || int(d.Month()) != month {
		return skills.Date{}, false
	}
	return d, true
}

func ptr(t time.Time) *time.Time {
	return &t
}
