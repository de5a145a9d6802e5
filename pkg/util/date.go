package util

import (
    "fmt"
    "strconv"
    "strings"
    "time"
)

// DateFormat is the canonical ISO calendar date layout.
const DateFormat = "2006-01-02"

// rocOffset is the year difference between the Gregorian and ROC (Minguo) calendars.
const rocOffset = 1911

// ParseDate parses an ISO date. Returns (t, true) if it worked.
func ParseDate(s string) (time.Time, bool) {
    t, err := time.Parse(DateFormat, strings.TrimSpace(s))
    if err != nil {
        return time.Time{}, false
    }
    return t, true
}

// ToROCDate converts "2021-01-05" into "110/01/05".
func ToROCDate(iso string) (string, error) {
    t, ok := ParseDate(iso)
    if !ok {
        return "", fmt.Errorf("not an ISO date: %q", iso)
    }
    return fmt.Sprintf("%d/%02d/%02d", t.Year()-rocOffset, t.Month(), t.Day()), nil
}

// Compact converts "2021-01-05" into "20210105".
func Compact(iso string) string { return strings.ReplaceAll(iso, "-", "") }

// Slashed converts "2021-01-05" into "2021/01/05".
func Slashed(iso string) string { return strings.ReplaceAll(iso, "-", "/") }

// NormalizeDate accepts "2021-01-05", "2021/01/05", "20210105" or an ROC date
// like "110/01/05" and returns the ISO form. Already canonical input is unchanged.
func NormalizeDate(s string) (string, bool) {
    s = strings.TrimSpace(s)
    if s == "" {
        return "", false
    }
    if len(s) == 8 && !strings.ContainsAny(s, "-/") {
        s = s[:4] + "-" + s[4:6] + "-" + s[6:]
    }
    parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '/' })
    if len(parts) != 3 {
        return "", false
    }
    year, err := strconv.Atoi(parts[0])
    if err != nil {
        return "", false
    }
    // three digit (or shorter) years are ROC years
    if len(parts[0]) <= 3 {
        year += rocOffset
    }
    month, err1 := strconv.Atoi(parts[1])
    day, err2 := strconv.Atoi(parts[2])
    if err1 != nil || err2 != nil {
        return "", false
    }
    t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
    if t.Year() != year || int(t.Month()) != month || t.Day() != day {
        return "", false
    }
    return t.Format(DateFormat), true
}
