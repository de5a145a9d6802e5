package util

import (
    "math"
    "strconv"
    "strings"
)

// ParseFloatDefault parses s as a finite float or returns def if empty/invalid.
func ParseFloatDefault(s string, def float64) float64 {
    v, ok := ParseFloat(s)
    if !ok {
        return def
    }
    return v
}

// ParseFloat parses s and rejects NaN and infinities.
func ParseFloat(s string) (float64, bool) {
    s = strings.TrimSpace(s)
    if s == "" {
        return 0, false
    }
    v, err := strconv.ParseFloat(s, 64)
    if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
        return 0, false
    }
    return v, true
}

// RemoveAll deletes every occurrence of each needle from s, in order.
func RemoveAll(s string, needles ...string) string {
    for _, n := range needles {
        s = strings.ReplaceAll(s, n, "")
    }
    return s
}
