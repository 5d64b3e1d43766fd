// Package duration converts human readable lifetimes such as "30s" or "7d"
// into milliseconds. The same value drives JWT expiry and cookie max-age.
package duration

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultFallback is used when a spec is empty or its amount is not a number.
const DefaultFallback = "1d"

const day = int64(86400 * 1000)

var units = map[string]int64{
	"s": 1000,
	"m": 60 * 1000,
	"h": 3600 * 1000,
	"d": day,
}

// Parse returns the number of milliseconds described by spec, falling back
// to DefaultFallback.
func Parse(spec string) int64 {
	return ParseWithFallback(spec, DefaultFallback)
}

// ParseWithFallback reads spec as <amount><unit>. The unit is the last
// character (s, m, h or d, any case); an unknown unit means seconds. An empty
// spec or a non-numeric amount resolves to fallback.
func ParseWithFallback(spec, fallback string) int64 {
	if ms, ok := parse(spec); ok {
		return ms
	}
	if ms, ok := parse(fallback); ok {
		return ms
	}
	return day
}

// ParseValue accepts either a spec string or a bare number of seconds.
func ParseValue(v any) int64 {
	switch n := v.(type) {
	case string:
		return Parse(n)
	case int:
		return mulSat(int64(n), 1000)
	case int32:
		return mulSat(int64(n), 1000)
	case int64:
		return mulSat(n, 1000)
	case uint:
		return fromUint(uint64(n))
	case uint32:
		return fromUint(uint64(n))
	case uint64:
		return fromUint(n)
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	default:
		return Parse("")
	}
}

const maxDurationMs = int64(math.MaxInt64 / int64(time.Millisecond))

// ToDuration converts milliseconds into a time.Duration, saturating at the
// largest representable duration instead of wrapping.
func ToDuration(ms int64) time.Duration {
	switch {
	case ms > maxDurationMs:
		return time.Duration(math.MaxInt64)
	case ms < -maxDurationMs:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(ms) * time.Millisecond
}

// mulSat multiplies amount by a positive factor, clamping to the int64 range.
func mulSat(amount, factor int64) int64 {
	switch {
	case amount > math.MaxInt64/factor:
		return math.MaxInt64
	case amount < math.MinInt64/factor:
		return math.MinInt64
	}
	return amount * factor
}

func fromUint(n uint64) int64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return mulSat(int64(n), 1000)
}

func fromFloat(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return Parse("")
	case f >= math.MaxInt64/1000:
		return math.MaxInt64
	case f <= math.MinInt64/1000:
		return math.MinInt64
	}
	return int64(f) * 1000
}

func parse(spec string) (int64, bool) {
	if spec == "" {
		return 0, false
	}
	unit := strings.ToLower(spec[len(spec)-1:])
	amount, ok := leadingInt(spec[:len(spec)-1])
	if !ok {
		return 0, false
	}
	multiplier, known := units[unit]
	if !known {
		multiplier = 1000
	}
	return mulSat(amount, multiplier), true
}

// leadingInt reads an optionally signed run of digits after leading
// whitespace and ignores whatever follows it. Amounts beyond int64 saturate.
func leadingInt(s string) (int64, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return n, true
		}
		return 0, false
	}
	return n, true
}
