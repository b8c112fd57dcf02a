package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Numeric sentinels. Both codecs spell non-finite numbers this way.
const (
	NaNSentinel         = "NaN"
	InfinitySentinel    = "Infinity"
	NegInfinitySentinel = "-Infinity"
)

// toFloat converts any Go numeric kind to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// ToFloat is the exported form of the numeric conversion used by encoders.
func ToFloat(v any) (float64, bool) {
	return toFloat(v)
}

// EncodeNumber returns the wire form of a number: the number itself when
// finite, otherwise one of the three sentinel strings.
func EncodeNumber(f float64) any {
	switch {
	case math.IsNaN(f):
		return NaNSentinel
	case math.IsInf(f, 1):
		return InfinitySentinel
	case math.IsInf(f, -1):
		return NegInfinitySentinel
	default:
		return f
	}
}

// DecodeNumber is the inverse of EncodeNumber. Numeric strings other than the
// sentinels are parsed too, as Number(string) would.
func DecodeNumber(v any) (float64, error) {
	if f, ok := toFloat(v); ok {
		return f, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("number payload must be a number or string, got %T", v)
	}
	switch s {
	case NaNSentinel:
		return math.NaN(), nil
	case InfinitySentinel:
		return math.Inf(1), nil
	case NegInfinitySentinel:
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

// FormatNumber renders f the way Number.prototype.toString does:
// integers without a fraction, plain decimal notation for exponents in
// [-7, 21) and d.ddde±x otherwise.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return NaNSentinel
	case math.IsInf(f, 1):
		return InfinitySentinel
	case math.IsInf(f, -1):
		return NegInfinitySentinel
	case f == 0:
		return "0"
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// Shortest round-tripping digits, as d.ddde±x.
	e := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, expPart, _ := strings.Cut(e, "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	exp, _ := strconv.Atoi(expPart)

	k := len(digits)
	n := exp + 1

	var out string
	switch {
	case k <= n && n <= 21:
		out = digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		out = digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		out = "0." + strings.Repeat("0", -n) + digits
	default:
		expSign := "+"
		if n-1 < 0 {
			expSign = "-"
		}
		expAbs := n - 1
		if expAbs < 0 {
			expAbs = -expAbs
		}
		if k == 1 {
			out = digits + "e" + expSign + strconv.Itoa(expAbs)
		} else {
			out = digits[:1] + "." + digits[1:] + "e" + expSign + strconv.Itoa(expAbs)
		}
	}
	return sign + out
}
