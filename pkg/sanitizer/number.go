package sanitizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PhoneDigits renders a spreadsheet cell as the digits of a phone number.
//
// Floating point cells are truncated to an integer before formatting so
// numeric storage artifacts ("8599998888.0", "8.599998888e+09") do not leak
// extra digits. Missing values (nil, NaN, ±Inf) report ok=false.
func PhoneDigits(raw any) (string, bool) {
	var s string

	switch v := raw.(type) {
	case nil:
		return "", false
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", false
		}
		s = strconv.FormatFloat(math.Trunc(v), 'f', 0, 64)
	case float32:
		return PhoneDigits(float64(v))
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case int32:
		s = strconv.FormatInt(int64(v), 10)
	case uint64:
		s = strconv.FormatUint(v, 10)
	case uint32:
		s = strconv.FormatUint(uint64(v), 10)
	case uint:
		s = strconv.FormatUint(uint64(v), 10)
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprint(v)
	}

	return keepDigits(s), true
}

func keepDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
