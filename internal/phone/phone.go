package phone

import "strings"

// CountryCode is the Kenyan international calling code every normalized
// number starts with.
const CountryCode = "254"

// Digits strips everything that is not an ASCII digit.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize rewrites a free-form phone input into canonical international
// form: non-digits are dropped, a leading trunk "0" is replaced with the
// country code, and the country code is prepended when missing.
//
// The function is total: it never fails, and an empty input normalizes to
// the bare country code. Callers reject too-short numbers separately.
func Normalize(s string) string {
	digits := Digits(s)
	if strings.HasPrefix(digits, "0") {
		return CountryCode + digits[1:]
	}
	if !strings.HasPrefix(digits, CountryCode) {
		return CountryCode + digits
	}
	return digits
}
