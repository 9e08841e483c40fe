package sanitizer

import (
	"strings"

	"tratador/pkg/locale"
)

// Digit counts recognized by PhoneFormatter.
const (
	CanonicalPhoneLength = 13 // country code + area code + 9-digit mobile
	NationalPhoneLength  = 11 // area code + 9-digit mobile
	LocalMobileLength    = 9  // 9-digit mobile without area code
	LegacyMobileLength   = 8  // pre-2016 mobile without the leading 9
)

// PhoneFormatter rewrites raw phone cells into country code + area code +
// subscriber number. Numbers that fit none of the recognized shapes become "".
type PhoneFormatter struct {
	CountryCode     string
	DefaultAreaCode string
	MobilePrefix    string
}

// NewPhoneFormatter builds a formatter for the country. A non-empty areaCode
// overrides the country's default area code.
func NewPhoneFormatter(country locale.Country, areaCode string) PhoneFormatter {
	if areaCode == "" {
		areaCode = country.DefaultAreaCode
	}
	return PhoneFormatter{
		CountryCode:     country.CallingCode,
		DefaultAreaCode: areaCode,
		MobilePrefix:    country.MobilePrefix,
	}
}

// Format applies the first matching rule by digit count:
//
//	13 digits starting with the country code -> unchanged
//	11 digits -> country code + digits
//	 9 digits -> country code + default area code + digits
//	 8 digits -> country code + default area code + mobile prefix + digits
//
// Anything else, including a missing cell, returns "".
func (f PhoneFormatter) Format(raw any) string {
	digits, ok := PhoneDigits(raw)
	if !ok {
		return ""
	}

	switch {
	case len(digits) == CanonicalPhoneLength && strings.HasPrefix(digits, f.CountryCode):
		return digits
	case len(digits) == NationalPhoneLength:
		return f.CountryCode + digits
	case len(digits) == LocalMobileLength:
		return f.CountryCode + f.DefaultAreaCode + digits
	case len(digits) == LegacyMobileLength:
		return f.CountryCode + f.DefaultAreaCode + f.MobilePrefix + digits
	default:
		return ""
	}
}
