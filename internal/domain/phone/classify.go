package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const DefaultRegion = "KR"

// Reason explains why a raw number did not normalize.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonEmpty     Reason = "empty"
	ReasonLandline  Reason = "landline"
	ReasonForeign   Reason = "foreign"
	ReasonMalformed Reason = "malformed"
)

// Classify returns ReasonNone for numbers Normalize accepts. For the rest it
// asks libphonenumber whether the input is at least a real number somewhere,
// which is what a human reviewing the report needs to decide on a fix.
func Classify(raw string) Reason {
	if strings.TrimSpace(raw) == "" {
		return ReasonEmpty
	}
	if _, ok := Normalize(raw); ok {
		return ReasonNone
	}

	num, err := phonenumbers.Parse(raw, DefaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return ReasonMalformed
	}

	if phonenumbers.GetRegionCodeForNumber(num) != DefaultRegion {
		return ReasonForeign
	}

	switch phonenumbers.GetNumberType(num) {
	case phonenumbers.MOBILE, phonenumbers.FIXED_LINE_OR_MOBILE:
		// valid Korean mobile that our stricter rules still reject (011/016/...)
		return ReasonMalformed
	}
	return ReasonLandline
}

// E164 formats a canonical number for display, e.g. +821012345678.
func E164(c Canonical) string {
	num, err := phonenumbers.Parse(string(c), DefaultRegion)
	if err != nil {
		return string(c)
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
