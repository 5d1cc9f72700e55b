package phone

import (
	"regexp"
	"strings"
	"unicode"
)

// Canonical is a domestic mobile number: "010" followed by 8 digits.
type Canonical string

func (c Canonical) String() string {
	return string(c)
}

var canonicalPattern = regexp.MustCompile(`^010\d{8}$`)

// ===============================
// Normalize
// ===============================

// Normalize maps a raw phone string to its canonical form. The second
// return value is false when the input cannot be canonicalized.
// A ordem das regras importa: cada passo assume a limpeza do anterior.
func Normalize(raw string) (Canonical, bool) {
	if raw == "" {
		return "", false
	}

	s := strip(raw)

	if strings.HasPrefix(s, "82") {
		s = "0" + s[2:]
	}

	if strings.HasPrefix(s, "01") && len(s) == 10 {
		s = s[:2] + "0" + s[2:]
	}

	if strings.HasPrefix(s, "10") && len(s) == 10 {
		s = "0" + s
	}

	if !canonicalPattern.MatchString(s) {
		return "", false
	}
	return Canonical(s), true
}

// IsCanonical reports whether s is already in canonical form.
func IsCanonical(s string) bool {
	return canonicalPattern.MatchString(s)
}

func strip(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		switch r {
		case '-', '(', ')', '+', ',':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
