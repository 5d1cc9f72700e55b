package validators

import (
	"net/mail"
	"strings"
)

// IsEmail checks syntax only. The cleanup runs offline against a snapshot,
// so there is no MX lookup.
func IsEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	if !strings.Contains(email[at+1:], ".") {
		return false
	}

	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
