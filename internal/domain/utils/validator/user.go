package validator

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

const MinPasswordLength = 6

func Email(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == strings.TrimSpace(email)
}

func Password(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

func Name(name string) bool {
	name = strings.TrimSpace(name)
	return utf8.RuneCountInString(name) >= 1 && utf8.RuneCountInString(name) <= 150
}

// OTP accepts a code made of exactly length ASCII digits.
func OTP(code string, length int) bool {
	if len(code) != length {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
