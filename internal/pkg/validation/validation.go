package validation

import (
	"regexp"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Fullname: letters, spaces, hyphens, apostrophes only.
var fullnameRe = regexp.MustCompile(`^[A-Za-z\s\-']+$`)

// Phone: optional +, digits, spaces and hyphens, 7-15 digits total.
var phoneRe = regexp.MustCompile(`^\+?[0-9][0-9\s\-]{5,17}$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPassword requires:
// - at least 8 characters
// - at least one letter
// - at least one number
// - at least one special character
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit, hasSpecial := false, false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

func IsValidFullname(fullname string) bool {
	return fullname != "" && fullnameRe.MatchString(fullname)
}

func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}
