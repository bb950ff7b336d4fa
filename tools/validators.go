package tools

import "regexp"

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
var phoneRe = regexp.MustCompile(`^\+[0-9 \)-]+$`)

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

func ValidatePhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

func CheckPassword(password string) string {
	if len(password) < 6 {
		return "password"
	}
	return ""
}
