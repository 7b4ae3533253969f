package httpapi

import (
	"net/mail"
	"unicode/utf8"
)

type signupRequest struct {
	FName           string `json:"fname"`
	LName           string `json:"lname"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// validateSignup rejects malformed signup payloads before any store call.
// Returns per-field messages, empty when the payload is valid.
func validateSignup(req signupRequest) map[string]string {
	problems := make(map[string]string)

	if utf8.RuneCountInString(req.FName) < 2 {
		problems["fname"] = "First name must be at least 2 characters."
	}
	if utf8.RuneCountInString(req.LName) < 2 {
		problems["lname"] = "Last name must be at least 2 characters."
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		problems["email"] = "Invalid email address."
	}
	if utf8.RuneCountInString(req.Phone) < 10 {
		problems["phone"] = "Phone number must be at least 10 digits."
	}
	if utf8.RuneCountInString(req.Password) < 6 {
		problems["password"] = "Password must be at least 6 characters."
	}
	if req.Password != req.ConfirmPassword {
		problems["confirmPassword"] = "Passwords don't match."
	}

	return problems
}
