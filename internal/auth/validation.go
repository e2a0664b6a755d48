package auth

import "regexp"

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	codeInvalidEmail           = "auth/invalid-email"
	codeInvalidPassword        = "auth/invalid-password"
	codeInvalidConfirmPassword = "auth/invalid-confirm-password"
)

// ValidationResult reports field-level validation failures.
type ValidationResult struct {
	Valid  bool
	Errors map[string]string
}

// ValidateSignup checks the email shape, the password length, and that both
// passwords match. Pure; performs no I/O.
func ValidateSignup(email, password, confirmPassword string) ValidationResult {
	errs := map[string]string{}

	if !emailPattern.MatchString(email) {
		errs["email"] = codeInvalidEmail
	}
	if len(password) < minPasswordLength {
		errs["password"] = codeInvalidPassword
	}
	if password != confirmPassword {
		errs["confirm_password"] = codeInvalidConfirmPassword
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// ValidateLogin checks the email shape and that a password was supplied at
// all; the provider decides whether it is correct.
func ValidateLogin(email, password string) ValidationResult {
	errs := map[string]string{}

	if !emailPattern.MatchString(email) {
		errs["email"] = codeInvalidEmail
	}
	if password == "" {
		errs["password"] = codeInvalidPassword
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
