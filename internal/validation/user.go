// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"unicode"

	"userbase/internal/models"
)

var (
	nameRegex     = regexp.MustCompile(`^[a-zA-Z0-9]+( [a-zA-Z0-9]+)*$`)
	usernameRegex = regexp.MustCompile(`^[a-z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^[a-z0-9]+(\.[a-z0-9]+)*@[a-z0-9]+(\.[a-z0-9]+)*\.[a-z]{2,}$`)
)

// ValidateName checks the display name: 1-20 characters, letters, digits and
// single spaces, no leading or trailing space.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > 20 {
		return fmt.Errorf("name cannot exceed 20 characters")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("name can include letters, numbers, and spaces, but cannot start or end with a space")
	}
	return nil
}

// ValidateUsername checks the login identity key: 3-12 characters, lowercase
// letters, digits and underscores only.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) < 3 || len(username) > 12 {
		return fmt.Errorf("username must be between 3 and 12 characters")
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username may only contain lowercase letters, numbers, and underscores")
	}
	return nil
}

// ValidateEmail checks the email format: lowercase dotted segments on both
// sides of the @ and a TLD of at least two letters.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword checks a plaintext password: at least 6 characters with an
// uppercase letter, a lowercase letter, a symbol, and no whitespace. There is
// deliberately no digit requirement; this mirrors the documented account
// policy exactly.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}

	hasUpper := false
	hasLower := false
	hasSymbol := false
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return fmt.Errorf("password must not contain whitespace")
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
		// Symbol means anything outside [a-zA-Z0-9_].
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			hasSymbol = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasSymbol {
		return fmt.Errorf("password must contain at least one special character")
	}
	return nil
}

// ValidateUser runs all field checks and collects failures into a field ->
// message map, the shape returned to clients as the 400 body. When
// passwordRequired is false an empty password is accepted unchecked, which is
// the update path's "keep the current password" convention; a non-empty
// password is always fully checked.
func ValidateUser(name, username, email, password string, passwordRequired bool) models.ValidationErrors {
	errs := models.ValidationErrors{}

	if err := ValidateName(name); err != nil {
		errs["name"] = err.Error()
	}
	if err := ValidateUsername(username); err != nil {
		errs["username"] = err.Error()
	}
	if err := ValidateEmail(email); err != nil {
		errs["email"] = err.Error()
	}
	if passwordRequired || password != "" {
		if err := ValidatePassword(password); err != nil {
			errs["password"] = err.Error()
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
