package util

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail checks basic email shape (must look like a@b.c).
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is empty")
	}
	if len(email) > 254 {
		return fmt.Errorf("email too long")
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateUsername checks the display name (non-empty, reasonable length).
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is empty")
	}
	if len(username) > 64 {
		return fmt.Errorf("username too long, max 64 characters")
	}
	return nil
}

// ValidateMessage checks a chat message (non-blank, bounded).
func ValidateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message is empty")
	}
	if len(message) > 8192 {
		return fmt.Errorf("message too long, max 8192 characters")
	}
	return nil
}
