package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTitleLength is the longest event title accepted.
const MaxTitleLength = 120

// ValidateTitle validates an event title.
//
// The validation rules are intentionally conservative:
//   - No empty or blank titles
//   - No control characters
//   - Maximum length of MaxTitleLength characters
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return New(ErrCodeInvalidEvent, "event title cannot be empty")
	}

	if utf8.RuneCountInString(title) > MaxTitleLength {
		return New(ErrCodeInvalidEvent, "event title too long (max %d characters)", MaxTitleLength)
	}

	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidEvent, "event title contains invalid control characters")
		}
	}

	return nil
}

// ValidateRequired reports an INVALID_EVENT error naming field when value is blank.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return New(ErrCodeInvalidEvent, "%s is required", field)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidLink, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidLink, "URL must use http or https scheme")
	}

	if strings.ContainsAny(rawURL, " \t\r\n") {
		return New(ErrCodeInvalidLink, "URL cannot contain whitespace")
	}

	return nil
}

// usernameRegex matches Reddit-style usernames.
var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

// ValidateUsername validates a username used for RSVPs and private messages.
func ValidateUsername(name string) error {
	if name == "" {
		return New(ErrCodeInvalidUsername, "username cannot be empty")
	}

	if !usernameRegex.MatchString(name) {
		return New(ErrCodeInvalidUsername, "invalid username: %q", name)
	}

	return nil
}
