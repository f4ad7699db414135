package validator

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// MaxURLLength bounds accepted URLs
const MaxURLLength = 2048

var (
	// hierarchicalSchemes require an authority (host) component
	hierarchicalSchemes = map[string]bool{
		"http":  true,
		"https": true,
		"ftp":   true,
		"ftps":  true,
		"ws":    true,
		"wss":   true,
	}

	// blockedSchemes can execute in the browser that follows the redirect
	blockedSchemes = map[string]bool{
		"javascript": true,
		"data":       true,
		"vbscript":   true,
	}
)

// ValidateURL checks that rawURL is a well-formed absolute URL.
// The value is not normalized; callers store it as submitted.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "url parameter is required"}
	}

	if len(rawURL) > MaxURLLength {
		return &ValidationError{Field: "url", Message: "URL too long (max 2048 characters)"}
	}

	// Stored as text; query decoding can yield bytes that are not UTF-8
	if !utf8.ValidString(rawURL) {
		return &ValidationError{Field: "url", Message: "Invalid URL format"}
	}

	if strings.ContainsAny(rawURL, " \t\r\n") {
		return &ValidationError{Field: "url", Message: "Invalid URL format"}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: "Invalid URL format"}
	}

	if !parsed.IsAbs() {
		return &ValidationError{Field: "url", Message: "URL must be absolute"}
	}

	scheme := strings.ToLower(parsed.Scheme)
	if blockedSchemes[scheme] {
		return &ValidationError{Field: "url", Message: "Unsupported URL scheme"}
	}

	if hierarchicalSchemes[scheme] && parsed.Host == "" {
		return &ValidationError{Field: "url", Message: "URL must contain a host"}
	}

	if !hierarchicalSchemes[scheme] && parsed.Opaque == "" && parsed.Host == "" && parsed.Path == "" {
		return &ValidationError{Field: "url", Message: "Invalid URL format"}
	}

	return nil
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
