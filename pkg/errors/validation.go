package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxOrderNumberLength  = 64
	maxCustomerNameLength = 128
	maxPhoneLength        = 32
	maxFilenameLength     = 255
)

// ValidateOrderNumber validates an order number. Order numbers end up in
// file names and page headers, so they are restricted to a conservative
// character set.
func ValidateOrderNumber(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return New(ErrCodeInvalidOrder, "order number is required")
	}
	if len(s) > maxOrderNumberLength {
		return New(ErrCodeInvalidOrder, "order number too long (max %d characters)", maxOrderNumberLength)
	}
	if !orderNumberRegex.MatchString(s) {
		return New(ErrCodeInvalidOrder, "invalid order number: %q", s)
	}
	return nil
}

var orderNumberRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._#-]*$`)

// ValidateCustomerName validates a customer name.
// Any printable text is accepted; control characters are not.
func ValidateCustomerName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return New(ErrCodeInvalidOrder, "customer name is required")
	}
	if utf8.RuneCountInString(s) > maxCustomerNameLength {
		return New(ErrCodeInvalidOrder, "customer name too long (max %d characters)", maxCustomerNameLength)
	}
	if hasControl(s) {
		return New(ErrCodeInvalidOrder, "customer name contains invalid control characters")
	}
	return nil
}

var phoneRegex = regexp.MustCompile(`^\+?[0-9 ()./-]*$`)

// ValidatePhone validates an optional phone number.
// An empty phone is valid.
func ValidatePhone(s string) error {
	if s == "" {
		return nil
	}
	if len(s) > maxPhoneLength {
		return New(ErrCodeInvalidOrder, "phone too long (max %d characters)", maxPhoneLength)
	}
	if !phoneRegex.MatchString(s) {
		return New(ErrCodeInvalidOrder, "invalid phone: %q", s)
	}
	return nil
}

// ValidateFilename validates an artifact name for safety.
// It must be a plain basename: no separators, no traversal, no hidden files.
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFilename, "filename cannot be empty")
	}
	if len(name) > maxFilenameLength {
		return New(ErrCodeInvalidFilename, "filename too long (max %d characters)", maxFilenameLength)
	}
	if hasControl(name) {
		return New(ErrCodeInvalidFilename, "filename contains invalid characters")
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidFilename, "filename cannot contain path separators")
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidFilename, "filename cannot be a hidden file")
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}

func hasControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
