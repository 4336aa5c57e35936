package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidOrder, "order number %q is invalid", "A/1")

	if err.Code != ErrCodeInvalidOrder {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidOrder)
	}
	if err.Message != `order number "A/1" is invalid` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `INVALID_ORDER: order number "A/1" is invalid`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrCodeUploadFailed, cause, "upload %s", "sheet.png")

	if err.Code != ErrCodeUploadFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUploadFailed)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "UPLOAD_FAILED: upload sheet.png: connection reset"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeEncodeFailed, "png"), ErrCodeEncodeFailed, true},
		{"non-matching code", New(ErrCodeEncodeFailed, "png"), ErrCodeSurfaceUnavailable, false},
		{"outer code wins", Wrap(ErrCodeNotifyFailed, New(ErrCodeNetwork, "inner"), "outer"), ErrCodeNotifyFailed, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"coded", New(ErrCodeQuantityMismatch, "12 != 10"), ErrCodeQuantityMismatch},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidOrder, "customer name is required")); got != "customer name is required" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestRateLimitedError(t *testing.T) {
	err := &RateLimitedError{RetryAfter: 60}
	if err.Error() != "rate limited: retry after 60 seconds" {
		t.Errorf("Error() = %v", err.Error())
	}
	if (&RateLimitedError{}).Error() != "rate limited" {
		t.Errorf("Error() without retry = %v", (&RateLimitedError{}).Error())
	}
	if err.Code() != ErrCodeRateLimited {
		t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeRateLimited)
	}
}
