// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test coded error creation, wrapping and lookup helpers

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/assetcfg/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "missing_section",
			code:    errors.ErrMissingSection,
			message: "files section is required",
			wantStr: "[MISSING_SECTION] files section is required",
		},
		{
			name:    "invalid_pattern",
			code:    errors.ErrInvalidPattern,
			message: "bad regex",
			wantStr: "[INVALID_PATTERN] bad regex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}
			if err.Details == nil {
				t.Error("New() details should be initialized")
			}
			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrUnknownCategory, "unknown category %q", "fonts")
	if err.Message != `unknown category "fonts"` {
		t.Errorf("Newf() message = %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrConfigParse, "cannot parse")

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}
		wantStr := "[CONFIG_PARSE] cannot parse: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		if err := errors.Wrap(nil, errors.ErrInternal, "internal error"); err != nil {
			t.Error("Wrap(nil) should return nil")
		}
		if err := errors.Wrapf(nil, errors.ErrInternal, "internal %s", "error"); err != nil {
			t.Error("Wrapf(nil) should return nil")
		}
	})
}

func TestWithDetails(t *testing.T) {
	err := errors.New(errors.ErrInvalidPattern, "bad pattern").
		WithDetail("category", "javascripts").
		WithDetails(map[string]interface{}{"index": 2, "pattern": "^(app"})

	if err.Details["category"] != "javascripts" {
		t.Errorf("category = %v", err.Details["category"])
	}
	if err.Details["index"] != 2 {
		t.Errorf("index = %v", err.Details["index"])
	}
	if got := errors.GetErrorDetails(err)["pattern"]; got != "^(app" {
		t.Errorf("GetErrorDetails() pattern = %v", got)
	}
	if errors.GetErrorDetails(stderrors.New("plain")) != nil {
		t.Error("GetErrorDetails() should be nil for plain errors")
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrMissingSection, "error 1")
	err2 := errors.New(errors.ErrMissingSection, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	if !stderrors.Is(err1, err2) {
		t.Error("errors.Is() should match on code")
	}
	if stderrors.Is(err1, err3) {
		t.Error("errors.Is() should not match different codes")
	}
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{"matching_code", errors.New(errors.ErrConfigInvalid, "x"), errors.ErrConfigInvalid, true},
		{"different_code", errors.New(errors.ErrConfigInvalid, "x"), errors.ErrInternal, false},
		{"fmt_wrapped", fmt.Errorf("outer: %w", errors.New(errors.ErrFileAccess, "denied")), errors.ErrFileAccess, true},
		{"plain_error", stderrors.New("standard error"), errors.ErrNotFound, false},
		{"nil_error", nil, errors.ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := errors.GetErrorCode(errors.New(errors.ErrPatternMatch, "timeout")); got != errors.ErrPatternMatch {
		t.Errorf("GetErrorCode() = %v", got)
	}
	if got := errors.GetErrorCode(stderrors.New("standard")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode() = %v, want UNKNOWN", got)
	}
	if got := errors.GetErrorCode(nil); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode(nil) = %v, want UNKNOWN", got)
	}
}

func TestIsConfigError(t *testing.T) {
	if !errors.IsConfigError(fmt.Errorf("wrapped: %w", errors.New(errors.ErrConfigLoad, "x"))) {
		t.Error("IsConfigError() should see through fmt wrapping")
	}
	if errors.IsConfigError(stderrors.New("plain")) {
		t.Error("IsConfigError() should be false for plain errors")
	}
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	fileErr := errors.Wrap(rootCause, errors.ErrFileAccess, "cannot read file")
	loadErr := errors.Wrap(fileErr, errors.ErrConfigLoad, "failed to load descriptor")

	if !errors.IsErrorCode(loadErr, errors.ErrConfigLoad) {
		t.Error("top level should have ErrConfigLoad code")
	}

	var middle *errors.ConfigError
	if stderrors.As(loadErr.Unwrap(), &middle) && middle.Code != errors.ErrFileAccess {
		t.Error("middle error should have ErrFileAccess code")
	}

	if !stderrors.Is(loadErr, rootCause) {
		t.Error("should find root cause with errors.Is")
	}
}
