package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/oukaro/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "config_unavailable",
			code:    errors.ErrConfigUnavailable,
			message: "config missing",
			wantStr: "[CONFIG_UNAVAILABLE] config missing",
		},
		{
			name:    "invalid_input_error",
			code:    errors.ErrInvalidInput,
			message: "invalid package name",
			wantStr: "[INVALID_INPUT] invalid package name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}
			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
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
	err := errors.Newf(errors.ErrTargetBusy, "unmount %s: %d holders", "/system/app/com.a", 2)
	if err.Message != "unmount /system/app/com.a: 2 holders" {
		t.Errorf("Newf() message = %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrInternal, "internal error")

		if err.Code != errors.ErrInternal {
			t.Errorf("Wrap() code = %v, want %v", err.Code, errors.ErrInternal)
		}
		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[INTERNAL] internal error: base error"
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

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrMountFailure, "mount failed").
		WithDetail("package", "com.a").
		WithDetail("role", "system-app")

	if err.Details["package"] != "com.a" {
		t.Errorf("WithDetail() package = %v", err.Details["package"])
	}
	if err.Details["role"] != "system-app" {
		t.Errorf("WithDetail() role = %v", err.Details["role"])
	}
}

func TestWithDetails(t *testing.T) {
	details := map[string]interface{}{
		"target": "/system/priv-app/com.c",
		"source": "/data/app/com.c-1",
	}

	err := errors.New(errors.ErrSourceUnavailable, "source vanished").WithDetails(details)
	for k, v := range details {
		if err.Details[k] != v {
			t.Errorf("WithDetails() %s = %v, want %v", k, err.Details[k], v)
		}
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrConfigMalformed, "error 1")
	err2 := errors.New(errors.ErrConfigMalformed, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	if !err1.Is(err2) {
		t.Error("Is() should return true for same code")
	}
	if err1.Is(err3) {
		t.Error("Is() should return false for different codes")
	}
	if !stderrors.Is(err1, err2) {
		t.Error("errors.Is() should match on code")
	}
}

func TestIsErrorCode(t *testing.T) {
	busy := errors.New(errors.ErrTargetBusy, "device busy")

	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{"matching_code", errors.New(errors.ErrResolverFailure, "pm missing"), errors.ErrResolverFailure, true},
		{"different_code", errors.New(errors.ErrResolverFailure, "pm missing"), errors.ErrInternal, false},
		{"outer_code", errors.Wrap(busy, errors.ErrUnmountFailure, "unmount"), errors.ErrUnmountFailure, true},
		{"inner_code", errors.Wrap(busy, errors.ErrUnmountFailure, "unmount"), errors.ErrTargetBusy, true},
		{"behind_fmt_wrap", fmt.Errorf("pass: %w", busy), errors.ErrTargetBusy, true},
		{"standard_error", stderrors.New("standard error"), errors.ErrInternal, false},
		{"nil_error", nil, errors.ErrInternal, false},
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
	tests := []struct {
		name     string
		err      error
		expected errors.ErrorCode
	}{
		{"structured", errors.New(errors.ErrWatchFailure, "inotify"), errors.ErrWatchFailure},
		{"standard_error", stderrors.New("standard error"), errors.ErrUnknown},
		{"nil_error", nil, errors.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorDetails(t *testing.T) {
	err := errors.New(errors.ErrMountFailure, "mount").WithDetail("package", "com.a")
	if got := errors.GetErrorDetails(err); got["package"] != "com.a" {
		t.Errorf("GetErrorDetails() = %v", got)
	}
	if got := errors.GetErrorDetails(stderrors.New("plain")); got != nil {
		t.Errorf("GetErrorDetails(plain) = %v, want nil", got)
	}
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("no such file or directory")
	readErr := errors.Wrap(rootCause, errors.ErrConfigUnavailable, "cannot read config")
	passErr := errors.Wrap(readErr, errors.ErrInternal, "pass aborted")

	if !errors.IsErrorCode(passErr, errors.ErrInternal) {
		t.Error("top level should have ErrInternal code")
	}
	if !errors.IsErrorCode(passErr, errors.ErrConfigUnavailable) {
		t.Error("chain should contain ErrConfigUnavailable")
	}
	if !stderrors.Is(passErr, rootCause) {
		t.Error("should find root cause with errors.Is")
	}
}
