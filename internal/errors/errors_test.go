package apperrors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config", ConfigError{Message: "invalid flag value"}, "invalid flag value"},
		{"config formatted", NewConfigError("--accel must be within [0,1], got %g", 1.5), "--accel must be within [0,1], got 1.5"},
		{"timeout", TimeoutError{Operation: "play", Limit: 30 * time.Second}, `operation "play" timed out after 30s`},
		{"validation", ValidationError{Field: "decel", Message: "exceeds 1"}, `validation error for "decel": exceeds 1`},
		{"contract", NewContractError("start", ErrMissingProgressCallback), "start: contract violation: progress callback is not set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContractError_Unwrap(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("session: %w", NewContractError("reverse", ErrNotConfigured))

	if !errors.Is(err, ErrNotConfigured) {
		t.Error("errors.Is must reach the sentinel through the wrapper")
	}
	if errors.Is(err, ErrMissingProgressCallback) {
		t.Error("unrelated sentinel matched")
	}
	var ce *ContractError
	if !errors.As(err, &ce) || ce.Op != "reverse" {
		t.Errorf("errors.As = %v, op = %v", ce != nil, ce)
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	if WrapError(nil, "ignored %d", 1) != nil {
		t.Fatal("wrapping nil must return nil")
	}

	base := NewConfigError("bad preset")
	err := WrapError(base, "profile %s", "slide-in")
	if got := err.Error(); got != "profile slide-in: bad preset" {
		t.Errorf("Error() = %q", got)
	}
	var ce ConfigError
	if !errors.As(err, &ce) {
		t.Error("wrapped ConfigError must stay matchable")
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("other"), false},
		{context.Canceled, true},
		{fmt.Errorf("wait: %w", context.DeadlineExceeded), true},
	}
	for _, tt := range tests {
		if got := IsContextError(tt.err); got != tt.want {
			t.Errorf("IsContextError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitErrorGeneric},
		{"config", NewConfigError("x"), ExitErrorConfig},
		{"wrapped config", fmt.Errorf("load: %w", NewConfigError("x")), ExitErrorConfig},
		{"validation", ValidationError{Field: "f", Message: "m"}, ExitErrorConfig},
		{"contract", NewContractError("start", ErrNotConfigured), ExitErrorContract},
		{"timeout", TimeoutError{Operation: "play", Limit: time.Second}, ExitErrorTimeout},
		{"deadline", context.DeadlineExceeded, ExitErrorTimeout},
		{"canceled", fmt.Errorf("play: %w", context.Canceled), ExitErrorCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

type bracketColors struct{}

func (bracketColors) Red() string    { return "<r>" }
func (bracketColors) Yellow() string { return "<y>" }
func (bracketColors) Reset() string  { return "</>" }

func TestHandleError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		colors   ColorProvider
		wantCode int
		wantOut  string
	}{
		{"nil", nil, nil, ExitSuccess, ""},
		{"timeout", TimeoutError{Operation: "play", Limit: time.Second}, nil, ExitErrorTimeout, "Status: Timeout. operation \"play\" timed out after 1s\n"},
		{"canceled", context.Canceled, nil, ExitErrorCanceled, "Status: Canceled by user.\n"},
		{"config colored", NewConfigError("bad"), bracketColors{}, ExitErrorConfig, "<r>Status: Failure.</> bad\n"},
		{"timeout colored", context.DeadlineExceeded, bracketColors{}, ExitErrorTimeout, "<y>Status: Timeout.</> context deadline exceeded\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if got := HandleError(tt.err, &buf, tt.colors); got != tt.wantCode {
				t.Errorf("code = %d, want %d", got, tt.wantCode)
			}
			if got := buf.String(); got != tt.wantOut {
				t.Errorf("output = %q, want %q", got, tt.wantOut)
			}
		})
	}
}

func TestExitCodes_Distinct(t *testing.T) {
	t.Parallel()
	codes := []int{ExitSuccess, ExitErrorGeneric, ExitErrorTimeout, ExitErrorContract, ExitErrorConfig, ExitErrorCanceled}
	seen := make(map[int]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("exit code %d is used twice", c)
		}
		seen[c] = true
	}
	if ExitErrorCanceled != 128+2 {
		t.Error("cancellation must follow the 128+SIGINT convention")
	}
}
