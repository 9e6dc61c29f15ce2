package util

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := NewValidationError("invalid mask")
		if err.Error() != "validation failed: invalid mask" {
			t.Errorf("Error() = %q", err.Error())
		}
		if err.Message() != "invalid mask" {
			t.Errorf("Message() = %q, want %q", err.Message(), "invalid mask")
		}
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("ValidationError should unwrap to ErrValidationFailed")
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := NewValidationError("field1 is required", "field2 is invalid")
		msg := err.Error()
		if !strings.Contains(msg, "field1") || !strings.Contains(msg, "field2") {
			t.Errorf("Error message should contain all errors: %s", msg)
		}
	})

	t.Run("field error", func(t *testing.T) {
		err := NewFieldError("nextHop", "next hop address is invalid")
		if err.Field != "nextHop" {
			t.Errorf("Field = %q, want %q", err.Field, "nextHop")
		}
	})
}

func TestValidationBuilder(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		v := &ValidationBuilder{}
		v.Add(true, "this should not appear")
		if v.HasErrors() {
			t.Error("Should not have errors when all conditions are true")
		}
		if err := v.Build(); err != nil {
			t.Errorf("Build() should return nil when no errors: %v", err)
		}
	})

	t.Run("chaining", func(t *testing.T) {
		err := (&ValidationBuilder{}).
			Add(false, "error1").
			Add(true, "passes").
			AddErrorf("error%d", 2).
			Build()
		if err == nil {
			t.Fatal("Expected error")
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Expected *ValidationError, got %T", err)
		}
		if len(ve.Errors) != 2 {
			t.Errorf("Expected 2 errors, got %d", len(ve.Errors))
		}
	})
}

func TestDispatchError(t *testing.T) {
	tests := []struct {
		name string
		err  *DispatchError
		want string
	}{
		{
			name: "start failure",
			err:  NewDispatchError("script", errors.New("exec: \"py\": executable file not found")),
			want: "script agent: exec: \"py\": executable file not found",
		},
		{
			name: "non-zero exit",
			err:  &DispatchError{Agent: "script", ExitCode: 2, Output: "connection refused"},
			want: "script agent exited with status 2 (connection refused)",
		},
		{
			name: "no cause",
			err:  &DispatchError{Agent: "console", ExitCode: -1},
			want: "console agent failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, ErrDispatchFailed) {
				t.Error("DispatchError should unwrap to ErrDispatchFailed")
			}
		})
	}
}

func TestDispatchErrorWrapsCause(t *testing.T) {
	err := NewDispatchError("ssh", context.DeadlineExceeded)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("DispatchError should expose its cause to errors.Is")
	}
	if errors.Is(err, ErrValidationFailed) {
		t.Error("DispatchError must not match ErrValidationFailed")
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrValidationFailed,
		ErrDispatchFailed,
		ErrAgentTimeout,
		ErrUnbalancedModes,
	}

	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v == %v", err1, err2)
			}
		}
	}
}
