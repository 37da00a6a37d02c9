package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "WithoutCause",
			err:  New(ErrCodeDuplicateName, "sample %q already exists", "s1"),
			want: `DUPLICATE_NAME: sample "s1" already exists`,
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeNetwork, stderrors.New("connection refused"), "upload failed"),
			want: "NETWORK_ERROR: upload failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeSchema, "unknown field %q", "extra")
	if !Is(err, ErrCodeSchema) {
		t.Error("Is() = false, want true for matching code")
	}
	if Is(err, ErrCodeDuplicateName) {
		t.Error("Is() = true, want false for non-matching code")
	}
	if Is(stderrors.New("plain"), ErrCodeSchema) {
		t.Error("Is() = true, want false for plain error")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeDanglingReference, "file %q not in snapshot", "genome")
	outer := fmt.Errorf("mapping project: %w", inner)

	if !Is(outer, ErrCodeDanglingReference) {
		t.Error("Is() should unwrap through fmt.Errorf chains")
	}
	if got := GetCode(outer); got != ErrCodeDanglingReference {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeDanglingReference)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "write document")
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidRunTransition, "cannot move from Finished to Running")
	got := UserMessage(err)
	if strings.Contains(got, string(ErrCodeInvalidRunTransition)) {
		t.Errorf("UserMessage() = %q, should not contain the code prefix", got)
	}

	plain := stderrors.New("plain error")
	if got := UserMessage(plain); got != "plain error" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "plain error")
	}
}

func TestGetCodePlainError(t *testing.T) {
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}
