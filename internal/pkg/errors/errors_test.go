package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without wrapped error",
			err:  New(CodeMalformedStream, "truncated id"),
			want: "MALFORMED_STREAM: truncated id",
		},
		{
			name: "with wrapped error",
			err:  Wrap(CodeInternal, "something failed", errors.New("underlying")),
			want: "INTERNAL_ERROR: something failed: underlying",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Wrap(CodeInternal, "wrapped", underlying)

	if unwrapped := err.Unwrap(); unwrapped != underlying {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, underlying)
	}
}

func TestAppError_WithDetail(t *testing.T) {
	err := New(CodeValidation, "invalid").
		WithDetail("field", "quality_level").
		WithDetail("reason", "out of range")

	if err.Details["field"] != "quality_level" {
		t.Errorf("Details[field] = %s, want quality_level", err.Details["field"])
	}

	if err.Details["reason"] != "out of range" {
		t.Errorf("Details[reason] = %s, want out of range", err.Details["reason"])
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("UnknownVariantError", func(t *testing.T) {
		err := UnknownVariantError("precision")
		if err.Code != CodeUnknownVariant {
			t.Errorf("Code = %s, want %s", err.Code, CodeUnknownVariant)
		}
		if err.Details["name"] != "precision" {
			t.Errorf("Details[name] = %s, want precision", err.Details["name"])
		}
	})

	t.Run("DuplicateRegistrationError", func(t *testing.T) {
		err := DuplicateRegistrationError("recall")
		if err.Code != CodeDuplicateRegistration {
			t.Errorf("Code = %s, want %s", err.Code, CodeDuplicateRegistration)
		}
	})

	t.Run("NotFoundError", func(t *testing.T) {
		err := NotFoundError("result q1")
		if err.Message != "result q1 not found" {
			t.Errorf("Message = %s, want 'result q1 not found'", err.Message)
		}
	})

	t.Run("InternalError", func(t *testing.T) {
		underlying := errors.New("disk full")
		err := InternalError("failed", underlying)
		if err.Code != CodeInternal {
			t.Errorf("Code = %s, want %s", err.Code, CodeInternal)
		}
		if err.Unwrap() != underlying {
			t.Error("Underlying error not preserved")
		}
	})
}

func TestPredicates_MatchWrappedErrors(t *testing.T) {
	unknown := fmt.Errorf("decoding result: %w", UnknownVariantError("ndcg"))
	malformed := fmt.Errorf("reading: %w", MalformedStreamError("short read"))

	if !IsUnknownVariant(unknown) {
		t.Error("IsUnknownVariant(wrapped) = false, want true")
	}
	if IsMalformedStream(unknown) {
		t.Error("IsMalformedStream(unknown variant) = true, want false")
	}
	if !IsMalformedStream(malformed) {
		t.Error("IsMalformedStream(wrapped) = false, want true")
	}
	if IsDuplicateRegistration(errors.New("standard error")) {
		t.Error("IsDuplicateRegistration(standard error) = true, want false")
	}
	if CodeOf(nil) != "" {
		t.Errorf("CodeOf(nil) = %q, want empty", CodeOf(nil))
	}
}

func TestIsNotFound(t *testing.T) {
	notFound := NotFoundError("test")
	other := ValidationError("test")

	if !IsNotFound(notFound) {
		t.Error("IsNotFound(NotFoundError) = false, want true")
	}

	if IsNotFound(other) {
		t.Error("IsNotFound(ValidationError) = true, want false")
	}

	if IsNotFound(errors.New("standard error")) {
		t.Error("IsNotFound(standard error) = true, want false")
	}
}

func TestIsValidation(t *testing.T) {
	validation := ValidationError("test")
	other := NotFoundError("test")

	if !IsValidation(validation) {
		t.Error("IsValidation(ValidationError) = false, want true")
	}

	if IsValidation(other) {
		t.Error("IsValidation(NotFoundError) = true, want false")
	}
}
