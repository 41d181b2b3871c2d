package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRecover_WithPanic(t *testing.T) {
	fit := func() (err error) {
		defer Recover(&err, "LogisticRegression.Fit")
		panic("mat: dimension mismatch")
	}

	err := fit()
	if err == nil {
		t.Fatal("Expected error from recovered panic, got nil")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}
	if panicErr.Operation != "LogisticRegression.Fit" {
		t.Errorf("Operation = %q", panicErr.Operation)
	}
	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}
	if panicErr.Error() != "panic in LogisticRegression.Fit: mat: dimension mismatch" {
		t.Errorf("unexpected message %q", panicErr.Error())
	}
}

func TestRecover_WithoutPanic(t *testing.T) {
	fit := func() (err error) {
		defer Recover(&err, "LogisticRegression.Fit")
		return nil
	}

	if err := fit(); err != nil {
		t.Fatalf("Expected no error when no panic occurs, got: %v", err)
	}
}

func TestRecover_WithExistingError(t *testing.T) {
	originalErr := fmt.Errorf("binding failed")

	fit := func() (err error) {
		defer Recover(&err, "LogisticRegression.Fit")
		err = originalErr
		panic("panic after error")
	}

	err := fit()
	if !strings.Contains(err.Error(), "panic in LogisticRegression.Fit") {
		t.Errorf("Error message should contain panic info: %s", err)
	}
	if !errors.Is(err, originalErr) {
		t.Error("Should be able to identify original error with errors.Is")
	}
}

func TestRecover_ErrorPanicValueUnwraps(t *testing.T) {
	err := SafeExecute("binding.Fit", func() error {
		panic(ErrSingularMatrix)
	})

	if !errors.Is(err, ErrSingularMatrix) {
		t.Errorf("expected panic value to be reachable, got %v", err)
	}
}

func TestSafeExecute(t *testing.T) {
	if err := SafeExecute("op", func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := fmt.Errorf("solver error")
	if err := SafeExecute("op", func() error { return want }); err != want {
		t.Fatalf("expected the function's error unchanged, got %v", err)
	}
}

func BenchmarkSafeExecute_NoPanic(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = SafeExecute("bench", func() error { return nil })
	}
}
