package oaserrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := &ParseError{
			Path:    "/path/to/api.yaml",
			Line:    42,
			Message: "invalid syntax",
			Cause:   cause,
		}

		msg := err.Error()
		if msg != "parse error in /path/to/api.yaml at line 42: invalid syntax: underlying error" {
			t.Errorf("unexpected error message: %s", msg)
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &ParseError{}
		if err.Error() != "parse error" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &ParseError{Cause: cause}
		//nolint:errorlint // testing pointer identity
		if unwrapped := err.Unwrap(); unwrapped != cause {
			t.Error("Unwrap should return cause")
		}
	})

	t.Run("Is matches ErrParse only", func(t *testing.T) {
		err := &ParseError{}
		if !errors.Is(err, ErrParse) {
			t.Error("ParseError should match ErrParse")
		}
		if errors.Is(err, ErrReference) {
			t.Error("ParseError should not match ErrReference")
		}
	})
}

func TestReferenceError(t *testing.T) {
	t.Run("Error message for normal reference error", func(t *testing.T) {
		err := &ReferenceError{
			Ref:     "#/definitions/Pet",
			RefType: "local",
			Message: "not found",
		}
		expected := "reference error: #/definitions/Pet: not found"
		if err.Error() != expected {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message for circular reference", func(t *testing.T) {
		err := &ReferenceError{
			Ref:        "#/components/schemas/Node",
			IsCircular: true,
		}
		if err.Error() != "circular reference: #/components/schemas/Node" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
		if !errors.Is(err, ErrCircularReference) {
			t.Error("circular ReferenceError should match ErrCircularReference")
		}
	})

	t.Run("Path traversal matches its sentinel", func(t *testing.T) {
		err := &ReferenceError{
			Ref:             "../../../etc/passwd",
			IsPathTraversal: true,
		}
		if !errors.Is(err, ErrPathTraversal) {
			t.Error("should match ErrPathTraversal")
		}
		if !errors.Is(err, ErrReference) {
			t.Error("should match ErrReference")
		}
		if errors.Is(err, ErrCircularReference) {
			t.Error("should not match ErrCircularReference")
		}
	})
}

func TestConversionError(t *testing.T) {
	err := &ConversionError{
		TargetDialect: "3.0.0",
		Path:          "paths./pets.post",
		Message:       "unsupported collection format",
	}
	expected := "conversion error (to 3.0.0) at paths./pets.post: unsupported collection format"
	if err.Error() != expected {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrConversion) {
		t.Error("ConversionError should match ErrConversion")
	}
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := &ConfigError{Option: "dialect", Value: "4.0", Message: "unknown dialect"}
		if err.Error() != "configuration error for dialect (value: 4.0): unknown dialect" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches ErrConfig", func(t *testing.T) {
		if !errors.Is(&ConfigError{}, ErrConfig) {
			t.Error("ConfigError should match ErrConfig")
		}
	})
}

func TestLookupError(t *testing.T) {
	err := &LookupError{Kind: "controller", Name: "OrdersController"}
	if err.Error() != "controller not found: OrdersController" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(fmt.Errorf("select: %w", err), ErrTypeNotFound) {
		t.Error("wrapped LookupError should match ErrTypeNotFound")
	}
	if (&LookupError{Name: "X"}).Error() != "type not found: X" {
		t.Error("empty kind should default to type")
	}
}

func TestSentinelErrors(t *testing.T) {
	// Verify all sentinel errors are distinct
	sentinels := []error{
		ErrParse,
		ErrReference,
		ErrCircularReference,
		ErrPathTraversal,
		ErrConversion,
		ErrConfig,
		ErrTypeNotFound,
		ErrGeneration,
		ErrDuplicateOperation,
		ErrMultipleBodyParameters,
		ErrSchemaGeneration,
	}

	for i, s1 := range sentinels {
		for j, s2 := range sentinels {
			if i != j && errors.Is(s1, s2) {
				t.Errorf("sentinel errors should be distinct: %v should not match %v", s1, s2)
			}
		}
	}
}

func TestErrorChaining(t *testing.T) {
	t.Run("deeply wrapped ParseError", func(t *testing.T) {
		parseErr := &ParseError{Path: "api.yaml", Message: "invalid"}
		wrapped1 := fmt.Errorf("layer 1: %w", parseErr)
		wrapped2 := fmt.Errorf("layer 2: %w", wrapped1)

		if !errors.Is(wrapped2, ErrParse) {
			t.Error("deeply wrapped ParseError should match ErrParse")
		}

		var extracted *ParseError
		if !errors.As(wrapped2, &extracted) {
			t.Fatal("errors.As should work through wrapping")
		}
		if extracted.Path != "api.yaml" {
			t.Errorf("unexpected path: %s", extracted.Path)
		}
	})

	t.Run("error wrapping with Cause", func(t *testing.T) {
		rootCause := errors.New("file missing")
		refErr := &ReferenceError{Ref: "models.json#/definitions/Pet", Cause: rootCause}
		wrapped := fmt.Errorf("failed to load: %w", refErr)

		if !errors.Is(wrapped, rootCause) {
			t.Error("should be able to find root cause through Unwrap chain")
		}
	})
}
