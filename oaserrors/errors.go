package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrPathTraversal indicates a path traversal attempt was blocked.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrConversion indicates a dialect rendering failure.
	ErrConversion = errors.New("conversion error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrTypeNotFound indicates a controller or type requested by exact name is unknown.
	ErrTypeNotFound = errors.New("type not found")

	// ErrGeneration indicates document generation failed.
	ErrGeneration = errors.New("generation error")

	// ErrDuplicateOperation indicates a (path, method) pair was registered twice.
	ErrDuplicateOperation = errors.New("duplicate operation")

	// ErrMultipleBodyParameters indicates an operation has more than one body parameter.
	ErrMultipleBodyParameters = errors.New("multiple body parameters")

	// ErrSchemaGeneration indicates a schema could not be produced for a type.
	ErrSchemaGeneration = errors.New("schema generation error")
)

// ParseError represents a failure to parse an OpenAPI document or an API
// description file.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReferenceError represents a failure to resolve a $ref.
// This includes missing references, circular references, and path traversal attempts.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// RefType indicates the reference type: "local" or "file"
	RefType string
	// IsCircular is true if this error is due to a circular reference
	IsCircular bool
	// IsPathTraversal is true if this error is due to a path traversal attempt
	IsPathTraversal bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.IsCircular {
		msg = "circular reference"
	} else if e.IsPathTraversal {
		msg = "path traversal detected"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also ErrCircularReference or ErrPathTraversal
// when appropriate flags are set.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	if target == ErrCircularReference && e.IsCircular {
		return true
	}
	if target == ErrPathTraversal && e.IsPathTraversal {
		return true
	}
	return false
}

// ConversionError represents a failure rendering a document in a dialect.
type ConversionError struct {
	// TargetDialect is the dialect being rendered (e.g., "2.0", "3.0.0")
	TargetDialect string
	// Path is the JSON path where rendering failed
	Path string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConversionError) Error() string {
	msg := "conversion error"
	if e.TargetDialect != "" {
		msg += fmt.Sprintf(" (to %s)", e.TargetDialect)
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// LookupError reports a name requested explicitly (not via wildcard) that
// matched nothing.
type LookupError struct {
	// Kind is what was looked up: "controller" or "type"
	Kind string
	// Name is the requested name
	Name string
}

// Error returns a human-readable error message.
func (e *LookupError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "type"
	}
	return fmt.Sprintf("%s not found: %s", kind, e.Name)
}

// Is reports whether target matches this error type.
func (e *LookupError) Is(target error) bool {
	return target == ErrTypeNotFound
}
