package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/erraggy/oasgen/oaserrors"
)

// ComponentType identifies the type of component where an error occurred.
type ComponentType string

const (
	// ComponentController indicates an error in a controller or API description.
	ComponentController ComponentType = "controller"
	// ComponentOperation indicates an error in an operation definition.
	ComponentOperation ComponentType = "operation"
	// ComponentParameter indicates an error in a parameter definition.
	ComponentParameter ComponentType = "parameter"
	// ComponentResponse indicates an error in a response definition.
	ComponentResponse ComponentType = "response"
	// ComponentProcessor indicates an error raised by a processor.
	ComponentProcessor ComponentType = "processor"
	// ComponentDocument indicates an error in a document-level step.
	ComponentDocument ComponentType = "document"
)

// BuilderError represents a structured error from the builder package.
// It identifies the operation, path, method, parameter, or response at
// fault so callers can report which part of the input failed.
type BuilderError struct {
	// Component is the type of component where the error occurred.
	Component ComponentType
	// Method is the HTTP method, upper case.
	Method string
	// Path is the API path.
	Path string
	// OperationID is the operation identifier (if applicable).
	OperationID string
	// Parameter is the parameter name (for parameter errors).
	Parameter string
	// Response is the status code (for response errors).
	Response string
	// Message describes the error.
	Message string
	// Kind is the generation sentinel the error matches besides
	// oaserrors.ErrGeneration, for example oaserrors.ErrDuplicateOperation.
	Kind error
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface with a detailed, formatted message.
func (e *BuilderError) Error() string {
	var sb strings.Builder
	sb.WriteString("builder")

	if e.Component != "" {
		sb.WriteString(": ")
		sb.WriteString(string(e.Component))
	}

	if e.Method != "" && e.Path != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Method)
		sb.WriteString(" ")
		sb.WriteString(e.Path)
	} else if e.Path != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Path)
	}

	if e.OperationID != "" {
		sb.WriteString(" [operationId: ")
		sb.WriteString(e.OperationID)
		sb.WriteString("]")
	}

	if e.Parameter != "" {
		sb.WriteString(" parameter ")
		sb.WriteString(e.Parameter)
	}
	if e.Response != "" {
		sb.WriteString(" response ")
		sb.WriteString(e.Response)
	}

	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}

	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}

	return sb.String()
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *BuilderError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type. Every BuilderError
// matches oaserrors.ErrGeneration; it also matches its Kind.
func (e *BuilderError) Is(target error) bool {
	if target == oaserrors.ErrGeneration {
		return true
	}
	return e.Kind != nil && errors.Is(e.Kind, target)
}

// Location returns a descriptive location string.
func (e *BuilderError) Location() string {
	if e.Method != "" && e.Path != "" {
		return fmt.Sprintf("%s %s", e.Method, e.Path)
	}
	if e.Path != "" {
		return e.Path
	}
	if e.Component != "" {
		return string(e.Component)
	}
	return "unknown"
}

// newDuplicateOperationError creates an error for a (path, method) pair
// registered twice.
func newDuplicateOperationError(method, path, operationID string, cause error) *BuilderError {
	return &BuilderError{
		Component:   ComponentOperation,
		Method:      strings.ToUpper(method),
		Path:        path,
		OperationID: operationID,
		Message:     fmt.Sprintf("duplicate operation %s %s", strings.ToUpper(method), path),
		Kind:        oaserrors.ErrDuplicateOperation,
		Cause:       cause,
	}
}

// newMultipleBodyError creates an error for an operation with more than one
// body parameter.
func newMultipleBodyError(method, path, operationID string, names []string) *BuilderError {
	return &BuilderError{
		Component:   ComponentOperation,
		Method:      strings.ToUpper(method),
		Path:        path,
		OperationID: operationID,
		Message: fmt.Sprintf("operation %q has %d body parameters (%s)",
			operationID, len(names), strings.Join(names, ", ")),
		Kind: oaserrors.ErrMultipleBodyParameters,
	}
}

// newParameterSchemaError tags a schema generation failure with the
// operation and parameter it belongs to.
func newParameterSchemaError(method, path, operationID, param string, cause error) *BuilderError {
	return &BuilderError{
		Component:   ComponentParameter,
		Method:      strings.ToUpper(method),
		Path:        path,
		OperationID: operationID,
		Parameter:   param,
		Message:     "schema generation failed",
		Kind:        oaserrors.ErrSchemaGeneration,
		Cause:       cause,
	}
}

// newResponseSchemaError tags a schema generation failure with the
// operation and status code it belongs to.
func newResponseSchemaError(method, path, operationID, status string, cause error) *BuilderError {
	return &BuilderError{
		Component:   ComponentResponse,
		Method:      strings.ToUpper(method),
		Path:        path,
		OperationID: operationID,
		Response:    status,
		Message:     "schema generation failed",
		Kind:        oaserrors.ErrSchemaGeneration,
		Cause:       cause,
	}
}

// newProcessorError tags a processor failure with the operation it ran on.
func newProcessorError(method, path, operationID, message string, cause error) *BuilderError {
	return &BuilderError{
		Component:   ComponentProcessor,
		Method:      strings.ToUpper(method),
		Path:        path,
		OperationID: operationID,
		Message:     message,
		Kind:        oaserrors.ErrGeneration,
		Cause:       cause,
	}
}
