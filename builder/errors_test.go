package builder

import (
	"errors"
	"fmt"
	"testing"

	"github.com/erraggy/oasgen/oaserrors"
	"github.com/stretchr/testify/assert"
)

func TestBuilderError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *BuilderError
		contains []string
	}{
		{
			name:     "duplicate operation",
			err:      newDuplicateOperationError("get", "/users", "Users_Get", fmt.Errorf("%w: GET /users", oaserrors.ErrDuplicateOperation)),
			contains: []string{"builder", "operation", "GET /users", "[operationId: Users_Get]", "duplicate"},
		},
		{
			name:     "multiple bodies",
			err:      newMultipleBodyError("post", "/users", "Users_Create", []string{"a", "b"}),
			contains: []string{"POST /users", `operation "Users_Create" has 2 body parameters (a, b)`},
		},
		{
			name:     "parameter schema",
			err:      newParameterSchemaError("get", "/users", "Users_Get", "filter", errors.New("no schema")),
			contains: []string{"parameter filter", "schema generation failed", "no schema"},
		},
		{
			name:     "response schema",
			err:      newResponseSchemaError("get", "/users", "Users_Get", "200", errors.New("no schema")),
			contains: []string{"response 200", "schema generation failed", "no schema"},
		},
		{
			name:     "processor",
			err:      newProcessorError("delete", "/users/{id}", "Users_Delete", "operation processor failed", errors.New("boom")),
			contains: []string{"builder: processor DELETE /users/{id}", "operation processor failed: boom"},
		},
		{
			name:     "document",
			err:      &BuilderError{Component: ComponentDocument, Message: "document processor failed"},
			contains: []string{"builder: document: document processor failed"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				assert.Contains(t, msg, s)
			}
		})
	}
}

func TestBuilderError_Is(t *testing.T) {
	cause := errors.New("no schema")
	err := newResponseSchemaError("get", "/users", "Users_Get", "200", cause)

	assert.ErrorIs(t, err, oaserrors.ErrGeneration)
	assert.ErrorIs(t, err, oaserrors.ErrSchemaGeneration)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, oaserrors.ErrDuplicateOperation)

	wrapped := fmt.Errorf("generate: %w", newMultipleBodyError("post", "/x", "X_Post", []string{"a", "b"}))
	assert.ErrorIs(t, wrapped, oaserrors.ErrMultipleBodyParameters)

	var be *BuilderError
	assert.True(t, errors.As(wrapped, &be))
	assert.Equal(t, "X_Post", be.OperationID)
}

func TestBuilderError_Location(t *testing.T) {
	tests := []struct {
		err  *BuilderError
		want string
	}{
		{err: &BuilderError{Method: "GET", Path: "/users"}, want: "GET /users"},
		{err: &BuilderError{Path: "/users"}, want: "/users"},
		{err: &BuilderError{Component: ComponentDocument}, want: "document"},
		{err: &BuilderError{}, want: "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Location())
	}
}
