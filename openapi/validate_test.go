package openapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_GeneratedDocument(t *testing.T) {
	doc := sampleDocument()
	for _, dialect := range []Dialect{Swagger2, OpenAPI3} {
		t.Run(dialect.String(), func(t *testing.T) {
			require.NoError(t, doc.Validate(context.Background(), dialect))
		})
	}
}

// TestValidate_MissingPathParameter verifies an undeclared path placeholder
// is reported.
func TestValidate_MissingPathParameter(t *testing.T) {
	doc := New()
	doc.Info = Info{Title: "Broken", Version: "1"}
	op := &Operation{OperationID: "Items_Get"}
	op.SetResponse("200", &Response{Description: "ok"})
	require.NoError(t, doc.AddOperation("/items/{id}", "get", op))

	err := doc.Validate(context.Background(), OpenAPI3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path parameter")
}

func TestValidate_UnsupportedDialect(t *testing.T) {
	assert.Error(t, Validate(context.Background(), []byte(`{}`), Dialect(0)))
}
