package mcpserver

import (
	"context"

	"github.com/erraggy/oasgen/openapi"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type validateInput struct {
	Document sourceInput `json:"document" jsonschema:"The Swagger 2.0 or OpenAPI 3.0 document to validate"`
}

type validateOutput struct {
	Valid   bool   `json:"valid"`
	Version string `json:"version"`
	Error   string `json:"error,omitempty"`
}

func handleValidate(ctx context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	doc, raw, err := input.Document.document()
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	// The validator reads JSON; YAML input is validated in its re-rendered form.
	data := raw
	if !isJSON(raw) {
		data, err = doc.ToJSON(doc.SourceDialect)
		if err != nil {
			return errResult(err), validateOutput{}, nil
		}
	}

	output := validateOutput{Valid: true, Version: doc.SourceDialect.String()}
	if err := openapi.Validate(ctx, data, doc.SourceDialect); err != nil {
		output.Valid = false
		output.Error = sanitizeError(err)
	}
	return nil, output, nil
}

// isJSON reports whether data starts with a JSON object.
func isJSON(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}
