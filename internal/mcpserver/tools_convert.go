package mcpserver

import (
	"context"

	"github.com/erraggy/oasgen/openapi"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type convertInput struct {
	Document sourceInput `json:"document"          jsonschema:"The Swagger 2.0 or OpenAPI 3.0 document to convert"`
	Target   string      `json:"target,omitempty"  jsonschema:"Target dialect (2.0 or 3.0). Defaults to the other dialect."`
	Format   string      `json:"format,omitempty"  jsonschema:"Output format: json (default) or yaml"`
	Output   string      `json:"output,omitempty"  jsonschema:"File path to write converted document. If omitted the document is returned inline."`
}

type convertOutput struct {
	SourceVersion string `json:"source_version"`
	TargetVersion string `json:"target_version"`
	Operations    int    `json:"operations"`
	Definitions   int    `json:"definitions"`
	WrittenTo     string `json:"written_to,omitempty"`
	Document      string `json:"document,omitempty"`
}

func handleConvert(_ context.Context, _ *mcp.CallToolRequest, input convertInput) (*mcp.CallToolResult, convertOutput, error) {
	doc, _, err := input.Document.document()
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	target := otherDialect(doc.SourceDialect)
	if input.Target != "" {
		target, err = openapi.ParseDialect(input.Target)
		if err != nil {
			return errResult(err), convertOutput{}, nil
		}
	}

	data, err := doc.Marshal(target, input.Format)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	output := convertOutput{
		SourceVersion: doc.SourceDialect.String(),
		TargetVersion: target.String(),
		Operations:    len(doc.Operations()),
		Definitions:   len(doc.Definitions),
	}
	output.WrittenTo, err = writeOutput(input.Output, data)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}
	if output.WrittenTo == "" {
		output.Document = string(data)
	}
	return nil, output, nil
}

func otherDialect(d openapi.Dialect) openapi.Dialect {
	if d == openapi.Swagger2 {
		return openapi.OpenAPI3
	}
	return openapi.Swagger2
}
