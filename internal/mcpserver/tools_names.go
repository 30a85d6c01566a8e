package mcpserver

import (
	"context"

	"github.com/erraggy/oasgen/generator"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type clientNamesInput struct {
	Document sourceInput `json:"document"           jsonschema:"The Swagger 2.0 or OpenAPI 3.0 document"`
	Strategy string      `json:"strategy,omitempty" jsonschema:"Naming strategy: SingleClientFromOperationId (default), MultipleClientsFromOperationId, MultipleClientsFromPathSegments, MultipleClientsFromFirstTagAndOperationId, or MultipleClientsFromFirstTagAndPathSegments"`
}

type methodName struct {
	Name        string `json:"name"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	OperationID string `json:"operation_id,omitempty"`
}

type clientName struct {
	Name    string       `json:"name"`
	Methods []methodName `json:"methods"`
}

type clientNamesOutput struct {
	Strategy        string       `json:"strategy"`
	MultipleClients bool         `json:"multiple_clients"`
	Clients         []clientName `json:"clients,omitempty"`
	Strategies      []string     `json:"strategies"`
}

func handleClientNames(_ context.Context, _ *mcp.CallToolRequest, input clientNamesInput) (*mcp.CallToolResult, clientNamesOutput, error) {
	names, err := generator.ByName(input.Strategy)
	if err != nil {
		return errResult(err), clientNamesOutput{}, nil
	}
	doc, _, err := input.Document.document()
	if err != nil {
		return errResult(err), clientNamesOutput{}, nil
	}

	strategy := input.Strategy
	if strategy == "" {
		strategy = generator.StrategySingleClientFromOperationID
	}
	output := clientNamesOutput{
		Strategy:        strategy,
		MultipleClients: names.SupportsMultipleClients(),
		Strategies:      generator.Strategies(),
	}

	plans := generator.PlanClients(doc, names)
	output.Clients = makeSlice[clientName](len(plans))
	for _, p := range plans {
		c := clientName{Name: p.TypeName, Methods: make([]methodName, 0, len(p.Methods))}
		for _, m := range p.Methods {
			c.Methods = append(c.Methods, methodName{
				Name:        m.Name,
				Method:      m.HTTPMethod,
				Path:        m.Path,
				OperationID: m.OperationID,
			})
		}
		output.Clients = append(output.Clients, c)
	}
	return nil, output, nil
}
