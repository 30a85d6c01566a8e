// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasgen capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/erraggy/oasgen"
	"github.com/erraggy/oasgen/internal/fileutil"
	"github.com/erraggy/oasgen/internal/pathutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `oasgen MCP server: generates Swagger 2.0 and OpenAPI 3.0 documents from API description files, converts between the two dialects, validates documents, and generates Go clients.

Configuration: defaults are configurable via OASGEN_* environment variables set in your MCP client config.

Key settings:
- OASGEN_DIALECT (default: 3.0): output dialect of generate_document
- OASGEN_ADD_MISSING_PATH_PARAMETERS (default: false): synthesize unbound path placeholders as string parameters
- OASGEN_CACHE_SIZE (default: 16): parsed inputs kept per session
- OASGEN_MAX_INLINE_SIZE (default: 10485760): size limit for inline content in bytes

Caching: parsed inputs are cached per session. File entries use path+mtime as key (auto-invalidated on change); inline content is keyed by its SHA-256 hash.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasgen", Version: oasgen.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_document",
		Description: "Generate a Swagger 2.0 or OpenAPI 3.0 document from an API description file (types, controllers, and optionally API descriptions, in YAML or JSON). Returns the document inline, or writes it to output. Set validate=true to check the result against its dialect's rules.",
	}, handleGenerateDocument)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_document",
		Description: "Convert a document between Swagger 2.0 and OpenAPI 3.0. The target defaults to the other dialect. References are rewritten between #/definitions/ and #/components/schemas/.",
	}, handleConvert)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "client_names",
		Description: "List the client types and method names a Go client generated from a document would have, for one of the built-in naming strategies. Use this to preview the effect of a strategy before generate_client.",
	}, handleClientNames)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_client",
		Description: "Generate a Go client (types.go and client.go) from a document. Requires output_dir. Returns a manifest of generated files.",
	}, handleGenerateClient)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_document",
		Description: "Validate a Swagger 2.0 or OpenAPI 3.0 document against the structural rules of its dialect.",
	}, handleValidate)
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// writeOutput writes data to path when one is given and reports where it
// went; otherwise the caller returns data inline.
func writeOutput(path string, data []byte) (string, error) {
	if path == "" {
		return "", nil
	}
	path, err := pathutil.OutputFile(path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, fileutil.OutputFile); err != nil { //nolint:gosec // G306: output documents are not secrets
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return path, nil
}
