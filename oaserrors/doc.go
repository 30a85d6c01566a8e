// Package oaserrors provides structured error types for the oasgen library.
//
// Import path: github.com/erraggy/oasgen/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// so callers can tell a malformed input document apart from a broken API surface
// description or an invalid option.
//
// # Error Types
//
//   - [ParseError]: YAML/JSON parsing failures and structural issues
//   - [ReferenceError]: $ref resolution failures, circular references, path traversal
//   - [ConversionError]: failures rendering a document in a target dialect
//   - [ConfigError]: invalid configuration or input options
//   - [LookupError]: a controller or type requested by exact name does not exist
//
// Document generation failures are reported by builder.BuilderError, which matches
// [ErrGeneration] plus one of the generation sentinels below.
//
// # Sentinel Errors
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrCircularReference]: Matches [ReferenceError] with IsCircular=true
//   - [ErrPathTraversal]: Matches [ReferenceError] with IsPathTraversal=true
//   - [ErrConversion]: Matches any [ConversionError]
//   - [ErrConfig]: Matches any [ConfigError]
//   - [ErrTypeNotFound]: Matches any [LookupError]
//   - [ErrGeneration]: Matches any generation failure
//   - [ErrDuplicateOperation]: a (path, method) pair was registered twice
//   - [ErrMultipleBodyParameters]: an operation has more than one body parameter
//   - [ErrSchemaGeneration]: a parameter or response type could not be described
//
// # Usage Examples
//
//	doc, err := b.Generate(ctx, src)
//	if errors.Is(err, oaserrors.ErrDuplicateOperation) {
//	    // Two actions map to the same path and verb
//	}
//
//	var refErr *oaserrors.ReferenceError
//	if errors.As(err, &refErr) {
//	    fmt.Printf("Failed to resolve ref: %s\n", refErr.Ref)
//	}
package oaserrors
