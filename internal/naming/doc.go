// Package naming provides the identifier case conversions shared by oasgen
// packages.
//
// Words are split at separators, lower-to-upper transitions, and the end of
// an acronym ("HTTPServer" splits into "HTTP" and "Server"). The converters
// build on that split:
//   - schemagen: package-qualified schema names
//   - builder: operation IDs and tag names derived from controller names
//   - generator: Go identifiers for client types, methods, and fields
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
