// Package openapi is the document model produced by the oasgen generator.
//
// A [Document] holds an ordered path table, a named-schema definitions table,
// and document-level metadata. The model is dialect-neutral: the same document
// renders as Swagger 2.0 or OpenAPI 3.0 via [Document.ToJSON] and
// [Document.ToYAML], and either dialect parses back into it via [FromJSON],
// [FromYAML], and [FromFile].
//
// # Dialect differences
//
// Swagger 2.0 carries request payloads as a single "body" parameter (or
// "formData" parameters), stores named schemas under "definitions", and marks
// nullability with the "x-nullable" extension. OpenAPI 3.0 uses a
// "requestBody", stores named schemas under "components/schemas", and has a
// first-class "nullable" keyword. The model stores the body as a parameter of
// kind [ParameterBody]; [Operation.RequestBody] exposes the OpenAPI 3.0 view of
// the same storage, so edits through either view are visible through the other.
//
// # References
//
// Parsing resolves every schema "$ref" (same-file and cross-file) into a live
// [Schema.Reference] pointer. Use [Schema.ActualSchema] to follow the chain.
//
// # Example
//
//	doc, err := openapi.FromFile("api.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := doc.ToJSON(openapi.OpenAPI3)
package openapi
