// Package schemagen turns apimeta types into OpenAPI schemas.
//
// A Generator owns the definitions table of one document. Named objects,
// interfaces and enums are registered once and every use returns a fresh
// $ref, so callers may set nullability or descriptions on what they get back
// without touching the shared definition:
//
//	gen, err := schemagen.New(doc)
//	s, err := gen.GenerateWithReferenceAndNullability(userType, true)
//	// s.Ref == "#/definitions/User", s.Nullable == true
//
// A type that embeds a base renders as allOf of the base reference and its
// own properties. Distinct types that would share a name are told apart with
// numeric suffixes (User, User2).
//
// # Naming
//
// Definitions are named after the type alone by default. WithSchemaNaming
// selects a package-qualified strategy, and WithSchemaNameTemplate or
// WithSchemaNameFunc take over entirely. Generic instances are named with
// their arguments, PageOfUser by default (see GenericNamingStrategy).
package schemagen
