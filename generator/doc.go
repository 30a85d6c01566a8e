// Package generator turns a finished document into client-side artifacts.
//
// # Name Generators
//
// An [OperationNameGenerator] decides which client an operation belongs to
// and what its method is called. Five strategies are built in; [ByName]
// looks one up by name:
//
//   - [SingleClientFromOperationID]: one client, methods named after the operation ID
//   - [MultipleClientsFromOperationID]: "Client_Method" operation IDs split on the last underscore
//   - [MultipleClientsFromPathSegments]: client from the second to last literal path segment, method from the last
//   - [MultipleClientsFromFirstTagAndOperationID]: client from the first tag, method from the operation ID
//   - [MultipleClientsFromFirstTagAndPathSegments]: client from the first tag, method from all literal path segments
//
// When two operations of the same client end up with the same name, the
// operation ID strategies rename a "Get..." operation returning an array to
// "GetAll...", and the path strategies append the HTTP method.
//
// # Quick Start
//
//	names, _ := generator.ByName("MultipleClientsFromOperationId")
//	result, err := generator.GenerateClient(doc,
//		generator.WithPackageName("petstore"),
//		generator.WithNameGenerator(names),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := result.WriteFiles("./petstore"); err != nil {
//		log.Fatal(err)
//	}
//
// # Type Mapping
//
//   - string → string (date-time → time.Time, binary → []byte)
//   - integer → int64 (int32 for format: int32)
//   - number → float64 (float32 for format: float)
//   - boolean → bool
//   - array → []T
//   - object → struct for definitions, map[string]T otherwise
//
// Optional scalar fields and arguments are pointers. Definitions are always
// referenced through pointers.
//
// # JSON Schema
//
// [RenderJSONSchema] exports one definition, together with every definition
// it reaches, as a standalone draft-07 JSON Schema.
package generator
