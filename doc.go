// Package oasgen generates Swagger 2.0 and OpenAPI 3.0 documents from the
// controllers and actions of an HTTP API.
//
// # Overview
//
// The library is split into packages that follow the generation pipeline:
//
//   - apimeta: the API surface model (types, controllers, attributes), built
//     by reflection over Go values or loaded from description files
//   - schemagen: JSON schemas for apimeta types, registered as definitions
//   - builder: the document assembler, parameter binding resolver and
//     response aggregator
//   - processor: operation and document processor chains, the extension point
//     for customizing generated operations
//   - openapi: the document model with JSON/YAML rendering, parsing and
//     $ref resolution
//   - generator: client and operation name strategies, Go client generation
//     and JSON Schema export
//   - oaserrors: sentinel and typed errors shared by all packages
//
// # Quick Start
//
//	reg := apimeta.NewRegistry()
//	users, err := reg.ControllerOf(&UsersController{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	b, err := builder.New(builder.WithInfo(openapi.Info{Title: "Users", Version: "v1"}))
//	if err != nil {
//		log.Fatal(err)
//	}
//	doc, err := b.Generate(ctx, builder.NewControllerSource(users))
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, err := doc.ToJSON(openapi.OpenAPI3)
//
// # Command Line
//
// The oasgen command wraps the same pipeline:
//
//	oasgen generate --dialect 3.0 -o api.json api.yaml
//	oasgen convert --to 2.0 api.json
//	oasgen client --names MultipleClientsFromOperationId -o ./client api.json
//	oasgen mcp
package oasgen
