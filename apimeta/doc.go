// Package apimeta describes an API surface independently of where the
// description came from.
//
// An API surface is a set of controllers, each holding action methods with
// parameters, return types, and attributes. The same model is filled either
// by reflection over Go values (Registry and ControllerOf) or by decoding a
// description file (ParseDescriptions), and is consumed by the builder
// package to assemble an OpenAPI document.
//
// # Types
//
// A Type is a language-neutral type description: primitives, arrays, maps,
// named objects with a base type and interfaces, enums, and a few special
// kinds (task wrappers, files, streams, cancellation). Nullable references are
// modeled as KindPointer wrapping the target.
//
// # Attributes
//
// Attributes are flat records. DecodeAttribute builds them by name and maps
// legacy names through an alias table, so "OpenApiIgnore", "SwaggerIgnore" and
// "Ignore" all decode to Ignore. Unknown names decode to Custom and remain
// available to custom processors.
package apimeta
