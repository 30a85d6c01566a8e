// Package builder generates API description documents from API surface
// metadata.
//
// A [Source] enumerates endpoints: [ControllerSource] derives them from
// controller routing attributes, [APIDescriptionSource] takes them from
// framework routing and binding metadata. For each endpoint the builder
// resolves where every parameter is bound, aggregates the declared
// responses by status code, runs the operation processor chain, and inserts
// the operation into the document.
//
// # Quick Start
//
//	descs, err := apimeta.LoadDescriptions("api.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	b, err := builder.New(
//		builder.WithDialect(openapi.Swagger2),
//		builder.WithInfo(openapi.Info{Title: "Shop", Version: "v1"}),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	doc, err := b.Generate(ctx, builder.NewControllerSource(descs.Controllers...))
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, err := doc.ToJSON(openapi.Swagger2)
//
// # Routes
//
// A controller's RoutePrefix (or controller-level Route) is joined with each
// Route or HttpMethod template of an action. A template starting with "~/"
// ignores the prefix. The [controller] and [action] tokens are replaced by
// the controller name without its "Controller" suffix and the method name.
// Controllers without routing attributes use the default URL template
// ("api/{controller}/{id?}").
//
// Optional placeholders such as {id?} produce a single path: the
// placeholder is kept when the action has a parameter of that name and
// dropped otherwise.
//
// Actions without an HttpMethod attribute answer the verb their name starts
// with (GetUser answers GET), else POST.
//
// # Parameter Binding
//
// Binding attributes decide first. Without one, a parameter named by a path
// placeholder is a path parameter, files are form data, streams and XML
// documents are the body, complex types are the body (or flattened into
// query parameters with [WithComplexBinding]), and everything else is a
// query parameter. An operation may have at most one body parameter.
//
// Path placeholders no parameter binds are removed from the path, or get a
// synthesized string parameter with [WithAddMissingPathParameters].
//
// # Responses
//
// ProducesResponseType, SwaggerResponse and ResponseType attributes are
// grouped by status code. A group of several types is described by their
// most specific common base type, and the individual types are listed as
// expected schemas. When nothing is declared the success response is
// inferred from the return type: 200 with a schema, or the source's void
// status (204 for controllers, 200 for API descriptions) without one.
// Other attributes can be mapped to responses with
// [RegisterResponseAdapter].
//
// # Processors
//
// The built-in operation processors filter by API version, collect tags,
// fill in summaries, copy extension data and media types, and mark
// deprecated operations. Additional processors are added with
// [WithOperationProcessors] or named by UseProcessor attributes; any
// processor may veto an operation, which removes it from the document.
//
// # Errors
//
// Generation failures are [*BuilderError] values naming the operation,
// parameter or response at fault. They match oaserrors.ErrGeneration and a
// more specific sentinel:
//
//	if errors.Is(err, oaserrors.ErrMultipleBodyParameters) {
//		var be *builder.BuilderError
//		errors.As(err, &be)
//		log.Printf("fix %s", be.OperationID)
//	}
package builder
