package builder

import (
	"context"
	"errors"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/oasgen/apimeta"
	"github.com/erraggy/oasgen/internal/httputil"
	"github.com/erraggy/oasgen/oaserrors"
	"github.com/erraggy/oasgen/openapi"
	"github.com/erraggy/oasgen/processor"
	"github.com/erraggy/oasgen/schemagen"
)

// Builder generates documents from API surfaces.
//
// Concurrency: a Builder holds only its settings, so one Builder may run
// Generate from several goroutines. Each call builds its own document.
type Builder struct {
	settings       Settings
	operationChain []processor.OperationProcessor
	documentChain  []processor.DocumentProcessor
}

// New returns a Builder configured by opts.
//
// Example:
//
//	b, err := builder.New(
//		builder.WithDialect(openapi.Swagger2),
//		builder.WithInfo(openapi.Info{Title: "Shop", Version: "v1"}),
//	)
//	if err != nil {
//		return err
//	}
//	doc, err := b.Generate(ctx, builder.NewControllerSource(controllers...))
func New(opts ...Option) (*Builder, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(s)
	}
	if s.DefaultURLTemplate == "" {
		return nil, &oaserrors.ConfigError{Option: "DefaultURLTemplate", Message: "must not be empty"}
	}
	if err := checkMediaTypes("DefaultConsumes", s.DefaultConsumes); err != nil {
		return nil, err
	}
	if err := checkMediaTypes("DefaultProduces", s.DefaultProduces); err != nil {
		return nil, err
	}
	if s.Processors == nil {
		s.Processors = processor.NewRegistry()
	}
	// Surface schema option errors, such as a bad name template, before
	// any endpoint is processed.
	if _, err := schemagen.New(openapi.New(), s.SchemaOptions...); err != nil {
		return nil, err
	}

	b := &Builder{settings: s.clone()}
	b.operationChain = append(processor.DefaultOperationProcessors(s.APIVersions), s.OperationProcessors...)
	b.documentChain = append(processor.DefaultDocumentProcessors(), s.DocumentProcessors...)
	return b, nil
}

// Settings returns a copy of the builder's settings.
func (b *Builder) Settings() Settings {
	return b.settings.clone()
}

// generation is the state of one Generate call.
type generation struct {
	settings *Settings
	doc      *openapi.Document
	schemas  *schemagen.Generator
	ids      *operationIDs
	ops      []*processor.OperationDescription
}

// Generate builds the document of src.
//
// For each endpoint the parameters and responses are built, then the
// operation processor chain runs: the built-in processors, the configured
// ones, and those named by UseProcessor attributes on the controller and
// the method. Operations a processor vetoes are dropped. Accepted
// operations are frozen and inserted into the document; a second operation
// on the same (path, method) pair fails with oaserrors.ErrDuplicateOperation.
// Finally colliding operation IDs are renamed, the document processor chain
// runs, and media types shared by every operation move to the document.
func (b *Builder) Generate(ctx context.Context, src Source) (*openapi.Document, error) {
	s := b.settings.clone()
	endpoints, err := src.Endpoints(&s)
	if err != nil {
		return nil, err
	}

	doc := openapi.New()
	doc.Info = s.Info
	doc.Host = s.Host
	doc.BasePath = s.BasePath
	doc.Schemes = slices.Clone(s.Schemes)
	doc.Consumes = slices.Clone(s.DefaultConsumes)
	doc.Produces = slices.Clone(s.DefaultProduces)

	schemas, err := schemagen.New(doc, s.SchemaOptions...)
	if err != nil {
		return nil, err
	}
	g := &generation{settings: &s, doc: doc, schemas: schemas, ids: newOperationIDs()}

	for _, ep := range endpoints {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := b.operation(ctx, g, ep); err != nil {
			return nil, err
		}
	}

	dedupeOperationIDs(doc, s.Logger)

	dc := &processor.DocumentContext{
		Document:    doc,
		Operations:  g.ops,
		Controllers: src.Controllers(),
		Schemas:     schemas,
		Logger:      s.Logger,
	}
	if err := processor.RunDocumentChain(ctx, dc, b.documentChain); err != nil {
		return nil, &BuilderError{Component: ComponentDocument, Message: "document processor failed", Kind: oaserrors.ErrGeneration, Cause: err}
	}
	processor.ReconcileMediaTypes(doc)

	s.Logger.Debug("document generated", "operations", len(g.ops), "definitions", len(doc.Definitions))
	return doc, nil
}

// operation builds, processes and inserts the operation of ep.
func (b *Builder) operation(ctx context.Context, g *generation, ep *Endpoint) error {
	s := g.settings
	op := &openapi.Operation{OperationID: g.ids.next(ep.Controller, ep.Method)}
	op.AddConsumes(ep.Consumes...)
	op.AddProduces(ep.Produces...)
	od := &processor.OperationDescription{
		Path:       ep.Path,
		Method:     ep.HTTPMethod,
		Operation:  op,
		Controller: ep.Controller,
		Action:     ep.Method,
	}

	params := newParameterResolver(s, g.schemas, ep, od)
	if err := params.resolve(); err != nil {
		g.ids.release(op.OperationID)
		return err
	}
	responses := &responseAggregator{settings: s, schemas: g.schemas, ep: ep, od: od}
	if err := responses.build(); err != nil {
		g.ids.release(op.OperationID)
		return err
	}

	chain, err := b.chainFor(ep, od, s.Processors)
	if err != nil {
		g.ids.release(op.OperationID)
		return err
	}

	g.ops = append(g.ops, od)
	oc := &processor.Context{
		Document:   g.doc,
		Operation:  od,
		Siblings:   g.ops,
		Controller: ep.Controller,
		Method:     ep.Method,
		Parameters: params.params,
		Schemas:    g.schemas,
		Docs:       s.Docs,
		Logger:     s.Logger,
	}
	decision, err := processor.RunOperationChain(ctx, oc, chain)
	if err != nil {
		return newProcessorError(od.Method, od.Path, op.OperationID, "operation processor failed", err)
	}
	if decision == processor.Veto {
		g.ops = g.ops[:len(g.ops)-1]
		g.ids.release(op.OperationID)
		return nil
	}

	if err := g.doc.AddOperation(od.Path, od.Method, od.Freeze()); err != nil {
		if errors.Is(err, oaserrors.ErrDuplicateOperation) {
			return newDuplicateOperationError(od.Method, od.Path, op.OperationID, err)
		}
		return err
	}
	return nil
}

// chainFor returns the processor chain of one operation: the shared chain
// followed by the processors its UseProcessor attributes name.
func (b *Builder) chainFor(ep *Endpoint, od *processor.OperationDescription, registry *processor.Registry) ([]processor.OperationProcessor, error) {
	var uses []apimeta.UseProcessor
	uses = append(uses, apimeta.FindAll[apimeta.UseProcessor](ep.Controller.Attributes)...)
	uses = append(uses, apimeta.FindAll[apimeta.UseProcessor](ep.Method.Attributes)...)
	if len(uses) == 0 {
		return b.operationChain, nil
	}

	chain := slices.Clone(b.operationChain)
	for _, u := range uses {
		p, err := registry.Create(u.Name, u.Args)
		if err != nil {
			return nil, newProcessorError(od.Method, od.Path, od.Operation.OperationID, "cannot create processor "+u.Name, err)
		}
		chain = append(chain, p)
	}
	return chain, nil
}

// GenerateAll builds one document per source concurrently, each with a
// Builder configured by opts. Documents are returned in source order. The
// first failure cancels the remaining runs.
func GenerateAll(ctx context.Context, opts []Option, sources ...Source) ([]*openapi.Document, error) {
	b, err := New(opts...)
	if err != nil {
		return nil, err
	}
	docs := make([]*openapi.Document, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			doc, err := b.Generate(ctx, src)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func checkMediaTypes(option string, mediaTypes []string) error {
	for _, mt := range mediaTypes {
		if !httputil.IsValidMediaType(mt) {
			return &oaserrors.ConfigError{Option: option, Value: mt, Message: "invalid media type"}
		}
	}
	return nil
}
