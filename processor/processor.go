package processor

import (
	"context"
	"fmt"

	"github.com/erraggy/oasgen/apimeta"
	"github.com/erraggy/oasgen/openapi"
	"github.com/erraggy/oasgen/schemagen"
)

// Decision is the outcome of one operation processor.
type Decision int

const (
	// Continue keeps the operation and runs the next processor.
	Continue Decision = iota
	// Veto removes the operation from the document.
	Veto
)

// String returns "continue" or "veto".
func (d Decision) String() string {
	if d == Veto {
		return "veto"
	}
	return "continue"
}

// OperationDescription is the draft of one operation while its processor
// chain runs. Processors edit it in place; Freeze detaches the finished
// operation for insertion into the document.
type OperationDescription struct {
	Path       string
	Method     string
	Operation  *openapi.Operation
	Controller *apimeta.Controller
	Action     *apimeta.Method

	frozen *openapi.Operation
}

// Freeze returns a copy of the operation that later edits of the
// description do not reach. Repeated calls return the same copy.
func (d *OperationDescription) Freeze() *openapi.Operation {
	if d.frozen == nil {
		d.frozen = d.Operation.Clone()
	}
	return d.frozen
}

// Frozen reports whether Freeze has been called.
func (d *OperationDescription) Frozen() bool { return d.frozen != nil }

// Context is what an operation processor sees.
type Context struct {
	Document  *openapi.Document
	Operation *OperationDescription
	// Siblings lists every operation description built for the document so
	// far, this one included.
	Siblings   []*OperationDescription
	Controller *apimeta.Controller
	Method     *apimeta.Method
	// Parameters maps each method parameter to the parameter built for it.
	Parameters map[*apimeta.Parameter]*openapi.Parameter
	Schemas    *schemagen.Generator
	Docs       DocLookup
	Logger     openapi.Logger
}

// OperationProcessor mutates or vetoes one operation.
type OperationProcessor interface {
	Process(ctx context.Context, oc *Context) (Decision, error)
}

// OperationProcessorFunc adapts a function to OperationProcessor.
type OperationProcessorFunc func(ctx context.Context, oc *Context) (Decision, error)

// Process calls f.
func (f OperationProcessorFunc) Process(ctx context.Context, oc *Context) (Decision, error) {
	return f(ctx, oc)
}

// DocumentContext is what a document processor sees.
type DocumentContext struct {
	Document    *openapi.Document
	Operations  []*OperationDescription
	Controllers []*apimeta.Controller
	Schemas     *schemagen.Generator
	Logger      openapi.Logger
}

// DocumentProcessor runs once after every operation has been collected.
type DocumentProcessor interface {
	Process(ctx context.Context, dc *DocumentContext) error
}

// DocumentProcessorFunc adapts a function to DocumentProcessor.
type DocumentProcessorFunc func(ctx context.Context, dc *DocumentContext) error

// Process calls f.
func (f DocumentProcessorFunc) Process(ctx context.Context, dc *DocumentContext) error {
	return f(ctx, dc)
}

// RunOperationChain runs chain in order and stops at the first veto or error.
func RunOperationChain(ctx context.Context, oc *Context, chain []OperationProcessor) (Decision, error) {
	for _, p := range chain {
		d, err := p.Process(ctx, oc)
		if err != nil {
			return Continue, fmt.Errorf("%T: %w", p, err)
		}
		if d == Veto {
			if oc.Logger != nil {
				oc.Logger.Debug("operation vetoed",
					"path", oc.Operation.Path, "method", oc.Operation.Method, "processor", fmt.Sprintf("%T", p))
			}
			return Veto, nil
		}
	}
	return Continue, nil
}

// RunDocumentChain runs chain in order and stops at the first error.
func RunDocumentChain(ctx context.Context, dc *DocumentContext, chain []DocumentProcessor) error {
	for _, p := range chain {
		if err := p.Process(ctx, dc); err != nil {
			return fmt.Errorf("%T: %w", p, err)
		}
	}
	return nil
}
