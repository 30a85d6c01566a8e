package processor

import (
	"context"
	"slices"

	"github.com/erraggy/oasgen/apimeta"
	"github.com/erraggy/oasgen/internal/naming"
	"github.com/erraggy/oasgen/openapi"
)

// DocumentTags declares document tags from Tag and Tags attributes on
// controllers that ask for it, and from the controller's doc summary when a
// tag named after it is in use.
type DocumentTags struct{}

// Process implements DocumentProcessor.
func (DocumentTags) Process(_ context.Context, dc *DocumentContext) error {
	for _, c := range dc.Controllers {
		for _, a := range c.Attributes {
			switch v := a.(type) {
			case apimeta.Tag:
				if v.AddToDocument {
					dc.Document.AddTag(v.Name, v.Description)
				}
			case apimeta.Tags:
				if v.AddToDocument {
					for _, name := range v.Names {
						dc.Document.AddTag(name, "")
					}
				}
			}
		}
		name := naming.TrimSuffixFold(c.Name, "Controller")
		if c.Docs.Summary != "" && tagInUse(dc.Operations, name) {
			dc.Document.AddTag(name, c.Docs.Summary)
		}
	}
	return nil
}

func tagInUse(ops []*OperationDescription, name string) bool {
	for _, od := range ops {
		if slices.Contains(od.Operation.Tags, name) {
			return true
		}
	}
	return false
}

// DocumentExtensionData copies DocumentExtensionData attributes of every
// controller onto the document root.
type DocumentExtensionData struct{}

// Process implements DocumentProcessor.
func (DocumentExtensionData) Process(_ context.Context, dc *DocumentContext) error {
	for _, c := range dc.Controllers {
		for _, ext := range apimeta.FindAll[apimeta.DocumentExtensionData](c.Attributes) {
			if dc.Document.Extensions == nil {
				dc.Document.Extensions = make(map[string]any)
			}
			dc.Document.Extensions[ext.Key] = ext.Value
		}
	}
	return nil
}

// DefaultDocumentProcessors returns the built-in document chain.
func DefaultDocumentProcessors() []DocumentProcessor {
	return []DocumentProcessor{DocumentTags{}, DocumentExtensionData{}}
}

// ReconcileMediaTypes moves media types shared by every operation to the
// document. An operation without its own list counts as declaring the
// document default it inherited. The document list becomes the
// intersection of all those lists, and an operation whose list equals the
// intersection drops it. When the intersection is empty the document list is
// cleared and operations that inherited the old default keep it explicitly.
func ReconcileMediaTypes(doc *openapi.Document) {
	ops := doc.Operations()
	doc.Consumes = reconcile(doc.Consumes, ops, func(op *openapi.Operation) *[]string { return &op.Consumes })
	doc.Produces = reconcile(doc.Produces, ops, func(op *openapi.Operation) *[]string { return &op.Produces })
}

func reconcile(current []string, ops []openapi.OperationRef, field func(*openapi.Operation) *[]string) []string {
	if len(ops) == 0 {
		return current
	}
	for _, ref := range ops {
		if list := field(ref.Operation); len(*list) == 0 && len(current) > 0 {
			*list = slices.Clone(current)
		}
	}

	common := slices.Clone(*field(ops[0].Operation))
	for _, ref := range ops[1:] {
		list := *field(ref.Operation)
		common = slices.DeleteFunc(common, func(mt string) bool { return !slices.Contains(list, mt) })
	}
	if len(common) == 0 {
		return nil
	}
	for _, ref := range ops {
		if list := field(ref.Operation); sameSet(*list, common) {
			*list = nil
		}
	}
	return common
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		if !slices.Contains(b, v) {
			return false
		}
	}
	return true
}
