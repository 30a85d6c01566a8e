package processor

import (
	"context"
	"slices"
	"strings"

	"github.com/erraggy/oasgen/apimeta"
	"github.com/erraggy/oasgen/internal/naming"
	"github.com/erraggy/oasgen/internal/pathutil"
	"github.com/erraggy/oasgen/openapi"
)

// controllerAttrs returns the controller's attributes, or nil.
func controllerAttrs(oc *Context) []apimeta.Attribute {
	if oc.Controller == nil {
		return nil
	}
	return oc.Controller.Attributes
}

// APIVersion filters operations by API version and fills in {version}
// placeholders.
//
// Versions are read from the method, falling back to the controller. When
// IncludedVersions is set, operations serving none of them are vetoed. The
// substituted version is the method's MapToAPIVersion value if present, else
// the first allowed version the operation serves, else its first declared
// version.
type APIVersion struct {
	IncludedVersions []string
}

// Process implements OperationProcessor.
func (p APIVersion) Process(_ context.Context, oc *Context) (Decision, error) {
	var declared []string
	for _, a := range apimeta.FindAll[apimeta.APIVersion](oc.Method.Attributes) {
		declared = append(declared, a.Versions...)
	}
	if len(declared) == 0 {
		for _, a := range apimeta.FindAll[apimeta.APIVersion](controllerAttrs(oc)) {
			declared = append(declared, a.Versions...)
		}
	}
	var mapped []string
	for _, a := range apimeta.FindAll[apimeta.MapToAPIVersion](oc.Method.Attributes) {
		mapped = append(mapped, a.Versions...)
	}
	if len(declared) == 0 && len(mapped) == 0 {
		return Continue, nil
	}
	served := declared
	if len(mapped) > 0 {
		served = mapped
	}

	version := served[0]
	if len(p.IncludedVersions) > 0 {
		var allowed []string
		for _, v := range p.IncludedVersions {
			if slices.Contains(served, v) {
				allowed = append(allowed, v)
			}
		}
		if len(allowed) == 0 {
			return Veto, nil
		}
		if len(mapped) == 0 {
			version = allowed[0]
		} else {
			version = mapped[slices.IndexFunc(mapped, func(v string) bool { return slices.Contains(allowed, v) })]
		}
	}

	od := oc.Operation
	if pathutil.HasPlaceholder(od.Path, "version") {
		od.Path = pathutil.ReplacePlaceholder(od.Path, "version", version)
		od.Operation.Parameters = slices.DeleteFunc(od.Operation.Parameters, func(param *openapi.Parameter) bool {
			return param.Kind == openapi.ParameterPath && strings.EqualFold(param.Name, "version")
		})
	}
	return Continue, nil
}

// Tags fills the operation's tag list from Tags and Tag attributes on the
// method, falling back to those on the controller, and finally to the
// controller name without its "Controller" suffix.
type Tags struct{}

// Process implements OperationProcessor.
func (Tags) Process(_ context.Context, oc *Context) (Decision, error) {
	op := oc.Operation.Operation
	added := addTags(oc, oc.Method.Attributes)
	if !added {
		added = addTags(oc, controllerAttrs(oc))
	}
	if !added && len(op.Tags) == 0 && oc.Controller != nil {
		op.Tags = append(op.Tags, naming.TrimSuffixFold(oc.Controller.Name, "Controller"))
	}
	return Continue, nil
}

func addTags(oc *Context, attrs []apimeta.Attribute) bool {
	op := oc.Operation.Operation
	found := false
	add := func(name, description string, toDocument bool) {
		found = true
		if !slices.Contains(op.Tags, name) {
			op.Tags = append(op.Tags, name)
		}
		if toDocument && oc.Document != nil {
			oc.Document.AddTag(name, description)
		}
	}
	for _, a := range attrs {
		switch v := a.(type) {
		case apimeta.Tags:
			for _, name := range v.Names {
				add(name, "", v.AddToDocument)
			}
		case apimeta.Tag:
			add(v.Name, v.Description, v.AddToDocument)
		}
	}
	return found
}

// SummaryAndDescription sets the summary from a Description attribute or
// the method's doc summary, and the description from its remarks. Empty
// documentation leaves existing values alone.
type SummaryAndDescription struct{}

// Process implements OperationProcessor.
func (SummaryAndDescription) Process(_ context.Context, oc *Context) (Decision, error) {
	op := oc.Operation.Operation
	docs := docsOf(oc)
	summary := docs.Summary(oc.Controller, oc.Method)
	if d, ok := apimeta.Find[apimeta.Description](oc.Method.Attributes); ok && d.Text != "" {
		summary = d.Text
	}
	if s := strings.TrimSpace(summary); s != "" {
		op.Summary = s
	}
	if r := strings.TrimSpace(docs.Remarks(oc.Controller, oc.Method)); r != "" {
		op.Description = r
	}
	return Continue, nil
}

// ExtensionData copies ExtensionData attributes of the method onto the
// operation and those of each parameter onto the built parameter.
type ExtensionData struct{}

// Process implements OperationProcessor.
func (ExtensionData) Process(_ context.Context, oc *Context) (Decision, error) {
	op := oc.Operation.Operation
	for _, ext := range apimeta.FindAll[apimeta.ExtensionData](oc.Method.Attributes) {
		if op.Extensions == nil {
			op.Extensions = make(map[string]any)
		}
		op.Extensions[ext.Key] = ext.Value
	}
	for _, mp := range oc.Method.Parameters {
		param := oc.Parameters[mp]
		if param == nil {
			continue
		}
		for _, ext := range apimeta.FindAll[apimeta.ExtensionData](mp.Attributes) {
			if param.Extensions == nil {
				param.Extensions = make(map[string]any)
			}
			param.Extensions[ext.Key] = ext.Value
		}
	}
	return Continue, nil
}

// MediaTypes adds Consumes and Produces attributes of the controller and the
// method to the operation.
type MediaTypes struct{}

// Process implements OperationProcessor.
func (MediaTypes) Process(_ context.Context, oc *Context) (Decision, error) {
	op := oc.Operation.Operation
	for _, attrs := range [][]apimeta.Attribute{controllerAttrs(oc), oc.Method.Attributes} {
		for _, c := range apimeta.FindAll[apimeta.Consumes](attrs) {
			op.AddConsumes(c.MediaTypes...)
		}
		for _, p := range apimeta.FindAll[apimeta.Produces](attrs) {
			op.AddProduces(p.MediaTypes...)
		}
	}
	return Continue, nil
}

// Deprecated marks the operation deprecated when the method or controller
// carries a Deprecated attribute, and each parameter whose method parameter
// does.
type Deprecated struct{}

// Process implements OperationProcessor.
func (Deprecated) Process(_ context.Context, oc *Context) (Decision, error) {
	if apimeta.Has[apimeta.Deprecated](oc.Method.Attributes) || apimeta.Has[apimeta.Deprecated](controllerAttrs(oc)) {
		oc.Operation.Operation.Deprecated = true
	}
	for _, mp := range oc.Method.Parameters {
		if param := oc.Parameters[mp]; param != nil && apimeta.Has[apimeta.Deprecated](mp.Attributes) {
			param.Deprecated = true
		}
	}
	return Continue, nil
}

// DefaultOperationProcessors returns the built-in operation chain in the
// order it runs.
func DefaultOperationProcessors(includedVersions []string) []OperationProcessor {
	return []OperationProcessor{
		APIVersion{IncludedVersions: includedVersions},
		Tags{},
		SummaryAndDescription{},
		ExtensionData{},
		MediaTypes{},
		Deprecated{},
	}
}
