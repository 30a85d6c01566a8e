package generator

import (
	"strings"

	"github.com/erraggy/oasgen/internal/naming"
	"github.com/erraggy/oasgen/oaserrors"
	"github.com/erraggy/oasgen/openapi"
)

// OperationNameGenerator maps an operation of a finished document to the
// client it belongs to and the method name it gets on that client.
//
// Implementations are pure: the same document and operation always yield
// the same names. Conflicts are resolved against the other operations of
// doc, so names are only stable for a fixed document.
type OperationNameGenerator interface {
	// SupportsMultipleClients reports whether ClientName can return more
	// than one distinct name.
	SupportsMultipleClients() bool
	// ClientName returns the client name for the operation; "" is the
	// default client.
	ClientName(doc *openapi.Document, path, method string, op *openapi.Operation) string
	// OperationName returns the method name for the operation.
	OperationName(doc *openapi.Document, path, method string, op *openapi.Operation) string
}

// Strategy names accepted by ByName.
const (
	StrategySingleClientFromOperationID               = "SingleClientFromOperationId"
	StrategyMultipleClientsFromOperationID            = "MultipleClientsFromOperationId"
	StrategyMultipleClientsFromPathSegments           = "MultipleClientsFromPathSegments"
	StrategyMultipleClientsFromFirstTagAndOperationID = "MultipleClientsFromFirstTagAndOperationId"
	StrategyMultipleClientsFromFirstTagAndPathSegment = "MultipleClientsFromFirstTagAndPathSegments"
)

// Strategies lists the built-in strategy names in a stable order.
func Strategies() []string {
	return []string{
		StrategySingleClientFromOperationID,
		StrategyMultipleClientsFromOperationID,
		StrategyMultipleClientsFromPathSegments,
		StrategyMultipleClientsFromFirstTagAndOperationID,
		StrategyMultipleClientsFromFirstTagAndPathSegment,
	}
}

// ByName returns the built-in strategy with the given name. Matching ignores
// case, hyphens and underscores, so "multiple-clients-from-path-segments"
// works too.
func ByName(name string) (OperationNameGenerator, error) {
	switch foldName(name) {
	case foldName(StrategySingleClientFromOperationID), "":
		return SingleClientFromOperationID{}, nil
	case foldName(StrategyMultipleClientsFromOperationID):
		return MultipleClientsFromOperationID{}, nil
	case foldName(StrategyMultipleClientsFromPathSegments):
		return MultipleClientsFromPathSegments{}, nil
	case foldName(StrategyMultipleClientsFromFirstTagAndOperationID):
		return MultipleClientsFromFirstTagAndOperationID{}, nil
	case foldName(StrategyMultipleClientsFromFirstTagAndPathSegment):
		return MultipleClientsFromFirstTagAndPathSegments{}, nil
	}
	return nil, &oaserrors.ConfigError{
		Option:  "name-generator",
		Value:   name,
		Message: "expected one of " + strings.Join(Strategies(), ", "),
	}
}

func foldName(s string) string {
	return strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
}

// SingleClientFromOperationID puts every operation on one client and names
// methods after their operation ID.
type SingleClientFromOperationID struct{}

// SupportsMultipleClients implements OperationNameGenerator.
func (SingleClientFromOperationID) SupportsMultipleClients() bool { return false }

// ClientName implements OperationNameGenerator.
func (SingleClientFromOperationID) ClientName(*openapi.Document, string, string, *openapi.Operation) string {
	return ""
}

// OperationName implements OperationNameGenerator.
func (g SingleClientFromOperationID) OperationName(doc *openapi.Document, path, method string, op *openapi.Operation) string {
	return resolveGetAll(doc, op, operationIDName(path, method, op), func(ref openapi.OperationRef) string {
		return operationIDName(ref.Path, ref.Method, ref.Operation)
	}, func(openapi.OperationRef) bool { return true })
}

// MultipleClientsFromOperationID splits operation IDs of the form
// "Client_Operation": the segment before the last underscore names the
// client and the last segment names the method.
type MultipleClientsFromOperationID struct{}

// SupportsMultipleClients implements OperationNameGenerator.
func (MultipleClientsFromOperationID) SupportsMultipleClients() bool { return true }

// ClientName implements OperationNameGenerator.
func (MultipleClientsFromOperationID) ClientName(_ *openapi.Document, _, _ string, op *openapi.Operation) string {
	client, _ := splitOperationID(op.OperationID)
	return client
}

// OperationName implements OperationNameGenerator.
func (g MultipleClientsFromOperationID) OperationName(doc *openapi.Document, path, method string, op *openapi.Operation) string {
	client := g.ClientName(doc, path, method, op)
	name := func(ref openapi.OperationRef) string {
		if _, n := splitOperationID(ref.Operation.OperationID); n != "" {
			return n
		}
		return methodNameFromPath(ref.Path, ref.Method)
	}
	return resolveGetAll(doc, op, name(openapi.OperationRef{Path: path, Method: method, Operation: op}), name,
		func(ref openapi.OperationRef) bool {
			return g.ClientName(doc, ref.Path, ref.Method, ref.Operation) == client
		})
}

// MultipleClientsFromPathSegments names the client after the second to last
// literal path segment and the method after the last one.
type MultipleClientsFromPathSegments struct{}

// SupportsMultipleClients implements OperationNameGenerator.
func (MultipleClientsFromPathSegments) SupportsMultipleClients() bool { return true }

// ClientName implements OperationNameGenerator.
func (MultipleClientsFromPathSegments) ClientName(_ *openapi.Document, path, _ string, _ *openapi.Operation) string {
	segs := literalSegments(path)
	if len(segs) < 2 {
		return ""
	}
	return naming.ToPascalCase(segs[len(segs)-2])
}

// OperationName implements OperationNameGenerator.
func (g MultipleClientsFromPathSegments) OperationName(doc *openapi.Document, path, method string, op *openapi.Operation) string {
	client := g.ClientName(doc, path, method, op)
	return resolveVerbSuffix(doc, path, method, lastSegmentName, func(ref openapi.OperationRef) bool {
		return g.ClientName(doc, ref.Path, ref.Method, ref.Operation) == client
	})
}

// MultipleClientsFromFirstTagAndOperationID names the client after the
// operation's first tag and the method after its operation ID.
type MultipleClientsFromFirstTagAndOperationID struct{}

// SupportsMultipleClients implements OperationNameGenerator.
func (MultipleClientsFromFirstTagAndOperationID) SupportsMultipleClients() bool { return true }

// ClientName implements OperationNameGenerator.
func (MultipleClientsFromFirstTagAndOperationID) ClientName(_ *openapi.Document, _, _ string, op *openapi.Operation) string {
	return firstTag(op)
}

// OperationName implements OperationNameGenerator.
func (g MultipleClientsFromFirstTagAndOperationID) OperationName(doc *openapi.Document, path, method string, op *openapi.Operation) string {
	client := firstTag(op)
	return resolveGetAll(doc, op, operationIDName(path, method, op), func(ref openapi.OperationRef) string {
		return operationIDName(ref.Path, ref.Method, ref.Operation)
	}, func(ref openapi.OperationRef) bool {
		return firstTag(ref.Operation) == client
	})
}

// MultipleClientsFromFirstTagAndPathSegments names the client after the
// operation's first tag and the method after all literal path segments.
type MultipleClientsFromFirstTagAndPathSegments struct{}

// SupportsMultipleClients implements OperationNameGenerator.
func (MultipleClientsFromFirstTagAndPathSegments) SupportsMultipleClients() bool { return true }

// ClientName implements OperationNameGenerator.
func (MultipleClientsFromFirstTagAndPathSegments) ClientName(_ *openapi.Document, _, _ string, op *openapi.Operation) string {
	return firstTag(op)
}

// OperationName implements OperationNameGenerator.
func (g MultipleClientsFromFirstTagAndPathSegments) OperationName(doc *openapi.Document, path, method string, op *openapi.Operation) string {
	client := firstTag(op)
	return resolveVerbSuffix(doc, path, method, allSegmentsName, func(ref openapi.OperationRef) bool {
		return firstTag(ref.Operation) == client
	})
}

// resolveGetAll returns name unless another operation of the same client has
// the same name. On conflict a "Get..." operation whose 200 response is an
// array becomes "GetAll...".
func resolveGetAll(doc *openapi.Document, op *openapi.Operation, name string,
	nameOf func(openapi.OperationRef) string, sameClient func(openapi.OperationRef) bool) string {
	conflict := false
	for _, ref := range doc.Operations() {
		if ref.Operation == op || !sameClient(ref) {
			continue
		}
		if nameOf(ref) == name {
			conflict = true
			break
		}
	}
	if !conflict || !strings.HasPrefix(strings.ToLower(name), "get") {
		return name
	}
	if r := op.Responses["200"]; r != nil && r.Schema.IsArray() {
		return "GetAll" + name[3:]
	}
	return name
}

// resolveVerbSuffix appends the HTTP method to the path-derived name when
// another operation of the same client derives the same name.
func resolveVerbSuffix(doc *openapi.Document, path, method string,
	nameOf func(string) string, sameClient func(openapi.OperationRef) bool) string {
	name := nameOf(path)
	for _, ref := range doc.Operations() {
		if ref.Path == path && strings.EqualFold(ref.Method, method) {
			continue
		}
		if sameClient(ref) && nameOf(ref.Path) == name {
			return name + naming.ToPascalCase(strings.ToLower(method))
		}
	}
	return name
}

func splitOperationID(id string) (client, name string) {
	segs := strings.Split(id, "_")
	name = segs[len(segs)-1]
	if len(segs) >= 2 {
		client = segs[len(segs)-2]
	}
	return client, name
}

func operationIDName(path, method string, op *openapi.Operation) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	return methodNameFromPath(path, method)
}

// methodNameFromPath builds a name such as "GetUsersById" for operations
// without an ID.
func methodNameFromPath(path, method string) string {
	p := strings.NewReplacer("/", " ", "{", "By ", "}", "").Replace(path)
	return naming.ToPascalCase(strings.ToLower(method) + " " + p)
}

func literalSegments(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s == "" || strings.Contains(s, "{") {
			continue
		}
		out = append(out, s)
	}
	return out
}

func lastSegmentName(path string) string {
	segs := literalSegments(path)
	if len(segs) == 0 {
		return "Index"
	}
	return naming.ToPascalCase(segs[len(segs)-1])
}

func allSegmentsName(path string) string {
	segs := literalSegments(path)
	if len(segs) == 0 {
		return "Index"
	}
	return naming.ToPascalCase(strings.Join(segs, " "))
}

func firstTag(op *openapi.Operation) string {
	if len(op.Tags) == 0 {
		return ""
	}
	return naming.ToPascalCase(op.Tags[0])
}
