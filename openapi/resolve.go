package openapi

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/oasgen/oaserrors"
)

// loadedFile is an external file reached through a $ref. Files that are not
// OpenAPI documents are treated as a root schema plus its "definitions".
type loadedFile struct {
	doc  *Document
	root *Schema
}

// resolveSession shares loaded files across one parse.
type resolveSession struct {
	rootDir string
	files   map[string]*loadedFile
}

func newResolveSession(rootDir string) *resolveSession {
	return &resolveSession{rootDir: rootDir, files: make(map[string]*loadedFile)}
}

// eachRootSchema calls fn for every schema directly owned by the document.
func (d *Document) eachRootSchema(fn func(*Schema) error) error {
	for _, name := range sortedKeys(d.Definitions) {
		if err := fn(d.Definitions[name]); err != nil {
			return err
		}
	}
	for _, ref := range d.Operations() {
		op := ref.Operation
		for _, p := range op.Parameters {
			if err := fn(p.Schema); err != nil {
				return err
			}
		}
		for _, code := range op.ResponseCodes() {
			r := op.Responses[code]
			if err := fn(r.Schema); err != nil {
				return err
			}
			for _, es := range r.ExpectedSchemas {
				if err := fn(es.Schema); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Walk visits every schema reachable from the document without following
// references.
func (d *Document) Walk(fn func(*Schema) error) error {
	seen := make(map[*Schema]bool)
	return d.eachRootSchema(func(s *Schema) error {
		return s.walk(seen, fn)
	})
}

func (d *Document) resolveReferences(sess *resolveSession) error {
	if err := d.Walk(func(s *Schema) error {
		if s.Ref == "" || s.Reference != nil {
			return nil
		}
		target, err := d.lookupRef(s.Ref, sess)
		if err != nil {
			return err
		}
		s.Reference = target
		return nil
	}); err != nil {
		return err
	}
	return d.checkAliasCycles()
}

// ResolveReferences links every unresolved $ref in the document to its
// definition. External references are not followed.
func (d *Document) ResolveReferences() error {
	return d.resolveReferences(newResolveSession(""))
}

func (d *Document) lookupRef(ref string, sess *resolveSession) (*Schema, error) {
	file, fragment, _ := strings.Cut(ref, "#")
	if file == "" {
		name := DefinitionName(ref)
		if name == "" {
			return nil, &oaserrors.ReferenceError{Ref: ref, RefType: "local", Message: "unsupported reference target"}
		}
		target, ok := d.Definitions[name]
		if !ok {
			return nil, &oaserrors.ReferenceError{Ref: ref, RefType: "local", Message: "definition not found"}
		}
		return target, nil
	}

	if d.SourcePath == "" || sess.rootDir == "" {
		return nil, &oaserrors.ReferenceError{Ref: ref, RefType: "file", Message: "external reference requires a document loaded from a file"}
	}
	lf, err := sess.load(d.SourcePath, file)
	if err != nil {
		return nil, err
	}
	if fragment == "" {
		if lf.root == nil {
			return nil, &oaserrors.ReferenceError{Ref: ref, RefType: "file", Message: "referenced document is not a schema"}
		}
		return lf.root, nil
	}
	name := DefinitionName("#" + fragment)
	target, ok := lf.doc.Definitions[name]
	if name == "" || !ok {
		return nil, &oaserrors.ReferenceError{Ref: ref, RefType: "file", Message: "definition not found"}
	}
	return target, nil
}

func (s *resolveSession) load(fromPath, file string) (*loadedFile, error) {
	abs := filepath.Clean(filepath.Join(filepath.Dir(fromPath), filepath.FromSlash(file)))
	rel, err := filepath.Rel(s.rootDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(file) {
		return nil, &oaserrors.ReferenceError{Ref: file, RefType: "file", IsPathTraversal: true, Message: "reference escapes the document directory"}
	}
	if lf, ok := s.files[abs]; ok {
		return lf, nil
	}

	data, err := os.ReadFile(abs) //nolint:gosec // G304: path checked against the root directory above
	if err != nil {
		return nil, &oaserrors.ReferenceError{Ref: file, RefType: "file", Cause: err}
	}
	m, err := parseTreeRoot(data, abs)
	if err != nil {
		return nil, &oaserrors.ReferenceError{Ref: file, RefType: "file", Cause: err}
	}
	if _, ok := detectDialect(m); ok {
		if _, err := parseTree(m, abs, s); err != nil {
			return nil, err
		}
		return s.files[abs], nil
	}

	// A bare JSON Schema file: the root plus its definitions.
	doc := New()
	doc.SourcePath = abs
	p := &docParser{doc: doc, dialect: Swagger2, root: m, source: abs}
	if defs := m.obj("definitions"); defs != nil {
		for _, name := range defs.keys {
			doc.Definitions[name] = p.schema(defs.obj(name))
		}
	}
	lf := &loadedFile{doc: doc, root: p.schema(m)}
	s.files[abs] = lf
	if err := doc.resolveReferences(s); err != nil {
		return nil, err
	}
	seen := make(map[*Schema]bool)
	if err := lf.root.walk(seen, func(n *Schema) error {
		if n.Ref == "" || n.Reference != nil {
			return nil
		}
		target, err := doc.lookupRef(n.Ref, s)
		if err != nil {
			return err
		}
		n.Reference = target
		return nil
	}); err != nil {
		return nil, err
	}
	return lf, nil
}

// checkAliasCycles rejects definitions that are pure reference chains leading
// back to themselves. Recursive object types are fine.
func (d *Document) checkAliasCycles() error {
	for _, name := range sortedKeys(d.Definitions) {
		seen := make(map[*Schema]bool)
		for cur := d.Definitions[name]; cur != nil && cur.Ref != ""; cur = cur.Reference {
			if seen[cur] {
				return &oaserrors.ReferenceError{Ref: DefinitionRef(name), RefType: "local", IsCircular: true}
			}
			seen[cur] = true
		}
	}
	return nil
}
