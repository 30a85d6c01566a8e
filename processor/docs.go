package processor

import "github.com/erraggy/oasgen/apimeta"

// DocLookup supplies documentation text for controllers and methods. Missing
// documentation is the empty string, never an error.
type DocLookup interface {
	Summary(c *apimeta.Controller, m *apimeta.Method) string
	Remarks(c *apimeta.Controller, m *apimeta.Method) string
	Returns(c *apimeta.Controller, m *apimeta.Method) string
	ParameterDoc(c *apimeta.Controller, m *apimeta.Method, name string) string
}

// StaticDocs reads the Docs carried by the metadata itself. A nil method
// selects the controller's documentation.
type StaticDocs struct{}

func (StaticDocs) docs(c *apimeta.Controller, m *apimeta.Method) apimeta.Docs {
	switch {
	case m != nil:
		return m.Docs
	case c != nil:
		return c.Docs
	}
	return apimeta.Docs{}
}

// Summary implements DocLookup.
func (s StaticDocs) Summary(c *apimeta.Controller, m *apimeta.Method) string {
	return s.docs(c, m).Summary
}

// Remarks implements DocLookup.
func (s StaticDocs) Remarks(c *apimeta.Controller, m *apimeta.Method) string {
	return s.docs(c, m).Remarks
}

// Returns implements DocLookup.
func (s StaticDocs) Returns(c *apimeta.Controller, m *apimeta.Method) string {
	return s.docs(c, m).Returns
}

// ParameterDoc implements DocLookup.
func (s StaticDocs) ParameterDoc(c *apimeta.Controller, m *apimeta.Method, name string) string {
	return s.docs(c, m).Params[name]
}

func docsOf(oc *Context) DocLookup {
	if oc.Docs != nil {
		return oc.Docs
	}
	return StaticDocs{}
}
