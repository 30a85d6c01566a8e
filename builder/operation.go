package builder

import (
	"strconv"
	"strings"

	"github.com/erraggy/oasgen/apimeta"
	"github.com/erraggy/oasgen/openapi"
)

// operationIDs tracks the operation IDs handed out for one document.
type operationIDs struct {
	used map[string]bool
}

func newOperationIDs() *operationIDs {
	return &operationIDs{used: make(map[string]bool)}
}

// next returns the ID for m: its OperationID attribute, else
// "<controller>_<method>" without the "Controller" and "Async" suffixes.
// A taken ID gets the first free numeric suffix starting at 2.
func (ids *operationIDs) next(c *apimeta.Controller, m *apimeta.Method) string {
	return ids.claim(baseOperationID(c, m))
}

func (ids *operationIDs) claim(id string) string {
	candidate := id
	for n := 2; ids.used[candidate]; n++ {
		candidate = id + strconv.Itoa(n)
	}
	ids.used[candidate] = true
	return candidate
}

// release frees id, for operations that were vetoed or rejected.
func (ids *operationIDs) release(id string) {
	delete(ids.used, id)
}

func baseOperationID(c *apimeta.Controller, m *apimeta.Method) string {
	if a, ok := apimeta.Find[apimeta.OperationID](m.Attributes); ok && a.ID != "" {
		return a.ID
	}
	return controllerBaseName(c) + "_" + strings.TrimSuffix(m.Name, "Async")
}

// dedupeOperationIDs renames operations whose IDs collide after processors
// ran, keeping the first occurrence in document order. Renamed operations
// get the first numeric suffix not used anywhere in the document.
func dedupeOperationIDs(doc *openapi.Document, logger openapi.Logger) {
	refs := doc.Operations()
	taken := newOperationIDs()
	for _, ref := range refs {
		taken.used[ref.Operation.OperationID] = true
	}

	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		op := ref.Operation
		if op.OperationID == "" {
			continue
		}
		if !seen[op.OperationID] {
			seen[op.OperationID] = true
			continue
		}
		renamed := taken.claim(op.OperationID)
		logger.Debug("operation ID renamed", "path", ref.Path, "method", ref.Method, "from", op.OperationID, "to", renamed)
		op.OperationID = renamed
		seen[renamed] = true
	}
}
