package schemagen

import (
	"strconv"

	"github.com/erraggy/oasgen/apimeta"
	"github.com/erraggy/oasgen/openapi"
)

// schemaCache tracks which types own which definitions. Types are keyed by
// identity, so two distinct types with the same name get distinct entries.
type schemaCache struct {
	nameByType map[*apimeta.Type]string
	typeByName map[string]*apimeta.Type
}

func newSchemaCache() *schemaCache {
	return &schemaCache{
		nameByType: make(map[*apimeta.Type]string),
		typeByName: make(map[string]*apimeta.Type),
	}
}

func (c *schemaCache) nameFor(t *apimeta.Type) (string, bool) {
	name, ok := c.nameByType[t]
	return name, ok
}

func (c *schemaCache) set(t *apimeta.Type, name string) {
	c.nameByType[t] = name
	c.typeByName[name] = t
}

func (c *schemaCache) remove(t *apimeta.Type) {
	if name, ok := c.nameByType[t]; ok {
		delete(c.typeByName, name)
		delete(c.nameByType, t)
	}
}

// reserve picks a free name for t starting from base: base, base2, base3, ...
// A name is taken when another type owns it or the document already defines
// it for something this cache did not create.
func (c *schemaCache) reserve(t *apimeta.Type, base string, defs map[string]*openapi.Schema) string {
	name := base
	for i := 2; ; i++ {
		owner, owned := c.typeByName[name]
		_, defined := defs[name]
		if (!owned && !defined) || owner == t {
			break
		}
		name = base + strconv.Itoa(i)
	}
	c.set(t, name)
	return name
}
