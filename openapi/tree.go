package openapi

import (
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"
)

// omap is an insertion-ordered mapping decoded from a yaml.Node. All
// accessors are nil-safe.
type omap struct {
	keys []string
	vals map[string]any
}

// decodeTree converts a node into omap, []any, and scalar values.
func decodeTree(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return decodeTree(n.Content[0])
	case yaml.AliasNode:
		return decodeTree(n.Alias)
	case yaml.MappingNode:
		m := &omap{vals: make(map[string]any, len(n.Content)/2)}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := decodeTree(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			if _, ok := m.vals[key]; !ok {
				m.keys = append(m.keys, key)
			}
			m.vals[key] = v
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := decodeTree(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unexpected node kind %v", n.Line, n.Kind)
	}
}

func (m *omap) has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.vals[key]
	return ok
}

func (m *omap) get(key string) any {
	if m == nil {
		return nil
	}
	return m.vals[key]
}

func (m *omap) str(key string) string {
	return scalarString(m.get(key))
}

func (m *omap) boolean(key string) bool {
	b, _ := m.get(key).(bool)
	return b
}

func (m *omap) integer(key string) int {
	switch v := m.get(key).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

func (m *omap) obj(key string) *omap {
	o, _ := m.get(key).(*omap)
	return o
}

func (m *omap) list(key string) []any {
	l, _ := m.get(key).([]any)
	return l
}

func (m *omap) strings(key string) []string {
	var out []string
	for _, v := range m.list(key) {
		if s := scalarString(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// extensions returns the "x-" keys not listed in skip, as plain values.
func (m *omap) extensions(skip ...string) map[string]any {
	if m == nil {
		return nil
	}
	var ext map[string]any
outer:
	for _, k := range m.keys {
		if !strings.HasPrefix(k, "x-") {
			continue
		}
		for _, s := range skip {
			if k == s {
				continue outer
			}
		}
		if ext == nil {
			ext = make(map[string]any)
		}
		ext[k] = plain(m.vals[k])
	}
	return ext
}

// plain converts decoded tree values into map[string]any and []any.
func plain(v any) any {
	switch x := v.(type) {
	case *omap:
		if x == nil {
			return nil
		}
		out := make(map[string]any, len(x.keys))
		for _, k := range x.keys {
			out[k] = plain(x.vals[k])
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *omap, []any:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
