package processor

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/erraggy/oasgen/oaserrors"
)

// Factory creates an operation processor from UseProcessor arguments.
type Factory func(args map[string]any) (OperationProcessor, error)

// Registry maps processor names to factories. It is safe for concurrent
// use. Names are matched case-insensitively.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a registry holding the built-in processors under
// "ApiVersion", "Tags", "SummaryAndDescription", "ExtensionData",
// "MediaTypes" and "Deprecated".
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("ApiVersion", func(args map[string]any) (OperationProcessor, error) {
		versions, err := stringList(args["versions"])
		if err != nil {
			return nil, fmt.Errorf("versions: %w", err)
		}
		return APIVersion{IncludedVersions: versions}, nil
	})
	r.Register("Tags", static(Tags{}))
	r.Register("SummaryAndDescription", static(SummaryAndDescription{}))
	r.Register("ExtensionData", static(ExtensionData{}))
	r.Register("MediaTypes", static(MediaTypes{}))
	r.Register("Deprecated", static(Deprecated{}))
	return r
}

func static(p OperationProcessor) Factory {
	return func(map[string]any) (OperationProcessor, error) { return p, nil }
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = f
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the processor registered under name. An unknown name is an
// oaserrors.LookupError.
func (r *Registry) Create(name string, args map[string]any) (OperationProcessor, error) {
	r.mu.RLock()
	f, ok := r.factories[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, &oaserrors.LookupError{Kind: "processor", Name: name}
	}
	p, err := f(args)
	if err != nil {
		return nil, fmt.Errorf("processor %s: %w", name, err)
	}
	return p, nil
}

// stringList accepts a string (comma separated) or a list of strings.
func stringList(v any) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		var out []string
		for _, s := range strings.Split(x, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	case []string:
		return x, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected strings, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a string or list, got %T", v)
}
