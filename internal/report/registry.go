package report

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps report type names (e.g. "CSV") to formatter factories.
// Lookups are case-sensitive.
//
// Each format package registers itself with the default registry from an
// init() function; the CLI blank-imports the format packages it ships with.
// To add a format:
//  1. Create internal/report/<format>/ with a Formatter implementation.
//  2. Call report.Register("<TYPE>", factory) in an init() function.
//  3. Import the package (blank import) in cmd/itemreport/formats.go.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a formatter factory under name.
//
// Panics if name is empty or already registered.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		panic("report: format name must not be empty")
	}
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("report: format %q already registered", name))
	}
	r.factories[name] = factory
}

// Get returns the factory registered under name. The returned error wraps
// ErrUnsupportedReportType.
func (r *Registry) Get(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, &UnsupportedReportTypeError{Type: name}
	}
	return factory, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry that format packages
// register with.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a factory to the default registry.
func Register(name string, factory Factory) {
	defaultRegistry.Register(name, factory)
}

// Formats returns the names in the default registry.
func Formats() []string {
	return defaultRegistry.List()
}
