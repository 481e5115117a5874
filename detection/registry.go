package detection

import (
	"fmt"
	"sync"
)

// Factory creates a Source from a generic config map.
type Factory func(cfg map[string]any) (Source, error)

var (
	factoryMu sync.RWMutex
	factories = make(map[string]Factory)
)

// RegisterFactory registers a source factory under a name. Backend packages
// call this from init().
func RegisterFactory(name string, factory Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factories[name] = factory
}

// NewSource creates a Source by registered factory name.
func NewSource(name string, cfg map[string]any) (Source, error) {
	factoryMu.RLock()
	factory, ok := factories[name]
	factoryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, name)
	}
	return factory(cfg)
}

// RegisteredSources returns the names of all registered source factories.
func RegisteredSources() []string {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}
