// Package loader discovers modules: compiled-in plugins that register a
// factory from init(), and Go script modules interpreted from a directory.
package loader

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/PancyStudios/DiscModGo/pkg/logger"
	"github.com/PancyStudios/DiscModGo/pkg/module"
)

var (
	// ErrNilModule is returned when a factory or script produced no module
	ErrNilModule = stderrors.New("loader: module is nil")
	// ErrUnnamed is returned when a module has an empty name
	ErrUnnamed = stderrors.New("loader: module has no name")
)

// Factory builds a fresh module instance
type Factory func() *module.Module

type registration struct {
	source  string
	factory Factory
}

var (
	registryMu sync.Mutex
	registry   []registration
)

// Register adds a compiled-in plugin. It is meant to be called from init().
func Register(factory Factory) {
	if factory == nil {
		return
	}

	source := "unknown"
	if _, file, line, ok := runtime.Caller(1); ok {
		source = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	registryMu.Lock()
	registry = append(registry, registration{source: source, factory: factory})
	registryMu.Unlock()
}

// Registered instantiates every registered plugin in registration order.
// A factory that panics or returns an invalid module is logged and skipped.
func Registered() []*module.Module {
	registryMu.Lock()
	regs := make([]registration, len(registry))
	copy(regs, registry)
	registryMu.Unlock()

	mods := make([]*module.Module, 0, len(regs))
	for _, r := range regs {
		m, err := build(r.factory)
		if err != nil {
			logger.Error(fmt.Sprintf("Error cargando el plugin registrado en %s: %v", r.source, err), "Loader")
			continue
		}
		mods = append(mods, m)
	}
	return mods
}

// build calls a factory, turning a panic into an error
func build(factory Factory) (m *module.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	m = factory()
	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks that m can be added to a bot
func Validate(m *module.Module) error {
	if m == nil {
		return ErrNilModule
	}
	if m.Name() == "" {
		return ErrUnnamed
	}
	return nil
}

// resetRegistryForTesting clears the registry.
// This function should only be called from test code.
func resetRegistryForTesting() {
	registryMu.Lock()
	registry = nil
	registryMu.Unlock()
}
