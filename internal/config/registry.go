package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dayaar/frontdesk/internal/backend"
)

// ErrBackendNotRegistered is returned by [Registry.CreateBackend] when no
// factory has been registered under the requested mode.
var ErrBackendNotRegistered = errors.New("config: backend not registered")

// Registry maps backend modes to their constructor functions. The wiring
// layer registers the built-in modes; tests register doubles. It is safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	backends map[BackendMode]func(BackendConfig) (backend.Responder, error)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[BackendMode]func(BackendConfig) (backend.Responder, error)),
	}
}

// RegisterBackend registers a responder factory under the given mode,
// replacing any previous registration.
func (r *Registry) RegisterBackend(mode BackendMode, factory func(BackendConfig) (backend.Responder, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[mode] = factory
}

// CreateBackend constructs the responder selected by cfg.Mode. An empty mode
// falls back to [BackendScripted].
func (r *Registry) CreateBackend(cfg BackendConfig) (backend.Responder, error) {
	mode := cfg.Mode
	if mode == "" {
		mode = BackendScripted
	}

	r.mu.RLock()
	factory, ok := r.backends[mode]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotRegistered, mode)
	}
	return factory(cfg)
}
