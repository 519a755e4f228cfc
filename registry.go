package sqlmodel

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"
)

// DefaultConnectionName is the name of the connection used when none is specified
const DefaultConnectionName = "DefaultConnection"

// Registry maps names to connections. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Conn)}
}

// Register stores conn under name, replacing any previous connection.
// An empty name registers the default connection.
func (r *Registry) Register(name string, conn Conn) {
	if name == "" {
		name = DefaultConnectionName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[name] = conn
}

// Lookup returns the connection registered under name.
// An empty name looks up the default connection.
func (r *Registry) Lookup(name string) (Conn, bool) {
	if name == "" {
		name = DefaultConnectionName
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[name]
	return conn, ok
}

// Default returns the default connection
func (r *Registry) Default() (Conn, bool) {
	return r.Lookup(DefaultConnectionName)
}

// Unregister removes the connection registered under name without closing it
func (r *Registry) Unregister(name string) {
	if name == "" {
		name = DefaultConnectionName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, name)
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.conns))
}

// NewQuery creates a query on the connection registered under name
func (r *Registry) NewQuery(name, query string, opts ...QueryOption) (*Query, error) {
	conn, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoConnection, name)
	}
	return NewQuery(conn, query, opts...), nil
}

// Close closes every registered connection that implements io.Closer and
// empties the registry
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(r.conns)) {
		if closer, ok := r.conns[name].(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close connection %q: %w", name, err))
			}
		}
	}
	clear(r.conns)
	return errors.Join(errs...)
}
