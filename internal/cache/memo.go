// Package cache provides function type caches: an in-process memo keyed by
// syntax node identity and a persistent sqlite store of canonical renderings.
package cache

import (
	"sync"

	"github.com/funvibe/hxtype/internal/ast"
	"github.com/funvibe/hxtype/internal/typesystem"
)

type memoKey struct {
	node *ast.FunctionType
	spec string
}

// Memo implements typesystem.FunctionCache. Resolved function types are
// immutable, so cached values are shared between callers.
type Memo struct {
	mu      sync.RWMutex
	entries map[memoKey]*typesystem.FunctionReference
	hits    int
}

func NewMemo() *Memo {
	return &Memo{entries: make(map[memoKey]*typesystem.FunctionReference)}
}

func (m *Memo) Load(node *ast.FunctionType, specKey string) (*typesystem.FunctionReference, bool) {
	m.mu.RLock()
	ref, ok := m.entries[memoKey{node: node, spec: specKey}]
	m.mu.RUnlock()
	if ok {
		m.mu.Lock()
		m.hits++
		m.mu.Unlock()
	}
	return ref, ok
}

func (m *Memo) Store(node *ast.FunctionType, specKey string, ref *typesystem.FunctionReference) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[memoKey{node: node, spec: specKey}] = ref
}

func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Hits is the number of successful loads.
func (m *Memo) Hits() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hits
}
