// Package ident implements the process-wide identifier intern table.
//
// Identifiers compare by pointer equality: two Idents are the same
// identifier if and only if they came from the same Table.Unique call
// with equal strings.
package ident

import "sync"

// Ident is an interned string. The zero value is not a valid Ident.
type Ident struct {
	name string
}

// String returns the identifier's text.
func (id *Ident) String() string {
	if id == nil {
		return ""
	}
	return id.name
}

// Table is an insertion-only string interner, safe for concurrent use.
type Table struct {
	mu   sync.RWMutex
	seen map[string]*Ident
}

// NewTable returns an empty intern table.
func NewTable() *Table {
	return &Table{seen: make(map[string]*Ident)}
}

// Unique returns the canonical Ident for name, creating it on first use.
func (t *Table) Unique(name string) *Ident {
	t.mu.RLock()
	id, ok := t.seen[name]
	t.mu.RUnlock()
	if ok {
		return id
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.seen[name]; ok {
		return id
	}
	id = &Ident{name: name}
	t.seen[name] = id
	return id
}

// Len reports how many distinct identifiers have been interned.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.seen)
}

// Same reports whether a and b are the same interned identifier.
func Same(a, b *Ident) bool {
	return a == b
}
