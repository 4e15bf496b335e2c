// Package memory provides a process-local postal-code cache, used when no
// cache file is configured and in tests.
package memory

import (
    "context"
    "sync"

    "github.com/tinoosan/fluxo/internal/cep"
    "github.com/tinoosan/fluxo/internal/ledger"
)

var _ cep.Cache = (*Store)(nil)

// Store is guarded by an RWMutex for concurrent reads/writes.
type Store struct {
    mu    sync.RWMutex
    addrs map[string]ledger.Address
}

// New constructs an empty in-memory store.
func New() *Store {
    return &Store{addrs: make(map[string]ledger.Address)}
}

// Get implements cep.Cache.
func (s *Store) Get(_ context.Context, code string) (ledger.Address, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    a, ok := s.addrs[code]
    if !ok { return ledger.Address{}, cep.ErrCacheMiss }
    return a, nil
}

// Put implements cep.Cache.
func (s *Store) Put(_ context.Context, code string, a ledger.Address) error {
    s.mu.Lock()
    s.addrs[code] = a
    s.mu.Unlock()
    return nil
}

// Len reports how many codes are cached.
func (s *Store) Len() int {
    s.mu.RLock()
    defer s.mu.RUnlock()
    return len(s.addrs)
}

// Reset drops every entry.
func (s *Store) Reset() {
    s.mu.Lock()
    s.addrs = map[string]ledger.Address{}
    s.mu.Unlock()
}
