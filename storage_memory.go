package weave

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryDefinitionStore is an in-memory DefinitionStore, primarily for
// testing and as the always-available fallback driver. All data is lost
// when the process terminates.
type MemoryDefinitionStore struct {
	mu     sync.RWMutex
	defs   map[string]*StoredDefinition
	closed bool
}

type memoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameMemory, &memoryStorageDriver{})
}

func (memoryStorageDriver) Open(string) (DefinitionStore, error) {
	return NewMemoryDefinitionStore(), nil
}

// NewMemoryDefinitionStore creates an empty in-memory DefinitionStore.
func NewMemoryDefinitionStore() *MemoryDefinitionStore {
	return &MemoryDefinitionStore{defs: make(map[string]*StoredDefinition)}
}

func (s *MemoryDefinitionStore) Get(ctx context.Context, name string) (*StoredDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, NewStorageError(ErrMsgStorageClosed, nil)
	}
	def, ok := s.defs[name]
	if !ok {
		return nil, NewDefinitionNotFoundError(name)
	}
	cp := *def
	return &cp, nil
}

func (s *MemoryDefinitionStore) Save(ctx context.Context, def *StoredDefinition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return NewStorageError(ErrMsgStorageClosed, nil)
	}
	cp := *def
	cp.UpdatedAt = time.Now()
	s.defs[def.Name] = &cp
	return nil
}

func (s *MemoryDefinitionStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return NewStorageError(ErrMsgStorageClosed, nil)
	}
	if _, ok := s.defs[name]; !ok {
		return NewDefinitionNotFoundError(name)
	}
	delete(s.defs, name)
	return nil
}

func (s *MemoryDefinitionStore) List(ctx context.Context) ([]*StoredDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, NewStorageError(ErrMsgStorageClosed, nil)
	}

	names := make([]string, 0, len(s.defs))
	for n := range s.defs {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]*StoredDefinition, 0, len(names))
	for _, n := range names {
		cp := *s.defs[n]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryDefinitionStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
