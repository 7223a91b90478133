package weave

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/tmplforge/weave/internal"
)

// StoredDefinition is a Definition whose handler is data instead of code:
// a substitution Template referencing its positional arguments as
// "${0}", "${1}", ... This is what lets a DefinitionStore persist
// extension-sourced Definitions across process restarts without
// shipping compiled Go.
type StoredDefinition struct {
	Name     string
	Aliases  []string
	Category string
	Template string
	ListMin  int
	ListMax  int // Unbounded (-1) for no limit
	UpdatedAt time.Time
}

// DefinitionStore is the interface for pluggable backends persisting
// StoredDefinitions. Implementations must be safe for concurrent use.
type DefinitionStore interface {
	Get(ctx context.Context, name string) (*StoredDefinition, error)
	Save(ctx context.Context, def *StoredDefinition) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]*StoredDefinition, error)
	Close() error
}

// StorageDriver is a factory for creating DefinitionStore instances.
// Drivers register themselves during init() against a shared registry
// keyed by driver name.
type StorageDriver interface {
	Open(connectionString string) (DefinitionStore, error)
}

var (
	storageDriversMu sync.RWMutex
	storageDrivers   = make(map[string]StorageDriver)
)

// RegisterStorageDriver registers a storage driver by name. Panics if a
// driver with the same name is already registered or if driver is nil.
func RegisterStorageDriver(name string, driver StorageDriver) {
	storageDriversMu.Lock()
	defer storageDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStorageDriver)
	}
	if _, exists := storageDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyExists + ": " + name)
	}
	storageDrivers[name] = driver
}

// OpenDefinitionStore opens a DefinitionStore using the named driver.
// The connection string format is driver-specific.
func OpenDefinitionStore(driverName, connectionString string) (DefinitionStore, error) {
	storageDriversMu.RLock()
	driver, ok := storageDrivers[driverName]
	storageDriversMu.RUnlock()

	if !ok {
		return nil, NewStorageDriverNotFoundError(driverName)
	}
	return driver.Open(connectionString)
}

// ListStorageDrivers returns the names of all registered storage drivers.
func ListStorageDrivers() []string {
	storageDriversMu.RLock()
	defer storageDriversMu.RUnlock()

	names := make([]string, 0, len(storageDrivers))
	for name := range storageDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var templatePlaceholder = regexp.MustCompile(`\$\{(\d+)\}`)

// templateHandler builds a HandlerFunc from a StoredDefinition's
// substitution template: "${0}", "${1}", ... refer to the invocation's
// arguments by position (HandlerContext.List, since a StoredDefinition
// has no fixed ArgSpecs of its own — every argument is variadic);
// anything out of range substitutes "".
func templateHandler(tmpl string) HandlerFunc {
	return func(ctx internal.HandlerContext) internal.HandlerOutcome {
		out := templatePlaceholder.ReplaceAllStringFunc(tmpl, func(m string) string {
			idx, err := strconv.Atoi(templatePlaceholder.FindStringSubmatch(m)[1])
			if err != nil || idx < 0 || idx >= len(ctx.List) {
				return ""
			}
			return ctx.List[idx]
		})
		return internal.Value(out)
	}
}

// toDefinition converts a StoredDefinition into a registrable Definition,
// sourced as SourceExtension. ListMax of 0 (the zero value) means
// unbounded, matching the natural expectation that a freshly constructed
// StoredDefinition accepts any number of arguments unless told otherwise.
func (sd *StoredDefinition) toDefinition() *internal.Definition {
	max := sd.ListMax
	if max == 0 {
		max = internal.Unbounded
	}
	return &internal.Definition{
		Name:     sd.Name,
		Aliases:  sd.Aliases,
		Category: sd.Category,
		Source:   internal.SourceExtension,
		List:     &internal.ListPolicy{Min: sd.ListMin, Max: max},
		Handler:  templateHandler(sd.Template),
	}
}

// RegisterExtension registers def's handler in the Engine's Registry and
// remembers its template text so a later Persist call can write it back
// to a DefinitionStore.
func (e *Engine) RegisterExtension(def *StoredDefinition) error {
	if err := e.registry.RegisterMacro(def.toDefinition()); err != nil {
		return err
	}
	e.extMu.Lock()
	e.extensions[def.Name] = def
	e.extMu.Unlock()
	return nil
}

// Persist writes the named extension Definition (previously installed via
// RegisterExtension) to store. Returns NewDefinitionNotFoundError if name
// was not registered through RegisterExtension.
func (e *Engine) Persist(ctx context.Context, store DefinitionStore, name string) error {
	e.extMu.RLock()
	def, ok := e.extensions[name]
	e.extMu.RUnlock()
	if !ok {
		return NewDefinitionNotFoundError(name)
	}
	return store.Save(ctx, def)
}

// LoadExtensions installs every StoredDefinition in store into the
// Engine's Registry, sourced as SourceExtension. It is the startup-time
// counterpart to Persist.
func (e *Engine) LoadExtensions(ctx context.Context, store DefinitionStore) error {
	defs, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, def := range defs {
		if err := e.RegisterExtension(def); err != nil {
			return err
		}
	}
	return nil
}
