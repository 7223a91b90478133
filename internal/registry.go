package internal

import (
	"sort"
	"sync"

	"github.com/itsatony/go-cuserr"
	"go.uber.org/zap"
)

// Registry is the name/alias -> Definition map, guarded by a RWMutex
// for concurrent read-heavy access. Each entry carries a full
// arity/type schema, its aliases, and its strictness setting.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]*Definition // canonical name -> def
	aliases     map[string]string      // alias -> canonical name
	diag        Diagnostics
}

// NewRegistry creates an empty registry.
func NewRegistry(diag Diagnostics) *Registry {
	if diag == nil {
		diag = NewNopDiagnostics()
	}
	diag.RegistrationIssue(LogMsgRegistryCreated)
	return &Registry{
		definitions: make(map[string]*Definition),
		aliases:     make(map[string]string),
		diag:        diag,
	}
}

// RegisterMacro adds def under its Name and every Alias. Registration is
// atomic: if any name or alias collides with an existing registration,
// nothing is registered and an error is returned (this is a registration
// error per the error taxonomy — it blocks install, it is never
// recovered from like a syntax or runtime error is).
func (r *Registry) RegisterMacro(def *Definition) error {
	if def == nil {
		return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgNilDefinition)
	}
	if def.Name == "" {
		return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgEmptyName)
	}
	if def.Handler == nil {
		return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgNilHandler).WithMetadata(MetaKeyName, def.Name)
	}
	if err := validateDefinitionShape(def); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{def.Name}, def.Aliases...)
	for _, n := range names {
		if _, exists := r.definitions[n]; exists {
			r.diag.RegistrationIssue(LogMsgMacroCollision, zap.String(LogFieldName, n))
			return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgNameAlreadyRegistered).WithMetadata(MetaKeyName, n)
		}
		if _, exists := r.aliases[n]; exists {
			r.diag.RegistrationIssue(LogMsgMacroCollision, zap.String(LogFieldAlias, n))
			return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgNameAlreadyRegistered).WithMetadata(MetaKeyName, n)
		}
	}

	r.definitions[def.Name] = def
	for _, alias := range def.Aliases {
		r.aliases[alias] = def.Name
	}
	r.diag.RegistrationIssue(LogMsgMacroRegistered, zap.String(LogFieldName, def.Name))
	return nil
}

// validateDefinitionShape checks the arity/type schema itself, independent
// of collisions: a negative List bound, a malformed List (Max < Min), an
// optional ArgSpec followed by a required one, or an ArgSpec.Types value
// outside the known type bitmask are all registration errors that must
// block installation rather than surface later as a confusing runtime
// mismatch.
func validateDefinitionShape(def *Definition) error {
	if def.List != nil {
		if def.List.Min < 0 {
			return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgNegativeArgCount).WithMetadata(MetaKeyName, def.Name)
		}
		if def.List.Max < 0 && def.List.Max != Unbounded {
			return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgNegativeArgCount).WithMetadata(MetaKeyName, def.Name)
		}
		if def.List.Max != Unbounded && def.List.Max < def.List.Min {
			return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgMalformedList).WithMetadata(MetaKeyName, def.Name)
		}
	}

	seenOptional := false
	for _, spec := range def.Args {
		if seenOptional && spec.Required {
			return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgOptionalBeforeRequired).WithMetadata(MetaKeyName, def.Name)
		}
		if !spec.Required {
			seenOptional = true
		}
		if spec.Types&^ArgTypeAny != 0 {
			return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgUnknownArgType).WithMetadata(MetaKeyName, def.Name)
		}
	}
	return nil
}

// UnregisterMacro removes a Definition and all its aliases by canonical
// name. It is a no-op if name is unknown.
func (r *Registry) UnregisterMacro(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := r.definitions[name]
	if !ok {
		return
	}
	delete(r.definitions, name)
	for _, alias := range def.Aliases {
		delete(r.aliases, alias)
	}
}

// GetMacro resolves name (canonical or alias) to its Definition.
func (r *Registry) GetMacro(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(name)
}

func (r *Registry) lookupLocked(name string) (*Definition, bool) {
	if def, ok := r.definitions[name]; ok {
		return def, true
	}
	if canonical, ok := r.aliases[name]; ok {
		def, ok := r.definitions[canonical]
		return def, ok
	}
	return nil, false
}

// HasMacro reports whether name (canonical or alias) resolves to a
// Definition.
func (r *Registry) HasMacro(name string) bool {
	_, ok := r.GetMacro(name)
	return ok
}

// ListMacros returns every registered Definition, sorted by canonical
// name, for introspection (the CLI's "list" subcommand walks this).
func (r *Registry) ListMacros() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.definitions))
	for n := range r.definitions {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]*Definition, 0, len(names))
	for _, n := range names {
		out = append(out, r.definitions[n])
	}
	return out
}

// Count returns the number of distinct canonical Definitions registered.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.definitions)
}

// ExecuteMacro validates rawArgs against def's arity/type schema and
// dispatches to def.Handler, implementing the arity/type validation
// algorithm: a mismatch is a runtime error when the definition is
// StrictArgs (the caller keeps the invocation's raw source text in that
// case), and a best-effort coercion (omitted positionals take their
// ArgSpec.DefaultValue, extra args beyond the list's max dropped, and all
// extra args dropped when the Definition has no List) when it is not, so
// the handler still runs.
func (r *Registry) ExecuteMacro(def *Definition, callName string, rawArgs []string, env *Environment, rng Range) (outcome HandlerOutcome) {
	args, list, mismatch := r.validateAndCoerce(def, rawArgs)
	if mismatch && def.StrictArgs {
		return RuntimeErrorf(ErrMsgArityOrTypeMismatch)
	}

	defer func() {
		if p := recover(); p != nil {
			outcome = InternalErrorf(nil, ErrFmtHandlerPanic, p)
		}
	}()

	ctx := HandlerContext{Name: callName, Args: args, List: list, Env: env, Range: rng}
	return def.Handler(ctx)
}

// validateAndCoerce checks rawArgs against def's fixed ArgSpecs and
// (optional) trailing ListPolicy, returning the args/list split to hand
// to the handler and whether any mismatch (arity or type) was found.
func (r *Registry) validateAndCoerce(def *Definition, rawArgs []string) (args, list []string, mismatch bool) {
	fixedN := len(def.Args)

	required := 0
	for _, spec := range def.Args {
		if spec.Required {
			required++
		}
	}

	if def.List == nil {
		if len(rawArgs) < required || len(rawArgs) > fixedN {
			mismatch = true
		}
	} else {
		if len(rawArgs) < required {
			mismatch = true
		}
		if len(rawArgs) > fixedN && len(rawArgs) < fixedN+def.List.Min {
			mismatch = true
		}
		if def.List.Max != Unbounded && len(rawArgs) > fixedN+def.List.Max {
			mismatch = true
		}
	}

	for i, spec := range def.Args {
		if i >= len(rawArgs) {
			break
		}
		if !spec.Types.conforms(rawArgs[i]) {
			mismatch = true
		}
	}

	args = make([]string, fixedN)
	for i := 0; i < fixedN; i++ {
		if i < len(rawArgs) {
			args[i] = rawArgs[i]
			continue
		}
		// Apply defaults: an omitted optional positional substitutes its
		// DefaultValue instead of the zero value "".
		args[i] = def.Args[i].DefaultValue
	}
	if def.List != nil && len(rawArgs) > fixedN {
		list = append(list, rawArgs[fixedN:]...)
		if def.List.Max != Unbounded && len(list) > def.List.Max {
			list = list[:def.List.Max]
		}
	}
	return args, list, mismatch
}

// Registration / runtime error messages.
const (
	ErrCodeRegistry = "WEAVE_REGISTRY"

	ErrMsgNilDefinition          = "definition cannot be nil"
	ErrMsgEmptyName              = "definition name cannot be empty"
	ErrMsgNilHandler             = "definition handler cannot be nil"
	ErrMsgNameAlreadyRegistered  = "name or alias already registered"
	ErrMsgArityOrTypeMismatch    = "argument arity or type mismatch"
	ErrMsgNegativeArgCount       = "argument count cannot be negative"
	ErrMsgMalformedList          = "list max cannot be less than list min"
	ErrMsgOptionalBeforeRequired = "optional argument cannot precede a required argument"
	ErrMsgUnknownArgType         = "argument type is not in the known type set"
	ErrFmtHandlerPanic           = "handler panicked: %v"

	MetaKeyName = "name"
)
