package internal

import "go.uber.org/zap"

// SystemInfo carries ambient system-level context a handler may want to
// read (e.g. which model is driving the surrounding chat session).
type SystemInfo struct {
	Model string
}

// EnvFunctions bundles the function-valued hooks an Environment carries:
// PostProcess runs once over the fully expanded document before it is
// returned to the caller (distinct from the engine's own built-in
// postprocessors — this is caller-supplied). Original is a one-shot
// accessor: it returns its captured string on the first call and ""
// on every later call against the same Environment, for a handler that
// wants to echo an original value exactly once per evaluation.
type EnvFunctions struct {
	PostProcess func(string) string
	Original    func() string
}

// Environment is the immutable-at-use record handlers read from. It is
// never mutated once BuildEnvironment returns; handlers receive a
// pointer purely to avoid copying the maps it holds, not as license to
// write through it.
type Environment struct {
	Names         map[string]string // persona name bindings: user/bot/char/group
	Character     map[string]any
	System        SystemInfo
	DynamicMacros map[string]HandlerFunc // per-evaluation ad-hoc definitions
	Functions     EnvFunctions
	Extra         map[string]any
	ContentHash   string // set by a provider (ContentHashProvider); the engine reads it as the result-cache key
}

// ProviderFunc contributes to an Environment under construction. A
// provider that panics is recovered and logged; it does not abort the
// other providers in its stage or later stages.
type ProviderFunc func(*Environment)

// ProviderChain is the ordered EARLY/NORMAL/LATE bucket set run by
// BuildEnvironment. Later stages run after earlier ones complete in
// full, so a LATE provider can always see what an EARLY one set.
type ProviderChain struct {
	Early  []ProviderFunc
	Normal []ProviderFunc
	Late   []ProviderFunc
}

// BuildEnvironment runs every provider in chain, in EARLY, NORMAL, LATE
// order, against a freshly zeroed Environment, and returns it.
func BuildEnvironment(chain ProviderChain, diag Diagnostics) *Environment {
	if diag == nil {
		diag = NewNopDiagnostics()
	}
	env := &Environment{
		Names:         make(map[string]string),
		Character:     make(map[string]any),
		DynamicMacros: make(map[string]HandlerFunc),
		Extra:         make(map[string]any),
	}
	runProviderStage(env, chain.Early, diag)
	runProviderStage(env, chain.Normal, diag)
	runProviderStage(env, chain.Late, diag)
	return env
}

func runProviderStage(env *Environment, providers []ProviderFunc, diag Diagnostics) {
	for _, p := range providers {
		runProviderSafely(env, p, diag)
	}
}

func runProviderSafely(env *Environment, p ProviderFunc, diag Diagnostics) {
	defer func() {
		if r := recover(); r != nil {
			diag.InternalError(LogMsgProviderPanic, zap.Any("panic", r))
		}
	}()
	p(env)
}
