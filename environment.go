package weave

import (
	"sync"

	"github.com/tmplforge/weave/internal"
)

// ProviderFunc contributes to an Environment under construction. A
// provider that panics is recovered and logged by BuildEnvironment; it
// never aborts the other providers in its stage or later stages.
type ProviderFunc = internal.ProviderFunc

// ProviderChain is the ordered EARLY/NORMAL/LATE bucket set run by
// BuildEnvironment. Later stages run after earlier ones complete in
// full, so a LATE provider can always see what an EARLY one set.
type ProviderChain = internal.ProviderChain

// BuildEnvironment runs every provider in chain, in EARLY, NORMAL, LATE
// order, against a freshly zeroed Environment, and returns it. A nil sink
// becomes NewNopSink().
func BuildEnvironment(chain ProviderChain, sink Sink) *Environment {
	return internal.BuildEnvironment(chain, sink)
}

// NameProvider sets one persona name binding (user/bot/char/group).
func NameProvider(key, value string) ProviderFunc {
	return func(env *Environment) {
		env.Names[key] = value
	}
}

// PersonaNames holds the raw inputs the name-resolution algorithm needs:
// global defaults, optional per-call overrides, and the active group (if
// any). A non-empty ActiveGroup selects group mode.
type PersonaNames struct {
	UserGlobal   string
	UserOverride string
	CharGlobal   string
	CharOverride string

	ActiveGroup   string // non-empty selects group mode
	GroupOverride string
}

// PersonaProvider derives the full set of persona name bindings
// (user, char, group, groupNotMuted, notChar) from PersonaNames.
// names.user and names.char fall back from a per-call override to the
// matching global default. When a group is active, group, groupNotMuted
// and notChar all resolve to GroupOverride (if set) or ActiveGroup. In
// solo mode, group and groupNotMuted resolve to char, and notChar
// resolves to user.
func PersonaProvider(p PersonaNames) ProviderFunc {
	return func(env *Environment) {
		user := p.UserOverride
		if user == "" {
			user = p.UserGlobal
		}
		char := p.CharOverride
		if char == "" {
			char = p.CharGlobal
		}
		env.Names[NameKeyUser] = user
		env.Names[NameKeyChar] = char

		if p.ActiveGroup != "" {
			group := p.GroupOverride
			if group == "" {
				group = p.ActiveGroup
			}
			env.Names[NameKeyGroup] = group
			env.Names[NameKeyGroupNotMuted] = group
			env.Names[NameKeyNotChar] = group
			return
		}
		env.Names[NameKeyGroup] = char
		env.Names[NameKeyGroupNotMuted] = char
		env.Names[NameKeyNotChar] = user
	}
}

// OriginalProvider installs the one-shot functions.original() accessor:
// the first call against the built Environment returns original, every
// later call in that same Environment's lifetime returns "".
func OriginalProvider(original string) ProviderFunc {
	return func(env *Environment) {
		var mu sync.Mutex
		used := false
		env.Functions.Original = func() string {
			mu.Lock()
			defer mu.Unlock()
			if used {
				return ""
			}
			used = true
			return original
		}
	}
}

// CharacterProvider merges fields into Environment.Character.
func CharacterProvider(fields map[string]any) ProviderFunc {
	return func(env *Environment) {
		for k, v := range fields {
			env.Character[k] = v
		}
	}
}

// SystemInfoProvider sets Environment.System.
func SystemInfoProvider(info internal.SystemInfo) ProviderFunc {
	return func(env *Environment) {
		env.System = info
	}
}

// DynamicMacroProvider installs a per-evaluation macro that shadows the
// global Registry for one name, without requiring a RegisterMacro call
// (and therefore without a collision check against the global registry).
func DynamicMacroProvider(name string, handler HandlerFunc) ProviderFunc {
	return func(env *Environment) {
		env.DynamicMacros[name] = handler
	}
}

// ExtraProvider sets one key in Environment.Extra, the escape hatch for
// caller-specific data a handler may read via HandlerContext.Env.Extra.
func ExtraProvider(key string, value any) ProviderFunc {
	return func(env *Environment) {
		env.Extra[key] = value
	}
}

// PostProcessProvider installs the caller-supplied whole-document
// postprocess hook.
func PostProcessProvider(fn func(string) string) ProviderFunc {
	return func(env *Environment) {
		env.Functions.PostProcess = fn
	}
}

// ContentHashProvider stamps Environment.ContentHash, the key an opt-in
// result cache (see WithResultCache) uses to memoize Evaluate calls.
func ContentHashProvider(hash string) ProviderFunc {
	return func(env *Environment) {
		env.ContentHash = hash
	}
}
