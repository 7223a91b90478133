package weave

import "github.com/tmplforge/weave/internal"

// registerBuiltins installs the engine's built-in Definitions: the
// comment form is core grammar behavior, not an optional extension, so
// it ships installed by default rather than requiring a caller to
// register it.
func registerBuiltins(registry *internal.Registry) error {
	comment := &internal.Definition{
		Name:     internal.BuiltinCommentName,
		Aliases:  []string{internal.BuiltinCommentAlias},
		Category: internal.CategoryUtility,
		Source:   internal.SourceBuiltin,
		List:     &internal.ListPolicy{Min: 0, Max: internal.Unbounded},
		Handler: func(internal.HandlerContext) internal.HandlerOutcome {
			return internal.Value("")
		},
	}
	if err := registry.RegisterMacro(comment); err != nil {
		return err
	}

	for _, def := range personaDefinitions() {
		if err := registry.RegisterMacro(def); err != nil {
			return err
		}
	}
	return nil
}

// personaDefinitions builds the persona-name builtins that the engine's
// bare-marker preprocessor (<USER>, <BOT>, <CHAR>, <GROUP>,
// <CHARIFNOTGROUP>) rewrites into: {{user}}, {{bot}}, {{char}}, {{group}},
// {{charifnotgroup}}. These read straight out of Environment.Names, the
// core persona-binding data the environment builder populates.
func personaDefinitions() []*internal.Definition {
	lookup := func(name, key, fallbackKey string) *internal.Definition {
		return &internal.Definition{
			Name:     name,
			Category: internal.CategoryUtility,
			Source:   internal.SourceBuiltin,
			Handler: func(ctx internal.HandlerContext) internal.HandlerOutcome {
				if ctx.Env == nil {
					return internal.Value("")
				}
				if v, ok := ctx.Env.Names[key]; ok && v != "" {
					return internal.Value(v)
				}
				if fallbackKey != "" {
					return internal.Value(ctx.Env.Names[fallbackKey])
				}
				return internal.Value("")
			},
		}
	}

	charIfNotGroup := &internal.Definition{
		Name:     "charifnotgroup",
		Category: internal.CategoryUtility,
		Source:   internal.SourceBuiltin,
		Handler: func(ctx internal.HandlerContext) internal.HandlerOutcome {
			if ctx.Env == nil {
				return internal.Value("")
			}
			if group := ctx.Env.Names[NameKeyGroup]; group != "" {
				return internal.Value(ctx.Env.Names[NameKeyUser])
			}
			return internal.Value(ctx.Env.Names[NameKeyChar])
		},
	}

	return []*internal.Definition{
		lookup(NameKeyUser, NameKeyUser, ""),
		lookup(NameKeyBot, NameKeyBot, NameKeyChar),
		lookup(NameKeyChar, NameKeyChar, ""),
		lookup(NameKeyGroup, NameKeyGroup, NameKeyChar),
		charIfNotGroup,
	}
}
