package weave

import (
	"regexp"
	"strings"
	"sync"

	"github.com/tmplforge/weave/internal"
	"go.uber.org/zap"
)

// Engine is the main entry point: it owns a Registry and drives
// preprocess -> lex -> parse -> walk -> postprocess for each Evaluate
// call.
type Engine struct {
	registry *internal.Registry
	walker   *internal.Walker
	sink     Sink
	config   *engineConfig

	extMu      sync.RWMutex
	extensions map[string]*StoredDefinition
}

// New creates an Engine with the given options. The builtin comment
// Definition is installed unless WithoutBuiltins is given.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	sink := config.sink
	if sink == nil {
		sink = NewZapSink(config.logger)
	}

	registry := internal.NewRegistry(sink)
	if !config.noBuiltins {
		if err := registerBuiltins(registry); err != nil {
			return nil, err
		}
	}

	return &Engine{
		registry:   registry,
		walker:     internal.NewWalker(registry, sink, config.maxDepth),
		sink:       sink,
		config:     config,
		extensions: make(map[string]*StoredDefinition),
	}, nil
}

// MustNew creates an Engine and panics if construction fails.
func MustNew(opts ...Option) *Engine {
	e, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Register installs a Definition. Returns an error on name/alias
// collision, nil handler, or empty name — registration is total: either
// the definition becomes visible to lookup and execution immediately, or
// nothing is registered at all.
func (e *Engine) Register(def *Definition) error {
	return e.registry.RegisterMacro(def)
}

// Unregister removes a Definition and its aliases by canonical name.
func (e *Engine) Unregister(name string) {
	e.registry.UnregisterMacro(name)
}

// HasDefinition reports whether name (canonical or alias) is registered.
func (e *Engine) HasDefinition(name string) bool {
	return e.registry.HasMacro(name)
}

// ListDefinitions returns every registered Definition, sorted by name.
func (e *Engine) ListDefinitions() []*Definition {
	return e.registry.ListMacros()
}

// Evaluate expands input against env, never failing the document: on a
// catastrophic parse failure (no CST at all — practically unreachable,
// since the parser always recovers via synthetic close tokens) the
// original input is returned unchanged.
func (e *Engine) Evaluate(input string, env *Environment) string {
	if input == "" {
		return ""
	}
	if env == nil {
		env = BuildEnvironment(ProviderChain{}, e.sink)
	}

	if e.config.cache != nil {
		if cached, ok := e.config.cache.get(env.ContentHash); ok {
			return cached
		}
	}

	preprocessed := e.preprocess(input)
	source := []rune(preprocessed)

	lexer := internal.NewLexer(preprocessed, nil)
	tokens := lexer.Tokenize()

	parser := internal.NewParser(tokens, e.sink)
	doc := parser.Parse()
	if doc == nil {
		e.sink.InternalError(errMsgCatastrophicParse)
		return input
	}

	expanded := e.walker.Evaluate(doc, source, env)
	result := e.postprocess(expanded)

	if env.Functions.PostProcess != nil {
		result = e.runCallerPostProcess(env.Functions.PostProcess, result)
	}

	if e.config.cache != nil {
		e.config.cache.put(env.ContentHash, result)
	}
	return result
}

func (e *Engine) runCallerPostProcess(fn func(string) string, result string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			e.sink.InternalError(errMsgPostProcessPanic, zap.Any(logFieldPanic, r))
			out = result
		}
	}()
	return fn(result)
}

// preprocess runs the engine's required rewrites, ahead of lexing:
// {{time_UTC±N}} -> {{time::UTC±N}}, and the bare persona markers
// <USER>/<BOT>/<CHAR>/<GROUP>/<CHARIFNOTGROUP> -> their invocation forms.
func (e *Engine) preprocess(input string) string {
	input = timeUTCPattern.ReplaceAllString(input, timeUTCReplacement)
	input = personaMarkerPattern.ReplaceAllStringFunc(input, func(m string) string {
		name := strings.ToLower(personaMarkerPattern.FindStringSubmatch(m)[1])
		return strOpen + name + strClose
	})
	return input
}

// postprocess runs the engine's required rewrites, after walking:
// unescape \{ and \}, then remove {{trim}} together with any immediately
// surrounding \r?\n runs on both sides. trim is deliberately never
// registered as a Definition — it reaches here as a preserved-verbatim
// unknown invocation and is stripped by regex instead of by a handler.
func (e *Engine) postprocess(input string) string {
	input = strings.ReplaceAll(input, `\{`, "{")
	input = strings.ReplaceAll(input, `\}`, "}")
	input = trimTokenPattern.ReplaceAllString(input, "")
	return input
}

const (
	strOpen  = "{{"
	strClose = "}}"

	errMsgCatastrophicParse = "engine: parser produced no document"
	errMsgPostProcessPanic  = "engine: caller postprocess panicked"
	logFieldPanic           = "panic"
)

var (
	timeUTCPattern       = regexp.MustCompile(`\{\{time_UTC([+-]\d+)\}\}`)
	timeUTCReplacement   = `{{time::UTC$1}}`
	personaMarkerPattern = regexp.MustCompile(`(?i)<(USER|BOT|CHARIFNOTGROUP|CHAR|GROUP)>`)
	trimTokenPattern     = regexp.MustCompile(`(\r?\n)*\{\{trim\}\}(\r?\n)*`)
)
