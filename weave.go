// Package weave is a template-expansion engine for documents containing
// inline double-brace invocations. It produces a fully expanded document
// where every recognized invocation has been replaced by the string value
// its handler returned, while unrecognized or malformed invocations are
// preserved verbatim so the document remains lossless.
package weave

import "github.com/tmplforge/weave/internal"

// Position and Range are defined once in internal and reused here so
// the public and internal layers share one bridging shape.
type (
	Position = internal.Position
	Range    = internal.Range
)

// Environment is the read-only record handlers observe: persona name
// bindings, character data, system info, per-evaluation dynamic macros,
// and caller-supplied hooks. Built by BuildEnvironment, never mutated
// once construction completes.
type Environment = internal.Environment

// SystemInfo carries ambient system-level context a handler may want to
// read (e.g. which model is driving the surrounding chat session).
type SystemInfo = internal.SystemInfo

// HandlerContext is what a HandlerFunc receives for one invocation call.
type HandlerContext = internal.HandlerContext

// HandlerFunc is the single polymorphic handler signature every
// Definition carries.
type HandlerFunc = internal.HandlerFunc

// HandlerOutcome is the tagged result type a HandlerFunc returns: a
// value, a runtime (recoverable) problem, or an internal (unexpected)
// failure.
type HandlerOutcome = internal.HandlerOutcome

// Value, ValueAny, RuntimeErrorf and InternalErrorf construct the three
// HandlerOutcome kinds.
var (
	Value         = internal.Value
	ValueAny      = internal.ValueAny
	RuntimeErrorf = internal.RuntimeErrorf
	InternalErrorf = internal.InternalErrorf
)

// ArgType, ArgSpec, ListPolicy, DefinitionSource and Definition describe a
// registered invocation name's full contract.
type (
	ArgType          = internal.ArgType
	ArgSpec          = internal.ArgSpec
	ListPolicy       = internal.ListPolicy
	DefinitionSource = internal.DefinitionSource
	Definition       = internal.Definition
)

const (
	ArgTypeString  = internal.ArgTypeString
	ArgTypeInteger = internal.ArgTypeInteger
	ArgTypeNumber  = internal.ArgTypeNumber
	ArgTypeBoolean = internal.ArgTypeBoolean
	ArgTypeAny     = internal.ArgTypeAny
)

const (
	SourceBuiltin    = internal.SourceBuiltin
	SourceExtension  = internal.SourceExtension
	SourceThirdParty = internal.SourceThirdParty
)

// Unbounded marks a ListPolicy.Max with no upper limit.
const Unbounded = internal.Unbounded

// Sink is the structured diagnostics contract an Engine logs through:
// syntax warnings (recovered parse errors), runtime warnings (arity/type
// mismatches on strict calls), internal errors (handler panics), and
// registration issues (collisions). Defined once in internal so both
// layers share one contract without an import cycle.
type Sink = internal.Diagnostics

// NewZapSink wraps a *zap.Logger as a Sink. A nil logger becomes a
// no-op logger rather than panicking.
var NewZapSink = internal.NewZapDiagnostics

// NewNopSink returns a Sink that discards everything, the default when a
// caller configures no Sink at all.
var NewNopSink = internal.NewNopDiagnostics
