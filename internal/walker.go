package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Walker evaluates a Document CST into its expanded text: reconstruct
// each invocation's raw inner text with its nested arguments already
// substituted, then hand the result to exactly one resolver callback.
// Evaluation is inside-out: every argument's content is fully expanded
// before its owning invocation is dispatched.
type Walker struct {
	registry *Registry
	diag     Diagnostics
	maxDepth int
}

// NewWalker creates a Walker bound to registry. maxDepth <= 0 falls back
// to DefaultMaxDepth.
func NewWalker(registry *Registry, diag Diagnostics, maxDepth int) *Walker {
	if diag == nil {
		diag = NewNopDiagnostics()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Walker{registry: registry, diag: diag, maxDepth: maxDepth}
}

// Evaluate expands doc against source (the same rune slice the lexer
// tokenized, reused here for raw-text reconstruction) and env.
func (w *Walker) Evaluate(doc *Document, source []rune, env *Environment) string {
	return w.evaluateNodes(doc.Children, source, env, 0)
}

func (w *Walker) evaluateNodes(nodes []Node, source []rune, env *Environment, depth int) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch t := n.(type) {
		case *Plaintext:
			sb.WriteString(rawSpan(source, t.Range))
		case *Invocation:
			sb.WriteString(w.evaluateInvocation(t, source, env, depth))
		}
	}
	return sb.String()
}

// evaluateInvocation is the invocation-level algorithm: expand every
// argument's content first (inside-out), then either dispatch to a
// handler or fall back to raw reconstruction (malformed invocation,
// unknown name, or a runtime/internal error from the handler) — raw
// reconstruction always carries the already-expanded argument values,
// so a well-formed nested invocation inside a broken or unknown outer
// one still expands.
func (w *Walker) evaluateInvocation(inv *Invocation, source []rune, env *Environment, depth int) string {
	if depth > w.maxDepth {
		w.diag.RuntimeWarning(LogMsgDepthExceeded, zap.String(LogFieldName, inv.Name), zap.Int(LogFieldDepth, depth))
		return rawSpan(source, inv.Range)
	}

	resolvedArgs := make([]string, len(inv.Args))
	for i, arg := range inv.Args {
		resolvedArgs[i] = w.evaluateNodes(arg.Children, source, env, depth+1)
	}

	if inv.Malformed() {
		return reconstructWithArgs(source, inv, resolvedArgs)
	}

	if env != nil {
		if handler, ok := env.DynamicMacros[inv.Name]; ok {
			// Dynamic macros are synthesized as a strict, arity-zero
			// Definition: a dynamic invocation never takes arguments, so
			// any call with args fails strict arity validation and the
			// invocation renders raw instead of silently ignoring them.
			synth := &Definition{Name: inv.Name, StrictArgs: true, Handler: handler}
			outcome := w.registry.ExecuteMacro(synth, inv.Name, resolvedArgs, env, inv.Range)
			return w.renderOutcome(outcome, inv, source, resolvedArgs)
		}
	}

	def, ok := w.registry.GetMacro(inv.Name)
	if !ok {
		return reconstructWithArgs(source, inv, resolvedArgs)
	}

	outcome := w.registry.ExecuteMacro(def, inv.Name, resolvedArgs, env, inv.Range)
	return w.renderOutcome(outcome, inv, source, resolvedArgs)
}

func (w *Walker) renderOutcome(outcome HandlerOutcome, inv *Invocation, source []rune, resolvedArgs []string) string {
	switch {
	case outcome.IsValue():
		return outcome.Value()
	case outcome.IsRuntimeError():
		w.diag.RuntimeWarning(outcome.Message(), zap.String(LogFieldName, inv.Name))
		return reconstructWithArgs(source, inv, resolvedArgs)
	default: // internal error
		w.diag.InternalError(outcome.Message(), zap.String(LogFieldName, inv.Name))
		return reconstructWithArgs(source, inv, resolvedArgs)
	}
}

// rawSpan returns source's literal text for rng.
func rawSpan(source []rune, rng Range) string {
	if rng.Start < 0 || rng.End > len(source) || rng.Start > rng.End {
		return ""
	}
	return string(source[rng.Start:rng.End])
}

// reconstructWithArgs rebuilds an invocation's literal source text, with
// each argument span replaced by its already-expanded value. Everything
// outside the argument spans — the opening braces, the name, the `::`
// separators or legacy delimiter, the closing braces if real — is
// copied verbatim from source, which is what keeps a malformed or
// unrecognized invocation byte/rune-exact except for its nested content.
func reconstructWithArgs(source []rune, inv *Invocation, resolvedArgs []string) string {
	var sb strings.Builder
	cursor := inv.Range.Start
	for i, arg := range inv.Args {
		sb.WriteString(string(source[cursor:arg.Range.Start]))
		sb.WriteString(resolvedArgs[i])
		cursor = arg.Range.End
	}
	sb.WriteString(string(source[cursor:inv.Range.End]))
	return sb.String()
}
