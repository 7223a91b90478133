package weave

import (
	"sync"

	"github.com/tmplforge/weave/internal"
	"go.uber.org/zap"
)

// ValidationSeverity classifies a ValidationIssue.
type ValidationSeverity int

const (
	SeverityWarning ValidationSeverity = iota
	SeverityError
)

func (s ValidationSeverity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// ValidationIssue is one diagnostic recorded while parsing a document.
type ValidationIssue struct {
	Severity ValidationSeverity
	Message  string
}

// ValidationResult is the outcome of Engine.Validate: parsing never
// hard-fails (the parser always recovers via synthetic close tokens), so
// a non-empty Issues slice is a warning summary, not a rejection.
type ValidationResult struct {
	Issues []ValidationIssue
}

// OK reports whether no internal (as opposed to syntax/runtime) issues
// were recorded.
func (r *ValidationResult) OK() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Validate parses input without evaluating it and reports every
// syntax/registration diagnostic the parser recorded, for the CLI's
// "validate" subcommand and for callers that want a lint-style check.
func (e *Engine) Validate(input string) *ValidationResult {
	rec := newRecordingSink()
	lexer := internal.NewLexer(input, nil)
	tokens := lexer.Tokenize()
	parser := internal.NewParser(tokens, rec)
	parser.Parse()
	return &ValidationResult{Issues: rec.issues}
}

// recordingSink is a Sink that collects every call instead of logging it,
// used by Validate to surface diagnostics to the caller directly.
type recordingSink struct {
	mu     sync.Mutex
	issues []ValidationIssue
}

func newRecordingSink() *recordingSink {
	return &recordingSink{}
}

func (r *recordingSink) record(severity ValidationSeverity, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issues = append(r.issues, ValidationIssue{Severity: severity, Message: msg})
}

func (r *recordingSink) SyntaxWarning(msg string, _ ...zap.Field)     { r.record(SeverityWarning, msg) }
func (r *recordingSink) RuntimeWarning(msg string, _ ...zap.Field)    { r.record(SeverityWarning, msg) }
func (r *recordingSink) InternalError(msg string, _ ...zap.Field)     { r.record(SeverityError, msg) }
func (r *recordingSink) RegistrationIssue(msg string, _ ...zap.Field) { r.record(SeverityWarning, msg) }
