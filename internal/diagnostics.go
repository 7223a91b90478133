package internal

import "go.uber.org/zap"

// Diagnostics is the structured logging contract threaded through the
// pipeline, mirroring the four channels from the error handling design:
// syntax warnings (recovered parse errors), runtime warnings (arity/type
// mismatches on strict calls), internal errors (handler/postprocess
// panics), and registration issues (collisions, invalid definitions).
//
// The root package's Sink type is this same interface — defined once
// here so both internal/ and the public façade share one contract
// without an import cycle.
type Diagnostics interface {
	SyntaxWarning(msg string, fields ...zap.Field)
	RuntimeWarning(msg string, fields ...zap.Field)
	InternalError(msg string, fields ...zap.Field)
	RegistrationIssue(msg string, fields ...zap.Field)
}

// ZapDiagnostics backs Diagnostics with a *zap.Logger.
type ZapDiagnostics struct {
	logger *zap.Logger
}

// NewZapDiagnostics wraps logger as a Diagnostics sink. A nil logger
// becomes zap.NewNop() so callers never need a nil check.
func NewZapDiagnostics(logger *zap.Logger) *ZapDiagnostics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapDiagnostics{logger: logger}
}

func (d *ZapDiagnostics) SyntaxWarning(msg string, fields ...zap.Field) {
	d.logger.Warn(msg, fields...)
}

func (d *ZapDiagnostics) RuntimeWarning(msg string, fields ...zap.Field) {
	d.logger.Warn(msg, fields...)
}

func (d *ZapDiagnostics) InternalError(msg string, fields ...zap.Field) {
	d.logger.Error(msg, fields...)
}

func (d *ZapDiagnostics) RegistrationIssue(msg string, fields ...zap.Field) {
	d.logger.Warn(msg, fields...)
}

// nopDiagnostics discards everything. Used as the default when a caller
// does not configure a Sink.
type nopDiagnostics struct{}

// NewNopDiagnostics returns a Diagnostics that discards every call.
func NewNopDiagnostics() Diagnostics { return nopDiagnostics{} }

func (nopDiagnostics) SyntaxWarning(string, ...zap.Field)      {}
func (nopDiagnostics) RuntimeWarning(string, ...zap.Field)     {}
func (nopDiagnostics) InternalError(string, ...zap.Field)      {}
func (nopDiagnostics) RegistrationIssue(string, ...zap.Field)  {}
