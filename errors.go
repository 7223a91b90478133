package weave

import (
	"strconv"

	"github.com/itsatony/go-cuserr"
)

// Error message constants for the public-facing error taxonomy:
// registration error, runtime error, internal error. Syntax "errors" are
// never returned as errors — a malformed invocation is recovered and
// rendered verbatim, only logged via a Sink.
const (
	ErrMsgNilDefinition         = "definition cannot be nil"
	ErrMsgEmptyName             = "definition name cannot be empty"
	ErrMsgNameAlreadyRegistered = "name or alias already registered"
	ErrMsgDefinitionNotFound    = "definition not found"
	ErrMsgStorageClosed         = "storage is closed"
	ErrMsgDriverNotFound        = "storage driver not found"
	ErrMsgDriverAlreadyExists   = "storage driver already registered"
	ErrMsgNilStorageDriver      = "storage driver is nil"
	ErrMsgInvalidEnvJSON        = "invalid environment JSON overlay"
)

// NewRegistrationError wraps a registry-level registration failure
// (collision, nil handler, empty name) in a structured error.
func NewRegistrationError(msg, name string) error {
	return cuserr.NewValidationError(ErrCodeRegistry, msg).
		WithMetadata(MetaKeyName, name)
}

// NewDefinitionNotFoundError reports that an extension store lookup
// (rather than the Registry itself, which never errors on a miss)
// failed to find a named Definition.
func NewDefinitionNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyName, ErrMsgDefinitionNotFound).
		WithMetadata(MetaKeyName, name)
}

// NewStorageDriverNotFoundError reports an unknown DefinitionStore driver
// name passed to OpenDefinitionStore.
func NewStorageDriverNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyDriver, ErrMsgDriverNotFound).
		WithMetadata(MetaKeyDriver, name)
}

// NewStorageError wraps a storage-layer failure (I/O, encoding, closed
// handle) with its cause, when there is one.
func NewStorageError(msg string, cause error) error {
	if cause != nil {
		return cuserr.WrapStdError(cause, ErrCodeStorage, msg)
	}
	return cuserr.NewValidationError(ErrCodeStorage, msg)
}

// NewParseError reports a syntax-level issue at pos, for callers that want
// validate()-style diagnostics as errors instead of log lines. Neither
// Engine.Validate nor the CLI's "validate" subcommand produces these; they
// report ValidationIssue values instead.
func NewParseError(msg string, pos Position) error {
	return cuserr.NewValidationError(ErrCodeParse, msg).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}
