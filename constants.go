package weave

// Delimiters are fixed, per the grammar (see internal/constants.go) —
// weave's "{{" / "}}" are not an Option.
const (
	OpenDelim  = "{{"
	CloseDelim = "}}"
)

// Reserved persona name keys set on Environment.Names.
const (
	NameKeyUser  = "user"
	NameKeyBot   = "bot"
	NameKeyChar  = "char"
	NameKeyGroup = "group"

	// NameKeyGroupNotMuted and NameKeyNotChar are derived by PersonaProvider:
	// in group mode both equal the active group name; in solo mode
	// groupNotMuted equals char and notChar equals user.
	NameKeyGroupNotMuted = "groupNotMuted"
	NameKeyNotChar       = "notChar"
)

// Bare persona markers recognized by the engine's preprocessor, distinct
// from double-brace invocations (legacy chat-template convention carried
// over from the original system this was distilled from).
const (
	MarkerUser            = "<USER>"
	MarkerBot             = "<BOT>"
	MarkerChar            = "<CHAR>"
	MarkerGroup           = "<GROUP>"
	MarkerCharIfNotGroup  = "<CHARIFNOTGROUP>"
)

// Default resource limits.
const (
	DefaultMaxDepth = 64
)

// Storage driver names.
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNameFilesystem = "filesystem"
	StorageDriverNamePostgres   = "postgres"
)

// Metadata keys for cuserr.WithMetadata.
const (
	MetaKeyLine   = "line"
	MetaKeyColumn = "column"
	MetaKeyOffset = "offset"
	MetaKeyName   = "name"
	MetaKeyAlias  = "alias"
	MetaKeyDriver = "driver"
	MetaKeyReason = "reason"
)

// Error code constants for categorization, one per failure domain.
const (
	ErrCodeParse      = "WEAVE_PARSE"
	ErrCodeRegistry   = "WEAVE_REGISTRY"
	ErrCodeRuntime    = "WEAVE_RUNTIME"
	ErrCodeInternal   = "WEAVE_INTERNAL"
	ErrCodeStorage    = "WEAVE_STORAGE"
	ErrCodeValidation = "WEAVE_VALIDATION"
)
