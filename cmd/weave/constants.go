package main

// Command names
const (
	CmdNameRender   = "render"
	CmdNameValidate = "validate"
	CmdNameList     = "list"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Flag names - long form
const (
	FlagTemplate = "template"
	FlagEnv      = "env"
	FlagOutput   = "output"
	FlagQuiet    = "quiet"
	FlagFormat   = "format"
	FlagStrict   = "strict"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagEnvShort      = "e"
	FlagOutputShort   = "o"
	FlagQuietShort    = "q"
	FlagFormatShort   = "F"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages
const (
	ErrMsgUnknownCommand    = "unknown command"
	ErrMsgMissingTemplate   = "template source required"
	ErrMsgInvalidEnvJSON    = "invalid JSON environment overlay"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgInvalidFormat     = "invalid output format"
)

// Severity names for output
const (
	SeverityNameError   = "error"
	SeverityNameWarning = "warning"
)

// CLI metadata
const (
	CLIName        = "weave"
	CLIDescription = "Double-brace template expansion CLI"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)

// Version output
const (
	VersionUnknown      = "unknown"
	VersionTextTemplate = "weave version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
)

// Validation output format templates
const (
	ValidationTextSuccess      = "Template is valid"
	ValidationTextIssueHeader  = "Validation issues:"
	ValidationTextIssueFormat  = "  [%s] %s"
	ValidationTextErrorSummary = "%d error(s), %d warning(s)"
)

// List output format templates
const (
	ListTextEmpty       = "No definitions registered"
	ListTextHeader      = "Registered definitions:"
	ListTextEntryFormat = "  %-20s source=%-10s category=%-10s arity=%-8s aliases=%s"
)

// Help text templates
const (
	HelpMainUsage = `weave - Double-brace template expansion CLI

Usage:
    weave <command> [options]

Commands:
    render      Render a template against a JSON environment overlay
    validate    Parse a template and report syntax diagnostics
    list        List registered definitions
    version     Show version information
    help        Show help for a command

Use "weave help <command>" for more information about a command.`

	HelpRenderUsage = `Render a template against a JSON environment overlay

Usage:
    weave render [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -e, --env <file>        JSON environment overlay file
    -o, --output <file>     Output file (default: stdout)
    -q, --quiet             Suppress non-error output

Examples:
    weave render -t template.txt -e env.json
    cat template.txt | weave render -t - -e env.json
    weave render -t template.txt -e env.json -o output.txt`

	HelpValidateUsage = `Parse a template and report syntax diagnostics

Usage:
    weave validate [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)
    --strict                Treat warnings as errors

Examples:
    weave validate -t template.txt
    weave validate -t template.txt --strict
    cat template.txt | weave validate -t -`

	HelpListUsage = `List registered definitions

Usage:
    weave list [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpVersionUsage = `Show version information

Usage:
    weave version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    weave help [command]

Commands:
    render      Show help for render command
    validate    Show help for validate command
    list        Show help for list command
    version     Show help for version command`
)
