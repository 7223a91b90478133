package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/tmplforge/weave"
)

type validateConfig struct {
	templatePath string
	format       string
	strict       bool
}

type validationOutput struct {
	Valid  bool                    `json:"valid"`
	Issues []validationIssueOutput `json:"issues,omitempty"`
}

type validationIssueOutput struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func runValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseValidateFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingTemplate, err)
		return ExitCodeUsageError
	}

	templateSource, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	engine := weave.MustNew()
	result := engine.Validate(string(templateSource))

	if cfg.format == OutputFormatJSON {
		return outputValidationJSON(result, cfg.strict, stdout)
	}
	return outputValidationText(result, cfg.strict, stdout)
}

func parseValidateFlags(args []string) (*validateConfig, error) {
	fs := flag.NewFlagSet(CmdNameValidate, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &validateConfig{}
	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.BoolVar(&cfg.strict, FlagStrict, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}
	return cfg, nil
}

func outputValidationText(result *weave.ValidationResult, strict bool, stdout io.Writer) int {
	if len(result.Issues) == 0 {
		fmt.Fprintln(stdout, ValidationTextSuccess)
		return ExitCodeSuccess
	}

	fmt.Fprintln(stdout, ValidationTextIssueHeader)
	var errCount, warnCount int
	for _, issue := range result.Issues {
		fmt.Fprintf(stdout, ValidationTextIssueFormat+FmtNewline, issue.Severity, issue.Message)
		if issue.Severity == weave.SeverityError {
			errCount++
		} else {
			warnCount++
		}
	}
	fmt.Fprintf(stdout, ValidationTextErrorSummary+FmtNewline, errCount, warnCount)

	if errCount > 0 || (strict && warnCount > 0) {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}

func outputValidationJSON(result *weave.ValidationResult, strict bool, stdout io.Writer) int {
	output := validationOutput{
		Valid:  result.OK(),
		Issues: make([]validationIssueOutput, 0, len(result.Issues)),
	}
	var warnCount int
	for _, issue := range result.Issues {
		if issue.Severity != weave.SeverityError {
			warnCount++
		}
		output.Issues = append(output.Issues, validationIssueOutput{
			Severity: issue.Severity.String(),
			Message:  issue.Message,
		})
	}
	if strict && warnCount > 0 {
		output.Valid = false
	}

	jsonBytes, _ := json.MarshalIndent(output, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))

	if !output.Valid {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}
