package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/tmplforge/weave"
)

type listConfig struct {
	format string
}

type listEntryOutput struct {
	Name     string   `json:"name"`
	Source   string   `json:"source"`
	Category string   `json:"category,omitempty"`
	Arity    string   `json:"arity"`
	Aliases  []string `json:"aliases,omitempty"`
}

// formatArity renders a Definition's fixed/variadic argument contract as
// a short human-readable string, e.g. "2" (exactly two fixed args), "0+"
// (any number), "1-3" (one to three arguments in total, fixed plus
// trailing).
func formatArity(def *weave.Definition) string {
	fixed := len(def.Args)
	if def.List == nil {
		return fmt.Sprintf("%d", fixed)
	}
	if def.List.Max == weave.Unbounded {
		return fmt.Sprintf("%d+", fixed+def.List.Min)
	}
	return fmt.Sprintf("%d-%d", fixed+def.List.Min, fixed+def.List.Max)
}

func runList(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseListFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, err)
		return ExitCodeUsageError
	}

	engine := weave.MustNew()
	defs := engine.ListDefinitions()

	if cfg.format == OutputFormatJSON {
		return outputListJSON(defs, stdout)
	}
	return outputListText(defs, stdout)
}

func parseListFlags(args []string) (*listConfig, error) {
	fs := flag.NewFlagSet(CmdNameList, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &listConfig{}
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}
	return cfg, nil
}

func outputListText(defs []*weave.Definition, stdout io.Writer) int {
	if len(defs) == 0 {
		fmt.Fprintln(stdout, ListTextEmpty)
		return ExitCodeSuccess
	}

	fmt.Fprintln(stdout, ListTextHeader)
	for _, def := range defs {
		fmt.Fprintf(stdout, ListTextEntryFormat+FmtNewline,
			def.Name, def.Source.String(), def.Category, formatArity(def), strings.Join(def.Aliases, ","))
	}
	return ExitCodeSuccess
}

func outputListJSON(defs []*weave.Definition, stdout io.Writer) int {
	out := make([]listEntryOutput, 0, len(defs))
	for _, def := range defs {
		out = append(out, listEntryOutput{
			Name:     def.Name,
			Source:   def.Source.String(),
			Category: def.Category,
			Arity:    formatArity(def),
			Aliases:  def.Aliases,
		})
	}
	jsonBytes, _ := json.MarshalIndent(out, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))
	return ExitCodeSuccess
}
