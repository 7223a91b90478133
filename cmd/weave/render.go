package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tmplforge/weave"
)

// renderConfig holds parsed render command configuration.
type renderConfig struct {
	templatePath string
	envPath      string
	outputPath   string
	quiet        bool
}

// envOverlay is the JSON shape accepted by --env: a flat description of
// the Environment providers to run before rendering.
type envOverlay struct {
	Names     map[string]string `json:"names"`
	Character map[string]any    `json:"character"`
	System    struct {
		Model string `json:"model"`
	} `json:"system"`
	Extra map[string]any `json:"extra"`
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingTemplate, err)
		return ExitCodeUsageError
	}

	templateSource, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	overlay, err := loadEnvOverlay(cfg.envPath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidEnvJSON, err)
		return ExitCodeInputError
	}

	engine := weave.MustNew()
	env := weave.BuildEnvironment(overlayChain(overlay), weave.NewNopSink())
	result := engine.Evaluate(string(templateSource), env)

	if err := writeOutput(cfg.outputPath, []byte(result), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &renderConfig{}
	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.envPath, FlagEnv, "", "")
	fs.StringVar(&cfg.envPath, FlagEnvShort, "", "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.BoolVar(&cfg.quiet, FlagQuiet, false, "")
	fs.BoolVar(&cfg.quiet, FlagQuietShort, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}
	return cfg, nil
}

func loadEnvOverlay(path string) (*envOverlay, error) {
	overlay := &envOverlay{}
	if path == "" {
		return overlay, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, overlay); err != nil {
		return nil, err
	}
	return overlay, nil
}

func overlayChain(overlay *envOverlay) weave.ProviderChain {
	var providers []weave.ProviderFunc
	for k, v := range overlay.Names {
		providers = append(providers, weave.NameProvider(k, v))
	}
	if len(overlay.Character) > 0 {
		providers = append(providers, weave.CharacterProvider(overlay.Character))
	}
	if overlay.System.Model != "" {
		providers = append(providers, weave.SystemInfoProvider(weave.SystemInfo{Model: overlay.System.Model}))
	}
	for k, v := range overlay.Extra {
		providers = append(providers, weave.ExtraProvider(k, v))
	}
	return weave.ProviderChain{Normal: providers}
}
