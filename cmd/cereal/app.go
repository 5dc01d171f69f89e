package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aledsdavies/cereal/internal/config"
	"github.com/aledsdavies/cereal/internal/logging"
	"github.com/aledsdavies/cereal/pkgs/commands"
	"github.com/aledsdavies/cereal/pkgs/lexer"
	"github.com/aledsdavies/cereal/pkgs/parser"
	"github.com/aledsdavies/cereal/pkgs/stdlib"
	"github.com/aledsdavies/cereal/pkgs/vm"
)

// app carries the flags, settings and streams shared by every subcommand
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// Flags
	configPath string
	debug      bool
	noColor    bool
	watch      bool

	cfg      *config.Config
	logger   *slog.Logger
	useColor bool
}

// setup loads the settings file and applies flag overrides
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return &CLIError{
			Message: err.Error(),
			Hint:    "see .cereal.yaml keys: debug, no_color, max_call_depth, history_file, http.timeout, http.user_agent",
		}
	}
	if a.debug {
		cfg.Debug = true
	}
	if a.noColor {
		cfg.NoColor = true
	}

	a.cfg = cfg
	a.useColor = ShouldUseColor(cfg.NoColor, a.stderr)
	a.logger = logging.New(a.stderr, cfg.Debug)
	if cfg.Path != "" {
		a.logger.Debug("config", "path", cfg.Path)
	}
	return nil
}

func (a *app) libraries() *stdlib.Dispatcher {
	return stdlib.NewStandardDispatcher(stdlib.Options{
		HTTPTimeout: a.cfg.HTTP.Timeout,
		UserAgent:   a.cfg.HTTP.UserAgent,
		Logger:      a.logger,
	})
}

func (a *app) newVM() *vm.VM {
	return vm.New(
		vm.WithLogger(a.logger),
		vm.WithStdio(a.stdin, a.stdout, a.stderr),
		vm.WithLibraries(a.libraries()),
		vm.WithMaxCallDepth(a.cfg.MaxCallDepth),
	)
}

// readScript returns the script at path, or stdin for "-"
func (a *app) readScript(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("error reading script from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &CLIError{Message: fmt.Sprintf("Error reading script file '%s'", path), Details: err.Error()}
	}
	return string(data), nil
}

// runScript loads and executes one script in a fresh VM
func (a *app) runScript(ctx context.Context, path string) error {
	source, err := a.readScript(path)
	if err != nil {
		return err
	}

	machine := a.newVM()
	if err := machine.LoadString(source); err != nil {
		return err
	}
	return machine.Execute(ctx)
}

// printTokens dumps the token stream of a script
func (a *app) printTokens(path string) error {
	source, err := a.readScript(path)
	if err != nil {
		return err
	}

	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		printf(a.stdout, "%-8s %-10s %q\n", tok.Position(), tok.Type, tok.Value)
	}
	return nil
}

// check reports every problem in a script, function bodies included
func (a *app) check(path string) error {
	source, err := a.readScript(path)
	if err != nil {
		return err
	}

	registry := commands.NewDefaultRegistry()
	if err := parser.Validate(source, registry); err != nil {
		return err
	}

	machine := vm.New(vm.WithRegistry(registry), vm.WithLibraries(a.libraries()))
	if err := machine.LoadString(source); err != nil {
		return err
	}

	printf(a.stdout, "%s %s (%d instructions, %d functions)\n",
		Colorize("ok", ColorGreen, a.useColor), path, len(machine.Program()), len(machine.Functions()))
	return nil
}

// printLibraries lists each library with the registers it reads
func (a *app) printLibraries() {
	for _, sig := range a.libraries().Signatures() {
		printf(a.stdout, "%s  %s\n", Colorize(sig.Name, ColorCyan, a.useColor), sig.Description)
		for _, reg := range sig.Registers {
			optional := ""
			if reg.Optional {
				optional = " (optional)"
			}
			printf(a.stdout, "    %-3s %s%s: %s\n", reg.Register, reg.Name, optional, reg.Description)
		}
		if len(sig.Results) > 0 {
			printf(a.stdout, "    sets %s\n", strings.Join(sig.Results, ", "))
		}
	}
}
