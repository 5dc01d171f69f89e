package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/vm"
)

const banner = `
      o8Oo./
   ._o8o8o8Oo_.
    \========/
     ` + "`" + `------'  CEREAL VM v` + version + `

`

const prompt = "> "

// REPL keywords, matched on the trimmed line
const (
	replRun  = "RUN"
	replLoad = "LOAD"
	replExit = "EXIT"
)

// repl reads lines into a buffer until RUN loads and executes it
func (a *app) repl(ctx context.Context) error {
	printf(a.stdout, "%s", banner)
	printf(a.stdout, "Type %s to execute, %s <file> to load a file, %s to quit\n\n", replRun, replLoad, replExit)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if history := a.cfg.HistoryFile; history != "" {
		if f, err := os.Open(history); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(history); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	session := newReplSession(a, a.newVM())
	for {
		line, err := ln.Prompt(prompt)
		if stderrors.Is(err, io.EOF) || stderrors.Is(err, liner.ErrPromptAborted) {
			printf(a.stdout, "\n")
			return nil
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if !session.handle(ctx, line) {
			return nil
		}
	}
}

// replSession accumulates script lines between RUNs. Functions and variables
// persist across runs; the loaded program does not.
type replSession struct {
	app     *app
	machine *vm.VM
	buffer  strings.Builder
}

func newReplSession(a *app, machine *vm.VM) *replSession {
	return &replSession{app: a, machine: machine}
}

// handle processes one input line. It returns false when the REPL should exit,
// after EXIT or a script that ran ABORT.
func (s *replSession) handle(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == replExit:
		return false
	case trimmed == replRun:
		if s.run(ctx) {
			return false
		}
	case trimmed == replLoad || strings.HasPrefix(trimmed, replLoad+" "):
		s.load(strings.TrimSpace(strings.TrimPrefix(trimmed, replLoad)))
	default:
		s.buffer.WriteString(line)
		s.buffer.WriteString("\n")
	}
	return true
}

// run loads and executes the buffer, which is emptied either way. It reports
// whether the script aborted.
func (s *replSession) run(ctx context.Context) bool {
	source := s.buffer.String()
	s.buffer.Reset()
	if strings.TrimSpace(source) == "" {
		return false
	}

	if err := s.machine.LoadString(source); err != nil {
		FormatError(s.app.stderr, err, s.app.useColor)
		return false
	}

	err := s.machine.Execute(ctx)
	s.machine.ClearProgram()
	if err != nil {
		FormatError(s.app.stderr, err, s.app.useColor)
	}
	return errors.IsAbort(err)
}

// load appends a file to the buffer without running it
func (s *replSession) load(filename string) {
	if filename == "" {
		FormatError(s.app.stderr, &CLIError{Message: "LOAD requires a file name", Hint: "LOAD script.crl"}, s.app.useColor)
		return
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		FormatError(s.app.stderr, &CLIError{Message: fmt.Sprintf("Failed to load file '%s'", filename), Details: err.Error()}, s.app.useColor)
		return
	}

	content := string(data)
	s.buffer.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		s.buffer.WriteString("\n")
	}
	printf(s.app.stdout, "Loaded file '%s'\n", filename)
}

// pending returns the buffered source not yet run
func (s *replSession) pending() string {
	return s.buffer.String()
}
