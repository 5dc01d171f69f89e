// Package scripttest runs script fixtures through the VM and compares what
// they print with the expected output stored next to them.
//
// A fixture is name.crl plus any of:
//
//	name.out  expected stdout (an empty file or no file means nothing is printed)
//	name.in   text fed to INPUT
//	name.err  expected error message; without it the script must succeed
package scripttest

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/vm"
)

// Fixture file extensions
const (
	ScriptExt = ".crl"
	StdoutExt = ".out"
	StdinExt  = ".in"
	ErrorExt  = ".err"
)

// TestingT is a minimal interface for testing frameworks
type TestingT interface {
	Fatalf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Helper()
}

// Result represents the outcome of running one script
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// Success returns true if the script ran to completion
func (r Result) Success() bool {
	return r.Err == nil
}

// Aborted returns true if the script stopped itself with ABORT
func (r Result) Aborted() bool {
	return errors.IsAbort(r.Err)
}

// Run loads and executes script in a fresh VM. Load errors and run errors
// both end up in Result.Err.
func Run(script, stdin string, opts ...vm.Option) Result {
	var stdout, stderr bytes.Buffer
	opts = append([]vm.Option{vm.WithStdio(strings.NewReader(stdin), &stdout, &stderr)}, opts...)
	machine := vm.New(opts...)

	err := machine.LoadString(script)
	if err == nil {
		err = machine.Execute(context.Background())
	}
	return Result{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// Case is one script fixture
type Case struct {
	Name       string
	Script     string
	Stdin      string
	WantStdout string
	WantErr    string // "" when the script must succeed
}

// LoadCases reads every fixture in dir, sorted by name
func LoadCases(t TestingT, dir string) []Case {
	t.Helper()

	paths, err := filepath.Glob(filepath.Join(dir, "*"+ScriptExt))
	if err != nil {
		t.Fatalf("Failed to list fixtures in %s: %v", dir, err)
	}
	if len(paths) == 0 {
		t.Fatalf("No %s fixtures in %s", ScriptExt, dir)
	}
	sort.Strings(paths)

	cases := make([]Case, 0, len(paths))
	for _, path := range paths {
		base := strings.TrimSuffix(path, ScriptExt)
		cases = append(cases, Case{
			Name:       filepath.Base(base),
			Script:     ReadFile(t, path),
			Stdin:      readOptional(t, base+StdinExt),
			WantStdout: readOptional(t, base+StdoutExt),
			WantErr:    strings.TrimSpace(readOptional(t, base+ErrorExt)),
		})
	}
	return cases
}

// Check runs the fixture and reports every mismatch
func (c Case) Check(t TestingT, opts ...vm.Option) Result {
	t.Helper()

	result := Run(c.Script, c.Stdin, opts...)

	if diff := cmp.Diff(c.WantStdout, result.Stdout); diff != "" {
		t.Errorf("%s: stdout mismatch (-want +got):\n%s", c.Name, diff)
	}

	switch {
	case c.WantErr == "" && result.Err != nil:
		t.Errorf("%s: unexpected error: %v", c.Name, result.Err)
	case c.WantErr != "" && result.Err == nil:
		t.Errorf("%s: expected error %q, script succeeded", c.Name, c.WantErr)
	case c.WantErr != "" && result.Err.Error() != c.WantErr:
		t.Errorf("%s: error mismatch\nwant: %s\n got: %s", c.Name, c.WantErr, result.Err.Error())
	}
	return result
}

// ReadFile reads content from a file
func ReadFile(t TestingT, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// WriteFile writes content to a file, creating parent directories
func WriteFile(t TestingT, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func readOptional(t TestingT, path string) string {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return ReadFile(t, path)
}
