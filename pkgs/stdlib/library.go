// Package stdlib provides the libraries scripts reach with LIBCALL or a
// !macro line.
package stdlib

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aledsdavies/cereal/internal/logging"
	"github.com/aledsdavies/cereal/internal/suggest"
	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/execution"
)

// Library is one named operation callable from a script
type Library interface {
	Signature() *Signature
	Execute(ctx *execution.ExecutionContext) error
}

// Signature describes a library and the registers it reads
type Signature struct {
	Name        string
	Description string
	Registers   []RegisterSpec
	Results     []string // Variables the library writes
}

// RegisterSpec describes one positional operand
type RegisterSpec struct {
	Register    string // "r0", "r1", ...
	Name        string
	Description string
	Optional    bool
}

// Options configures the standard libraries
type Options struct {
	HTTPTimeout time.Duration
	UserAgent   string
	Logger      *slog.Logger
}

// Dispatcher holds all callable libraries
type Dispatcher struct {
	mu        sync.RWMutex
	libraries map[string]Library
	logger    *slog.Logger
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Dispatcher{
		libraries: make(map[string]Library),
		logger:    logger,
	}
}

// NewStandardDispatcher creates a dispatcher with git, httpget and writef installed
func NewStandardDispatcher(opts Options) *Dispatcher {
	d := NewDispatcher(opts.Logger)
	d.Register(NewGit())
	d.Register(NewHTTPGet(opts.HTTPTimeout, opts.UserAgent))
	d.Register(NewWriteF())
	return d
}

// Register adds or replaces a library under its signature name
func (d *Dispatcher) Register(lib Library) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.libraries[lib.Signature().Name] = lib
}

// Lookup finds a library by name
func (d *Dispatcher) Lookup(name string) (Library, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	lib, exists := d.libraries[name]
	return lib, exists
}

// Names returns the names of every registered library, sorted
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.libraries))
	for name := range d.libraries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Signatures returns every library signature, sorted by name
func (d *Dispatcher) Signatures() []*Signature {
	names := d.Names()
	signatures := make([]*Signature, 0, len(names))
	for _, name := range names {
		if lib, ok := d.Lookup(name); ok {
			signatures = append(signatures, lib.Signature())
		}
	}
	return signatures
}

// Execute runs the named library against ctx after checking its required registers
func (d *Dispatcher) Execute(ctx *execution.ExecutionContext, name string) error {
	lib, exists := d.Lookup(name)
	if !exists {
		err := errors.NewLibraryNotFoundError(name)
		if hint := suggest.Hint(name, d.Names()); hint != "" {
			err.WithHint(hint)
		}
		return err
	}

	if err := ValidateRegisters(lib.Signature(), ctx.Variables); err != nil {
		return err
	}

	d.logger.Debug("library call", "library", name)
	return lib.Execute(ctx)
}

// ValidateRegisters checks that every required register holds a non-empty value
func ValidateRegisters(signature *Signature, variables map[string]string) error {
	for _, spec := range signature.Registers {
		if spec.Optional {
			continue
		}
		if variables[spec.Register] == "" {
			return errors.Newf(errors.ErrLibrary, "%s requires %s in %s", signature.Name, spec.Name, spec.Register).
				WithHint("pass it as a macro argument: !" + signature.Name + " ...")
		}
	}
	return nil
}

func register(i int) string {
	return execution.RegisterName(i)
}
