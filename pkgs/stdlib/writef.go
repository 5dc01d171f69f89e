package stdlib

import (
	"fmt"
	"os"

	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/execution"
)

// WriteF replaces a file's contents with one line of data
type WriteF struct{}

// NewWriteF creates the writef library
func NewWriteF() *WriteF {
	return &WriteF{}
}

func (w *WriteF) Signature() *Signature {
	return &Signature{
		Name:        "writef",
		Description: "Write a line of data to a file, replacing its contents",
		Registers: []RegisterSpec{
			{Register: register(0), Name: "filename", Description: "file to create or truncate"},
			{Register: register(1), Name: "data", Description: "text to write; a newline is appended"},
		},
	}
}

func (w *WriteF) Execute(ctx *execution.ExecutionContext) error {
	filename := resolvePath(ctx, ctx.Variables[register(0)])
	data := ctx.Variables[register(1)]

	if err := os.WriteFile(filename, []byte(data+"\n"), 0o644); err != nil {
		return errors.Wrap(errors.ErrLibrary, fmt.Sprintf("Failed to write %s", filename), err)
	}
	return nil
}
