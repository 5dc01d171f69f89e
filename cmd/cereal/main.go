package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/cereal/pkgs/errors"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code. ABORT is a
// successful exit.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	FormatError(stderr, err, a.useColor)
	if errors.IsAbort(err) {
		return 0
	}
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cereal [script]",
		Short: "Run cereal scripts, or start the REPL when no script is given",
		Long: `Run a cereal script file. With no argument, a script piped on stdin is run;
otherwise an interactive REPL starts. Use "-" to read the script from stdin.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if hasPipedInput(a.stdin) {
					return a.runScript(cmd.Context(), "-")
				}
				return a.repl(cmd.Context())
			}
			if a.watch {
				return a.watchScript(cmd.Context(), args[0])
			}
			return a.runScript(cmd.Context(), args[0])
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a settings file (default: .cereal.yaml in the working or home directory)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolVarP(&a.watch, "watch", "w", false, "Run the script again whenever it changes")

	rootCmd.AddCommand(newTokensCmd(a), newCheckCmd(a), newLibsCmd(a))
	return rootCmd
}

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <script>",
		Short: "Print the tokens of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printTokens(args[0])
		},
	}
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <script>",
		Short: "Report every problem in a script without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.check(args[0])
		},
	}
}

func newLibsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "libs",
		Short: "List the libraries available to LIBCALL and !macros",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.printLibraries()
			return nil
		},
	}
}

// hasPipedInput detects if there's data piped to stdin
func hasPipedInput(stdin io.Reader) bool {
	f, ok := stdin.(*os.File)
	if !ok {
		return stdin != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}

	// Pipes may not report a size, so only the mode is checked
	return (stat.Mode() & os.ModeCharDevice) == 0
}

func printf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
