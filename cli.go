package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmorg/readline"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	exitOK     = 0
	exitUsage  = 1
	exitIO     = 2
	exitSyntax = 3
)

// defaultConfigFile is loaded from the working directory when --config is
// not given.
const defaultConfigFile = "cradle.toml"

// ioError marks failures reading input or writing output.
type ioError struct {
	err error
}

func (e *ioError) Error() string { return e.err.Error() }
func (e *ioError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ioErr *ioError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrSyntax):
		return exitSyntax
	case errors.As(err, &ioErr):
		return exitIO
	default:
		return exitUsage
	}
}

// cli holds the state shared by all subcommands.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool
	longNames  bool
	skipWhite  bool

	opts   Options
	logger *slog.Logger

	// newLineReader builds the REPL input. Tests replace it.
	newLineReader func() lineReader
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "cradle",
		Short: "Translate an assignment statement to x86 assembly",
		Long: `cradle translates one statement of the form name=expression into
NASM assembly for 32-bit Linux. Expressions combine digits, single-letter
variables, calls such as f(), the operators + - * / and parentheses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}
	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "options file (.toml, .yaml or .yml; default ./"+defaultConfigFile+" if present)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log translation details to stderr")
	flags.BoolVar(&c.longNames, "long-names", false, "accept multi-character names and multi-digit numbers")
	flags.BoolVar(&c.skipWhite, "skip-white", false, "skip spaces and tabs between tokens")

	root.AddCommand(
		newBuildCmd(c),
		newEvalCmd(c),
		newCheckCmd(c),
		newReplCmd(c),
	)
	return root
}

// setup installs the logger and resolves options: defaults, then the
// config file, then explicitly set flags.
func (c *cli) setup(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	c.logger = slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level}))

	opts := DefaultOptions()
	path := c.configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	if path != "" {
		loaded, err := LoadOptions(path)
		if err != nil {
			return err
		}
		opts = loaded
		c.logger.Debug("loaded config", "path", path)
	}

	flags := cmd.Flags()
	if flags.Changed("long-names") {
		opts.LongNames = c.longNames
	}
	if flags.Changed("skip-white") {
		opts.SkipWhite = c.skipWhite
	}
	opts.Logger = c.logger
	c.opts = opts
	return nil
}

func (c *cli) translateFile(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ioError{err}
	}
	defer f.Close()

	c.logger.Debug("translating", "input", path)
	prog, err := Translate(bufio.NewReader(f), c.opts)
	if err != nil && !errors.Is(err, ErrSyntax) {
		return nil, &ioError{fmt.Errorf("%s: %w", path, err)}
	}
	return prog, err
}

func newBuildCmd(c *cli) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "build [-o output.s] <file>",
		Short: "Translate the statement in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := c.translateFile(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				_, err = prog.WriteTo(c.stdout)
				if err != nil {
					return &ioError{err}
				}
				return nil
			}
			if err := os.WriteFile(output, []byte(prog.String()), 0644); err != nil {
				return &ioError{err}
			}
			c.logger.Debug("wrote program", "output", output, "lines", len(prog.Lines))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the listing to this file instead of stdout")
	return cmd
}

func newEvalCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "eval <statement>",
		Short:   "Translate a statement given on the command line",
		Example: "  cradle eval 'x=(a+b)*c'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := TranslateString(args[0], c.opts)
			if err != nil {
				return err
			}
			if _, err := prog.WriteTo(c.stdout); err != nil {
				return &ioError{err}
			}
			return nil
		},
	}
}

func newCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Check the statement in a file without writing a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.translateFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "%s: no errors found\n", args[0])
			return nil
		},
	}
}

func newReplCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Translate statements interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(c.newLineReader(), c.stdout, c.opts)
		},
	}
}

func newReadline() lineReader {
	rl := readline.NewInstance()
	rl.SetPrompt("cradle> ")
	return rl
}

// run executes the command line and returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{
		stdin:         stdin,
		stdout:        stdout,
		stderr:        stderr,
		newLineReader: newReadline,
	}
	root := newRootCmd(c)
	root.SetArgs(args)
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v. Aborting.\n", err)
	}
	return exitCode(err)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
