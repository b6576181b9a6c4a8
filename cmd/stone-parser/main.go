package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spicery/stone-parser/pkg/parser"
)

const version = "0.1.0"

// options holds the flags shared by every subcommand.
type options struct {
	inputFile  string
	outputFile string
	rulesFile  string
	exit0      bool
	verbose    bool
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		verbose, _ := root.PersistentFlags().GetBool("verbose")
		reportError(os.Stderr, err, verbose)
		os.Exit(1)
	}
}

// reportError prints err with a red prefix. In verbose mode a node build
// failure is printed with the stack recorded when the builder failed.
func reportError(w io.Writer, err error, verbose bool) {
	color.New(color.FgRed, color.Bold).Fprint(w, "Error: ")
	var berr *parser.BuildError
	if verbose && errors.As(err, &berr) {
		fmt.Fprintf(w, "%+v\n", berr)
		return
	}
	fmt.Fprintln(w, err)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "stone-parser",
		Short: "Tokenise and parse line-oriented source text",
		Long: `stone-parser - a tokenizer and parser-combinator toolkit

The tokens command outputs one JSON token object per line.
The parse command parses expression statements and prints one tree per line.
Operator precedence and reserved words can be customised with a YAML or TOML
rules file (see make-rules for the defaults).`,
		Example: `  stone-parser tokens --input source.stone     # Tokenise a file
  echo "1 + 2 * 3" | stone-parser parse        # Parse from stdin
  stone-parser parse --rules ops.yaml --input source.stone
  stone-parser make-rules --format toml > ops.toml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.inputFile, "input", "", "Input file (defaults to stdin)")
	flags.StringVar(&opts.outputFile, "output", "", "Output file (defaults to stdout)")
	flags.StringVar(&opts.rulesFile, "rules", "", "YAML or TOML rules file (optional)")
	flags.BoolVar(&opts.exit0, "exit0", false, "Exit with code 0 even on tokenisation or syntax errors (suppress stderr)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug tracing to stderr")

	root.AddCommand(
		newTokensCmd(opts),
		newParseCmd(opts),
		newMakeRulesCmd(opts),
	)
	return root
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// openInput returns the input file, or the command's stdin.
func (o *options) openInput(cmd *cobra.Command) (io.ReadCloser, error) {
	if o.inputFile == "" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	file, err := os.Open(o.inputFile)
	if err != nil {
		return nil, fmt.Errorf("error reading file '%s': %w", o.inputFile, err)
	}
	return file, nil
}

// openOutput returns the output file, or the command's stdout.
func (o *options) openOutput(cmd *cobra.Command) (io.WriteCloser, error) {
	if o.outputFile == "" {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}
	file, err := os.Create(o.outputFile)
	if err != nil {
		return nil, fmt.Errorf("error creating output file '%s': %w", o.outputFile, err)
	}
	return file, nil
}

// closeOutput closes out and records the close error in *err unless an
// earlier error is already there.
func (o *options) closeOutput(out io.Closer, err *error) {
	if cerr := out.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("error closing output file '%s': %w", o.outputFile, cerr)
	}
}

// processingError reports an input error after the output has been written.
// With --exit0 it is swallowed.
func (o *options) processingError(err error) error {
	if err == nil || o.exit0 {
		return nil
	}
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
