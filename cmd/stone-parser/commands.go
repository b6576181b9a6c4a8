package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/spicery/stone-parser/pkg/ast"
	"github.com/spicery/stone-parser/pkg/lexer"
	"github.com/spicery/stone-parser/pkg/parser"
)

func newTokensCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens",
		Short: "Print one JSON token per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			in, err := opts.openInput(cmd)
			if err != nil {
				return err
			}
			defer in.Close()
			out, err := opts.openOutput(cmd)
			if err != nil {
				return err
			}
			defer opts.closeOutput(out, &err)

			lx := lexer.New(in, lexer.WithLogger(opts.logger(cmd)))
			return opts.processingError(writeTokens(out, lx))
		},
	}
}

// writeTokens writes every token up to EOF, or up to the first bad line.
func writeTokens(w io.Writer, lx *lexer.Lexer) error {
	enc := json.NewEncoder(w)
	for {
		tok, err := lx.Read()
		if err != nil {
			return err
		}
		if tok.IsEOF() {
			return nil
		}
		if err := enc.Encode(tok); err != nil {
			return fmt.Errorf("error encoding token: %w", err)
		}
	}
}

func newParseCmd(opts *options) *cobra.Command {
	var dump, locations bool

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse expression statements and print one tree per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			rules, err := opts.loadRules()
			if err != nil {
				return err
			}
			logger := opts.logger(cmd)
			g, err := parser.NewExprGrammar(rules, parser.WithLogger(logger))
			if err != nil {
				return err
			}

			in, err := opts.openInput(cmd)
			if err != nil {
				return err
			}
			defer in.Close()
			out, err := opts.openOutput(cmd)
			if err != nil {
				return err
			}
			defer opts.closeOutput(out, &err)

			trees, perr := g.ParseAll(g.Statement, lexer.New(in, lexer.WithLogger(logger)))
			if err := writeTrees(out, trees, dump, locations); err != nil {
				return err
			}
			return opts.processingError(perr)
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "Dump the full node structure of each tree")
	cmd.Flags().BoolVar(&locations, "locations", false, "Prefix each tree with its source line")
	return cmd
}

// writeTrees writes every non-empty tree, one per line or as a spew dump.
func writeTrees(w io.Writer, trees []ast.Tree, dump, locations bool) error {
	for _, tree := range trees {
		if ast.IsEmptyList(tree) {
			continue
		}
		if dump {
			spew.Fdump(w, tree)
			continue
		}
		var err error
		if locations {
			_, err = fmt.Fprintf(w, "%s: %s\n", tree.Location(), tree)
		} else {
			_, err = fmt.Fprintln(w, tree)
		}
		if err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}
	return nil
}

func newMakeRulesCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "make-rules",
		Short: "Print the rules file (defaults merged with --rules)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			rules, err := opts.loadRules()
			if err != nil {
				return err
			}
			out, err := opts.openOutput(cmd)
			if err != nil {
				return err
			}
			defer opts.closeOutput(out, &err)
			return rules.Encode(out, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or toml")
	return cmd
}

// loadRules returns the default rules with any --rules file applied.
func (o *options) loadRules() (*parser.RulesFile, error) {
	if o.rulesFile == "" {
		return parser.DefaultRules(), nil
	}
	rules, err := parser.LoadRulesFile(o.rulesFile)
	if err != nil {
		return nil, err
	}
	return parser.ApplyRulesToDefaults(rules), nil
}
