package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dhamidi/hkast/hk/grammar"
	"github.com/dhamidi/hkast/hk/token"
	"github.com/dhamidi/hkast/hk/tokenstream"
	"github.com/spf13/cobra"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "grammar",
		Short:         "Inspect the EBNF grammar the parser implements",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarPrintCmd())
	cmd.AddCommand(newGrammarAcceptCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check [file]",
		Short:         "Parse and verify an EBNF grammar file (the built-in grammar by default)",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if err := grammar.Check(); err != nil {
					printErrors(cmd, err)
					return err
				}
				g, _ := grammar.Parse()
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %d productions reachable from %s\n", len(grammar.Productions(g)), grammar.Start)
				return nil
			}

			filename := args[0]
			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			if err := grammar.CheckReader(filename, f, startProduction); err != nil {
				printErrors(cmd, err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", grammar.Start, "start production for verification (if empty, only checks syntax)")

	return cmd
}

func newGrammarPrintCmd() *cobra.Command {
	var productions bool

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the built-in grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !productions {
				_, err := cmd.OutOrStdout().Write(grammar.Source())
				return err
			}
			g, err := grammar.Parse()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(grammar.Productions(g), "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&productions, "productions", false, "list production names only")

	return cmd
}

func newGrammarAcceptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept [file]",
		Short: "Check a token stream against the built-in grammar",
		Long: `Accept ingests a token stream and reports whether the built-in grammar
derives it, independently of the parser. The grammar is looser than the
parser: it lets ';' be left out between statements and accepts any
assignment target.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "<stdin>"
			var src io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open token stream: %w", err)
				}
				defer f.Close()
				name, src = args[0], f
			}

			buf := token.NewBuffer()
			reader := tokenstream.NewReader(buf)
			if _, err := reader.ReadAll(cmd.Context(), src); err != nil {
				return fmt.Errorf("ingest %s: %w", name, err)
			}
			if err := grammar.Recognize(buf.Tokens()); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: accepted (%d tokens)\n", name, buf.Len())
			return nil
		},
	}

	return cmd
}

func printErrors(cmd *cobra.Command, err error) {
	for _, msg := range grammar.Errors(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), msg)
	}
}
