package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhamidi/hkast/format"
	"github.com/dhamidi/hkast/hk/frontend"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file...]",
		Short: "Parse token streams and print their syntax trees",
		Long: `Parse reads token records, one JSON object per line, from each file or
from standard input when no file is given, and prints the resulting tree.
Problems are reported on standard error.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := parseOptions(cmd)
			enc, err := format.New(outputFormat(cmd), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			diags, err := diagnosticRenderer(cmd)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				res, err := frontend.Run(cmd.Context(), "<stdin>", os.Stdin, opts)
				if err != nil {
					return err
				}
				return printResults(cmd, enc, diags, []*frontend.Result{res})
			}

			// Files that could not be read have no result; the rest are
			// still printed.
			results, runErr := frontend.RunFiles(cmd.Context(), args, opts)
			return errors.Join(printResults(cmd, enc, diags, results), runErr)
		},
	}

	addParseFlags(cmd)
	addOutputFlags(cmd)

	return cmd
}

// printResults writes each tree followed by its diagnostics, and fails if
// any input had problems.
func printResults(cmd *cobra.Command, enc format.Encoder, diags *format.DiagnosticRenderer, results []*frontend.Result) error {
	var all []format.Diagnostic
	failed := 0
	for _, res := range results {
		if res == nil {
			continue
		}
		if root := res.Root(); root != nil {
			if len(results) > 1 && outputFormat(cmd) != "json" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", res.Name)
			}
			if err := enc.Encode(root); err != nil {
				return fmt.Errorf("encode %s: %w", res.Name, err)
			}
		}
		found := format.Diagnostics(res.Name, res.DecodeErrors, res.SyntaxErrors)
		if err := diags.Render(found); err != nil {
			return err
		}
		all = append(all, found...)
		if len(res.SyntaxErrors) > 0 {
			failed++
		}
	}

	if len(all) > 0 {
		if err := diags.Summary(all); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs had syntax errors", failed, len(results))
	}
	return nil
}
