package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/hkast/format"
	"github.com/dhamidi/hkast/hk/token"
	"github.com/dhamidi/hkast/hk/tokenstream"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Validate a token stream and print it in canonical form",
		Long: `Tokens ingests a token stream and writes every record that decoded back
out in canonical form: fixed key order, unknown fields dropped, blank lines
removed. Records that could not be decoded are reported on standard error.`,
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

			if err := format.NewTokenEncoder(cmd.OutOrStdout()).Encode(buf.Tokens()); err != nil {
				return fmt.Errorf("encode tokens: %w", err)
			}

			found := format.Diagnostics(name, reader.Errors(), nil)
			if len(found) == 0 {
				return nil
			}
			diags, err := diagnosticRenderer(cmd)
			if err != nil {
				return err
			}
			if err := diags.Render(found); err != nil {
				return err
			}
			if strict {
				return fmt.Errorf("%d malformed records in %s", len(found), name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail if any record is malformed")
	cmd.Flags().String("color", "", "color diagnostics: auto, always or never")

	return cmd
}
