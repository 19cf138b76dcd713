package main

import (
	"github.com/dhamidi/hkast/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Lsp serves token-stream files over stdio. Every open document is parsed on
each change and its malformed records and syntax errors are published as
diagnostics. Recovery is on unless --recover=false is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := parseOptions(cmd)
			if !cmd.Flags().Changed("recover") {
				opts.Recover = true
			}
			server := lsp.NewServer(cfg.LSP.Name, version, opts)
			return server.RunStdio()
		},
	}

	addParseFlags(cmd)

	return cmd
}
