package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dhamidi/hkast/format"
	"github.com/dhamidi/hkast/hk/frontend"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		interval time.Duration
		ext      string
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-parse token streams under a directory whenever they change",
		Long: `Watch polls a directory tree for token-stream files and reports the
diagnostics of every file that is new or has changed. With --format the tree
is printed as well.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			diags, err := diagnosticRenderer(cmd)
			if err != nil {
				return err
			}
			var enc format.Encoder
			if name, _ := cmd.Flags().GetString("format"); name != "" {
				if enc, err = format.New(name, cmd.OutOrStdout()); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			w := frontend.NewWatcher(root, ext, interval, parseOptions(cmd))
			w.OnResult = func(res *frontend.Result) {
				found := format.Diagnostics(res.Name, res.DecodeErrors, res.SyntaxErrors)
				if len(found) == 0 {
					fmt.Fprintf(out, "%s: ok\n", res.Name)
				}
				if enc != nil && res.Root() != nil {
					enc.Encode(res.Root())
				}
				diags.Render(found)
			}
			w.OnError = func(path string, err error) {
				diags.Render(format.DiagnosticsFromError(path, err))
			}
			w.OnRemove = func(path string) {
				fmt.Fprintf(out, "%s: removed\n", path)
			}

			err = w.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Second, "time between scans")
	cmd.Flags().StringVar(&ext, "ext", ".jsonl", "extension of token-stream files")
	addParseFlags(cmd)
	addOutputFlags(cmd)

	return cmd
}
