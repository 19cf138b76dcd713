package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/hkast/format"
	"github.com/dhamidi/hkast/repl"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const replHelp = `Enter one token record per line. The entry is parsed once it is complete;
a blank line parses whatever is pending.
  :format NAME   switch output format
  :expr          toggle expression mode
  :reset         drop pending records
  :quit          exit`

func newREPLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "repl",
		Short:        "Enter token records interactively and print their trees",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := repl.NewSession(parseOptions(cmd))
			formatName := outputFormat(cmd)
			enc, err := format.New(formatName, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			diags, err := diagnosticRenderer(cmd)
			if err != nil {
				return err
			}

			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)

			histPath := cfg.REPL.HistoryFile
			if err := os.MkdirAll(filepath.Dir(histPath), 0o755); err == nil {
				if f, err := os.Open(histPath); err == nil {
					_, _ = ln.ReadHistory(f)
					_ = f.Close()
				}
				defer func() {
					if f, err := os.Create(histPath); err == nil {
						_, _ = ln.WriteHistory(f)
						_ = f.Close()
					}
				}()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, replHelp)
			for {
				prompt := cfg.REPL.Prompt
				if session.Pending() {
					prompt = strings.Repeat(".", len(strings.TrimRight(prompt, " "))) + " "
				}
				line, err := ln.Prompt(prompt)
				if errors.Is(err, liner.ErrPromptAborted) && session.Pending() {
					session.Reset()
					continue
				}
				if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
					fmt.Fprintln(out)
					return nil
				}
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}

				if cmdLine := strings.TrimSpace(line); strings.HasPrefix(cmdLine, ":") {
					fields := strings.Fields(cmdLine)
					switch fields[0] {
					case ":quit", ":q":
						return nil
					case ":reset":
						session.Reset()
					case ":expr":
						session.Reset()
						session.Options.Expression = !session.Options.Expression
						fmt.Fprintf(out, "expression mode %v\n", session.Options.Expression)
					case ":format":
						if len(fields) != 2 {
							fmt.Fprintf(out, "usage: :format %v\n", format.Names())
							continue
						}
						next, err := format.New(fields[1], out)
						if err != nil {
							fmt.Fprintln(out, err)
							continue
						}
						enc, formatName = next, fields[1]
					default:
						fmt.Fprintln(out, replHelp)
					}
					continue
				}

				ready, err := session.Feed(line)
				if err != nil {
					diags.Render(format.DiagnosticsFromError("", err))
					continue
				}
				if strings.TrimSpace(line) != "" {
					ln.AppendHistory(line)
				}
				if !ready {
					continue
				}

				res, err := session.Submit(cmd.Context())
				if err != nil {
					return err
				}
				if root := res.Root(); root != nil {
					if err := enc.Encode(root); err != nil {
						fmt.Fprintf(out, "encode %s: %v\n", formatName, err)
					}
				}
				diags.Render(format.Diagnostics("", res.DecodeErrors, res.SyntaxErrors))
			}
		},
	}

	addParseFlags(cmd)
	addOutputFlags(cmd)

	return cmd
}
