package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dhamidi/hkast/config"
	"github.com/dhamidi/hkast/format"
	"github.com/dhamidi/hkast/hk/frontend"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// cfg is loaded before any subcommand runs. Flags that were set explicitly
// override it.
var cfg = config.Default()

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		verbose    int
		logFile    string
	)

	rootCmd := &cobra.Command{
		Use:     "hkast",
		Short:   "Build syntax trees from pre-lexed token streams",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if configPath != "" {
				cfg, err = config.Load(configPath)
			} else {
				cfg, err = config.LoadFromEnv()
			}
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Log.Verbosity = verbose
			}
			if cmd.Flags().Changed("log-file") {
				cfg.Log.File = logFile
			}

			var path *string
			if cfg.Log.File != "" {
				path = &cfg.Log.File
			}
			commonlog.Configure(cfg.Log.Verbosity, path)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (.toml or .yaml); defaults to $"+config.EnvVar+" or ./hkast.toml")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newREPLCmd())

	return rootCmd
}

// addParseFlags registers the flags that feed frontend.Options.
func addParseFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("recover", false, "recover from syntax errors and keep parsing")
	cmd.Flags().Int("max-errors", 0, "stop a recovering parse after this many errors (0 means no limit)")
	cmd.Flags().Bool("expr", false, "parse the input as a single expression")
	cmd.Flags().IntP("jobs", "j", 0, "files to parse at once (0 means all)")
}

// parseOptions merges the configuration with the flags set on cmd.
func parseOptions(cmd *cobra.Command) frontend.Options {
	opts := frontend.Options{
		Recover:   cfg.Parse.Recover,
		MaxErrors: cfg.Parse.MaxErrors,
		Jobs:      cfg.Parse.Jobs,
	}
	flags := cmd.Flags()
	if flags.Changed("recover") {
		opts.Recover, _ = flags.GetBool("recover")
	}
	if flags.Changed("max-errors") {
		opts.MaxErrors, _ = flags.GetInt("max-errors")
	}
	if flags.Changed("jobs") {
		opts.Jobs, _ = flags.GetInt("jobs")
	}
	if flags.Lookup("expr") != nil {
		opts.Expression, _ = flags.GetBool("expr")
	}
	return opts
}

// addOutputFlags registers --format and --color.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", fmt.Sprintf("output format %v (default from config, tree)", format.Names()))
	cmd.Flags().String("color", "", "color diagnostics: auto, always or never")
}

func outputFormat(cmd *cobra.Command) string {
	if name, _ := cmd.Flags().GetString("format"); name != "" {
		return name
	}
	return cfg.Output.Format
}

func diagnosticRenderer(cmd *cobra.Command) (*format.DiagnosticRenderer, error) {
	mode := cfg.Output.Color
	if cmd.Flags().Lookup("color") != nil {
		if s, _ := cmd.Flags().GetString("color"); s != "" {
			mode = s
		}
	}
	color, err := format.ParseColorMode(mode)
	if err != nil {
		return nil, err
	}
	return format.NewDiagnosticRenderer(cmd.ErrOrStderr(), color), nil
}
