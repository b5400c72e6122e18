package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/freebuilder/config"
	"github.com/dhamidi/freebuilder/diag"
	"github.com/dhamidi/freebuilder/processor"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// app carries the configuration shared by every subcommand. It is filled
// in by the root command's persistent pre-run.
type app struct {
	configDir string
	verbosity int
	logFile   string
	color     string
	cfg       *config.Config
}

func main() {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "freebuilder",
		Short:         "Generate Java builders for @FreeBuilder types",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configDir, "config-dir", ".", "directory containing freebuilder.yaml")
	flags.CountVarP(&a.verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.StringVar(&a.color, "color", "", "color diagnostics: auto, always or never")

	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "freebuilder:", err)
		os.Exit(1)
	}
}

// setup loads the configuration, lets explicitly set flags override it and
// configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configDir)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbosity = a.verbosity
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.logFile
	}
	if flags.Changed("color") {
		cfg.Color = a.color
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	var path *string
	if cfg.LogFile != "" {
		path = &cfg.LogFile
	}
	commonlog.Configure(cfg.Verbosity, path)
	return nil
}

func (a *app) printer() *diag.Printer {
	return diag.NewPrinter(os.Stderr, diag.ColorMode(a.cfg.Color))
}

// printDiagnostics writes the syntax errors and every report's diagnostics
// to stderr.
func (a *app) printDiagnostics(result *processor.Result) error {
	p := a.printer()
	if err := p.PrintAll(result.Syntax); err != nil {
		return err
	}
	for _, report := range result.Reports {
		if err := p.PrintAll(report.Diagnostics); err != nil {
			return err
		}
	}
	return nil
}
