package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/props/internal/config"
	"github.com/vango-dev/props/internal/errors"
	"github.com/vango-dev/props/pkg/binding"
	"github.com/vango-dev/props/pkg/property"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	dir       string
	logLevel  string
	logFormat string
	maxDepth  int
	noColor   bool
}

func main() {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)

	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   "props",
		Short: "Run and inspect reactive property scenarios",
		Long: `props drives the property and binding library from YAML scenarios.

A scenario declares properties, derives new ones through bindings,
mutates them step by step and checks the results. Every change
event is printed, and list events are replayed to verify them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := setup(flags, stderr)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.dir, "dir", "C", ".", "Directory containing "+config.ConfigFileName)
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format: text or json (default from config)")
	pf.IntVar(&flags.maxDepth, "max-depth", 0, "Propagation depth bound of bindings (default from config)")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	current := func() *config.Config { return cfg }

	rootCmd.AddCommand(
		runCmd(current),
		serveCmd(current),
		codesCmd(),
		configCmd(current),
		versionCmd(),
	)

	return rootCmd
}

// setup loads the configuration, applies flag overrides and installs the
// process-wide logger and binding defaults.
func setup(flags *globalFlags, stderr io.Writer) (*config.Config, error) {
	if flags.noColor {
		errors.DisableColors()
	}

	cfg, err := config.LoadOrDefault(flags.dir)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	if flags.maxDepth != 0 {
		cfg.Binding.MaxDepth = flags.maxDepth
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger(stderr)
	slog.SetDefault(logger)
	property.SetLogger(logger.With("component", "property"))
	binding.SetMaxPropagationDepth(cfg.Binding.MaxDepth)

	return cfg, nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
