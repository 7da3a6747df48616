package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/soracore/internal/config"
	"github.com/dshills/soracore/internal/diag"
)

// globals are the persistent flags shared by every command.
type globals struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "soractl",
		Short:         "Run and inspect the soracore runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to configuration file (.toml, .yaml or .json)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "Log format: auto|console|json (overrides config)")

	root.AddCommand(
		newRunCmd(g),
		newServeCmd(g),
		newVolumeCmd(),
		newConfigCmd(g),
		newVersionCmd(),
	)
	return root
}

// load reads the configuration named by --config, or the defaults plus
// environment overrides, then applies flag overrides and validates.
func (g *globals) load() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.Load(g.configPath)
	} else {
		cfg = config.Default()
		err = config.ApplyEnv(&cfg)
	}
	if err != nil {
		return cfg, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	return cfg, cfg.Validate()
}

// newSink builds the zerolog-backed diagnostic sink. Auto format writes
// human-readable output to a terminal and JSON lines otherwise.
func newSink(cfg config.Config, w io.Writer) diag.Sink {
	var out io.Writer = w
	switch cfg.Log.Format {
	case "console":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	case "json":
	default:
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
		}
	}
	// The hub filters by level so that it can be changed at runtime.
	logger := zerolog.New(out).With().Timestamp().Logger()
	return diag.NewZerolog(logger)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "soractl %s\n", version)
			fmt.Fprintf(w, "Commit: %s\n", commit)
			fmt.Fprintf(w, "Built: %s\n", date)
			return nil
		},
	}
}
