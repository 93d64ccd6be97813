// Command reactssr renders React components on the server from the command
// line, or serves an html/template page using the reactssr helpers.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/pthm/reactssr/lib/engine"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

// engineFlags override the REACT_* environment configuration.
type engineFlags struct {
	root     string
	scripts  []string
	manifest string
	logLevel string
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.root, "root", ".", "directory scripts and the manifest are read from")
	cmd.Flags().StringSliceVarP(&f.scripts, "script", "s", nil, "script bundle to load into every engine (repeatable, overrides REACT_SCRIPTS)")
	cmd.Flags().StringVar(&f.manifest, "manifest", "", "asset manifest path (overrides REACT_MANIFEST_PATH)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn or error")
}

func (f *engineFlags) logger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", f.logLevel, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// environment builds the engine environment from REACT_* variables and the
// flags.
func (f *engineFlags) environment(reg prometheus.Registerer) (*engine.Environment, *slog.Logger, error) {
	logger, err := f.logger()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := engine.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if len(f.scripts) > 0 {
		cfg.Scripts = f.scripts
	}
	if f.manifest != "" {
		cfg.ManifestPath = f.manifest
	}
	if len(cfg.Scripts) == 0 {
		return nil, nil, fmt.Errorf("no scripts configured: set REACT_SCRIPTS or pass --script")
	}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithFiles(os.DirFS(f.root)),
	}
	if reg != nil {
		opts = append(opts, engine.WithRegisterer(reg))
	}
	env, err := engine.New(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	return env, logger, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "reactssr",
		Short: "Server-side rendering of React components",
		Long: `reactssr renders React components to HTML with pooled JavaScript engines.

Engines are configured with REACT_* environment variables (REACT_SCRIPTS,
REACT_MAX_ENGINES, REACT_RENDER_TIMEOUT, ...); flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		renderCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
