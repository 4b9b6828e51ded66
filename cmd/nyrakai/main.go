// Command nyrakai checks and builds Nyrakai words from the command line.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nyrakai/nyrakai"
	"github.com/nyrakai/nyrakai/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "nyrakai"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand. It is filled in by the
// root command's PersistentPreRunE.
type app struct {
	configPath string
	dataDir    string
	logLevel   string

	cfg    *config.Config
	engine *nyrakai.Engine
	logger *slog.Logger
}

func (a *app) load(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.dataDir != "" {
		cfg.Rules.DataDir = a.dataDir
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	a.logger = cfg.NewLogger(stderr)
	slog.SetDefault(a.logger)

	a.engine, err = cfg.Engine()
	if err != nil {
		return err
	}
	a.logger.Debug("Rule tables loaded",
		slog.String("data", cfg.Rules.DataDir),
		slog.Int("morphemes", len(a.engine.Morphemes())))
	return nil
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Nyrakai phonotactic validator and word composer",
		Long: `nyrakai validates words against the Nyrakai phonotactic rules,
splits them into syllables and composes roots with affixes.

Examples:
  nyrakai validate țrænañī kæ'æ
  nyrakai segment ka'ta
  nyrakai compose țræn --gender flexible --with gender:feminine --with case:genitive
  nyrakai audit --dict 'dict/**/*.json'
  nyrakai domain kæ action
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.load(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.dataDir, "data", "", "Directory of rule tables (default: embedded)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		validateCmd(a),
		segmentCmd(a),
		composeCmd(a),
		normalizeCmd(),
		auditCmd(a),
		domainCmd(a),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}
