package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"irisd/internal/common/logging"
	"irisd/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "irisd:", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand and override file and env values.
type globalFlags struct {
	configPath string
	root       string
	modelName  string
	logLevel   string
	logFormat  string
	logFile    string
}

func newRootCmd() *cobra.Command { return newRootCmdWith(&globalFlags{}) }

// newRootCmdWith builds the command tree with persistent flags bound to g.
func newRootCmdWith(g *globalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:           "irisd",
		Short:         "Iris species classifier: train, serve and query a random forest",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Config file (.yaml, .json or .toml)")
	pf.StringVar(&g.root, "root", "", "Working root; the artifact lives at <root>/models/<model-name> (env IRISD_ROOT)")
	pf.StringVar(&g.modelName, "model-name", "", "Artifact file name (default iris_model.json)")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug|info|warn|error|off (env IRISD_LOG_LEVEL)")
	pf.StringVar(&g.logFormat, "log-format", "", "Log format: json|console")
	pf.StringVar(&g.logFile, "log-file", "", "Also write JSON logs to this file, rotated")

	root.AddCommand(newServeCmd(g), newTrainCmd(g), newPredictCmd(g))
	return root
}

// loadConfig merges defaults, the config file, IRISD_* env and flags, in
// increasing precedence.
func loadConfig(cmd *cobra.Command, g *globalFlags) (config.Config, error) {
	var cfg config.Config
	if g.configPath != "" {
		c, err := config.Load(g.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = g.root
	}
	if flags.Changed("model-name") {
		cfg.ModelName = g.modelName
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = g.logFormat
	}
	if flags.Changed("log-file") {
		cfg.LogFile = g.logFile
	}
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (zerolog.Logger, io.Closer, error) {
	return logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
}

// splitCSV splits a comma-separated flag value, dropping blanks.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
