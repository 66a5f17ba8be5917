package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dgallion1/docnav/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "docnav",
	Short:         "Build and validate documentation sidebars",
	Long:          "docnav builds declarative sidebar trees, validates every reference against the docs directory, and serves the result.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .docnav.yaml)")
	pf.StringP("sidebars", "s", "", "sidebar definition file (.yaml, .json or .toml)")
	pf.StringP("docs-dir", "d", "", "documentation root")
	pf.Int("max-depth", 0, "maximum category nesting, 0 for unlimited")
	pf.Bool("include-drafts", false, "index documents marked draft")
	pf.String("log-format", "", "log format: json or text")
	pf.String("log-level", "", "log level: debug, info, warn or error")

	for key, flag := range map[string]string{
		"sidebars":       "sidebars",
		"docs_dir":       "docs-dir",
		"max_depth":      "max-depth",
		"include_drafts": "include-drafts",
		"log_format":     "log-format",
		"log_level":      "log-level",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}

	rootCmd.AddCommand(validateCmd, showCmd, exportCmd, serveCmd)
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".docnav")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("DOCNAV")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// setup loads and validates configuration and creates the logger.
func setup(logOut io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	return cfg, newLogger(logOut, cfg.LogFormat, cfg.LogLevel), nil
}

func newLogger(w io.Writer, format, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func usageErr(format string, args ...any) error {
	return fmt.Errorf("usage: "+format, args...)
}
