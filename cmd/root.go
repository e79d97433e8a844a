package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/anyctl/internal/config"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var (
	cfgFile      string
	verbose      bool
	ephemeral    bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:           "anyctl",
	Short:         "Command-line client for the Anytype desktop app",
	Long:          "anyctl talks to the local API of a running Anytype app: pair once, then browse, search and edit your spaces.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.anyctl/config.json5, env ANYCTL_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep state in memory only")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")

	rootCmd.AddCommand(authCmd())
	rootCmd.AddCommand(spacesCmd())
	rootCmd.AddCommand(objectsCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(typesCmd())
	rootCmd.AddCommand(propertiesCmd())
	rootCmd.AddCommand(tagsCmd())
	rootCmd.AddCommand(listsCmd())
	rootCmd.AddCommand(membersCmd())
	rootCmd.AddCommand(pinsCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(doctorCmd())
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printFailure(err)
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if cfgFile != "" {
		return config.ExpandHome(cfgFile)
	}
	if v := os.Getenv("ANYCTL_CONFIG"); v != "" {
		return config.ExpandHome(v)
	}
	return config.DefaultPath()
}

// setupLogging installs a text handler on stderr. --verbose wins over the
// configured level.
func setupLogging(level string) {
	lvl := parseLevel(level)
	if verbose {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	}
	return slog.LevelWarn
}
