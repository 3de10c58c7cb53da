package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/setlist/internal/config"
	"github.com/aretw0/setlist/internal/logging"
	"github.com/spf13/cobra"
)

// errRejected is returned after the rejection report has been printed.
var errRejected = errors.New("input rejected")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "setlist",
		Short:         "Setlist validates untrusted input for the song library",
		Long:          `Setlist decodes sign-up forms, OAuth user records, songs, playlists and events against their schemas and reports violations with message keys.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Persistent flags (available to all commands)
	cmd.PersistentFlags().String("config", config.DefaultPath, "Path to the configuration file")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides the config file)")

	cmd.AddCommand(
		newDecodeCmd(),
		newSchemasCmd(),
		newServeCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// loadConfig reads the configuration named by --config and builds the
// logger, honoring --log-level.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return config.Config{}, nil, err
	}

	logger := logging.New(level, cfg.Log.Format)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
