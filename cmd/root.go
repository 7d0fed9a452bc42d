// Package cmd wires the CLI: subcommand definitions, flag handling,
// configuration loading, logging setup and signal driven cancellation.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	log "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Hangghost/youtube-converter/internal/config"
	"github.com/Hangghost/youtube-converter/internal/platform"
	"github.com/Hangghost/youtube-converter/internal/progress"
	"github.com/Hangghost/youtube-converter/internal/ui"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

var rootFlags struct {
	outputDir  string
	configPath string
	noProgress bool
	verbose    bool
}

// settings holds the effective configuration after file values and flag
// overrides are merged. Populated before any subcommand runs.
var settings *config.Settings

var rootCmd = &cobra.Command{
	Use:     "youtube-converter",
	Short:   "Download YouTube videos and convert them to MP3",
	Long:    "youtube-converter downloads YouTube videos or playlists as MP4 and converts them to MP3 via ffmpeg.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},
}

// Execute runs the root command with Ctrl+C wired to context cancellation.
// Any error exits the process with a non-zero status.
func Execute() {
	// trap Ctrl+C and call cancel on the context
	ctx, cancel := context.WithCancel(context.Background())
	breakChannel := make(chan os.Signal, 1)
	signal.Notify(breakChannel, os.Interrupt, syscall.SIGTERM)

	defer func() {
		signal.Stop(breakChannel)
		cancel()
	}()

	go func() {
		select {
		case <-breakChannel:
			cancel()
		case <-ctx.Done():
		}
	}()

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.PrintError(friendlyError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlags.outputDir, "output", "o", "", "output directory (default \"downloads\")")
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.noProgress, "no-progress", false, "disable progress output")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.verbose, "verbose", false, "enable debug logging")
}

// initApp configures logging, loads the config file and applies flag
// overrides. Flags win over file values.
func initApp() error {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if rootFlags.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	loaded, err := config.Load(rootFlags.configPath)
	if err != nil {
		return err
	}
	settings = loaded
	writeDefaultConfig()

	if rootFlags.outputDir != "" {
		settings.OutputDir = rootFlags.outputDir
	}
	if rootFlags.noProgress {
		settings.NoProgress = true
	}

	expanded, err := platform.ExpandPath(settings.OutputDir)
	if err != nil {
		return err
	}
	settings.OutputDir = expanded
	return nil
}

// writeDefaultConfig persists the defaults on first run so users have a
// file to edit. Best effort; failure only logs.
func writeDefaultConfig() {
	if rootFlags.configPath != "" {
		return
	}
	path, err := config.DefaultPath()
	if err != nil {
		return
	}
	if _, err := os.Stat(path); err == nil {
		return
	}
	if err := config.Save(path, config.DefaultSettings()); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("could not write default config")
		return
	}
	log.Debug().Str("path", path).Msg("wrote default config")
}

// newReporter picks the progress renderer: none when disabled, animated
// bars on a terminal, plain text lines otherwise.
func newReporter(ctx context.Context) progress.Reporter {
	if settings.NoProgress {
		return progress.NewNop()
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return progress.NewBar(ctx)
	}
	return progress.NewText(os.Stdout)
}
