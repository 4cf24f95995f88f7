// Package main is the production entry point for the EQ Player.
//
// EQ Player plays a fixed playlist and draws a live spectrum equalizer:
// - Event-driven communication (no callbacks)
// - Dependency injection for testability
// - MVP pattern for UI decoupling
//
// Build:
//
//	go build -o build/eqplayer ./cmd/eqplayer
//
// Run:
//
//	./build/eqplayer --config eqplayer.toml
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/eqplayer/internal/app"
)

type options struct {
	configPath string
	mockAudio  bool
	autoplay   bool
	ui         string
	logLevel   string
	logFormat  string
	logFile    string
}

var opts options

var rootCmd = &cobra.Command{
	Use:           "eqplayer",
	Short:         "Music player with a live spectrum equalizer",
	Version:       app.GetVersionInfo().FullString(),
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&opts.configPath, "config", "c", "",
		"Path to a TOML configuration file")
	rootCmd.Flags().BoolVar(&opts.mockAudio, "mock-audio", false,
		"Use the silent mock audio engine")
	rootCmd.Flags().BoolVar(&opts.autoplay, "autoplay", false,
		"Allow playback to start before the first key press or click")
	rootCmd.Flags().StringVar(&opts.ui, "ui", "",
		"Front-end to use: fyne or terminal")
	rootCmd.Flags().StringVar(&opts.logLevel, "log-level", "",
		"Log level: DEBUG, INFO, WARN or ERROR")
	rootCmd.Flags().StringVar(&opts.logFormat, "log-format", "",
		"Log format: text or json")
	rootCmd.Flags().StringVar(&opts.logFile, "log-file", "",
		"Write the log to this file (the terminal UI discards it otherwise)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	config, err := app.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	// Flags override the file
	flags := cmd.Flags()
	if flags.Changed("mock-audio") {
		config.UseMockAudio = opts.mockAudio
	}
	if flags.Changed("autoplay") {
		config.Autoplay = opts.autoplay
	}
	if flags.Changed("ui") {
		config.UI = opts.ui
	}
	if flags.Changed("log-level") {
		config.Log.Level = opts.logLevel
	}
	if flags.Changed("log-format") {
		config.Log.Format = opts.logFormat
	}
	if flags.Changed("log-file") {
		config.Log.File = opts.logFile
	}

	// Create the application with dependency injection
	application, err := app.NewApplication(config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run application (blocks until the window closes or a signal arrives)
	return application.Run(ctx)
}

