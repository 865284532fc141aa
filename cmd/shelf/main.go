// Command shelf scrapes rendered product listings and serves the latest
// result over HTTP.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/use-agent/shelf/config"
	"github.com/use-agent/shelf/extract"
	"github.com/use-agent/shelf/runner"
	"github.com/use-agent/shelf/scraper"
)

var (
	cfg *config.Config

	logLevel  string
	logFormat string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shelf",
		Short:         "Rendered product-listing scraper",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg = config.Load()
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Log.Format = logFormat
			}
			initLogger(cfg.Log)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format: json or text")

	root.AddCommand(serveCmd(), scrapeCmd())
	return root
}

// newRunner wires the renderer and extractor shared by serve and scrape.
func newRunner(cfg *config.Config) (*runner.Runner, *scraper.Scraper) {
	sc := scraper.New(cfg.Browser, cfg.Scraper)
	return runner.New(sc, extract.Default(), cfg.Scraper.RunTimeout), sc
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
