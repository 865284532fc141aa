package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/use-agent/shelf/config"
	"github.com/use-agent/shelf/models"
	"github.com/use-agent/shelf/store"
)

var scrapeSave bool

func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [url]",
		Short: "Scrape one listing and print the result as JSON",
		Long: `Render a category page, extract its products and print the result.

Without a URL the configured default listing is scraped. The exit status is
non-zero unless the run succeeded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScrape,
	}
	cmd.Flags().BoolVar(&scrapeSave, "store", false, "save a successful result to the configured store")
	return cmd
}

func runScrape(_ *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	url := cfg.Scraper.DefaultURL
	if len(args) == 1 {
		url = args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run, _ := newRunner(cfg)
	result := run.Scrape(ctx, url)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if result.Status != models.StatusSuccess {
		return fmt.Errorf("scrape %s: %s (%s)", result.Status, result.Error, result.ErrorCode)
	}

	if scrapeSave {
		st := store.Open(ctx, cfg.Store)
		defer st.Close()
		if err := st.Save(ctx, result); err != nil {
			return fmt.Errorf("store result: %w", err)
		}
		slog.Info("result stored", "store", st.Name(), "products", result.TotalProductsFound)
	}
	return nil
}
