// Package runner sequences one scrape: render, extract, classify. It is the
// only caller of the renderer and never lets an error or panic escape.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/use-agent/shelf/config"
	"github.com/use-agent/shelf/extract"
	"github.com/use-agent/shelf/models"
	"github.com/use-agent/shelf/scraper"
)

// Renderer produces a rendered document for a URL. *scraper.Scraper
// implements it; tests substitute static documents.
type Renderer interface {
	Render(ctx context.Context, url string) (*scraper.Document, error)
}

// Runner turns a URL into a classified ScrapeResult.
type Runner struct {
	renderer  Renderer
	extractor *extract.Extractor
	timeout   time.Duration

	// now stamps scraped_at.
	now func() time.Time
}

// New wires a Runner. A zero timeout leaves the caller's deadline in charge.
func New(renderer Renderer, extractor *extract.Extractor, timeout time.Duration) *Runner {
	return &Runner{
		renderer:  renderer,
		extractor: extractor,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Scrape runs the full pipeline for url. It always returns a result; every
// failure is reported through Status, Error and ErrorCode.
func (r *Runner) Scrape(ctx context.Context, url string) (result *models.ScrapeResult) {
	start := time.Now()
	result = models.NewScrapeResult(url, r.now())

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("scrape panicked",
				"url", url,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			result.Fail(models.StatusError, models.NewScrapeError(
				models.ErrCodeInternal,
				fmt.Sprintf("unexpected error: %v", rec),
				nil,
			))
		}
		slog.Info("scrape finished",
			"url", url,
			"status", result.Status,
			"products", result.TotalProductsFound,
			"error_code", result.ErrorCode,
			"elapsed", time.Since(start),
		)
	}()

	if err := config.ValidateURL(url); err != nil {
		result.Fail(models.StatusError, models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err))
		return result
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	slog.Info("scrape started", "url", url)
	doc, err := r.renderer.Render(ctx, url)
	if err != nil {
		status, se := classifyRenderError(err)
		slog.Warn("render failed", "url", url, "status", status, "error", err)
		result.Fail(status, se)
		return result
	}

	slog.Debug("page snapshot",
		"url", url,
		"final_url", doc.FinalURL,
		"status_code", doc.StatusCode,
		"title", doc.Title,
	)
	result.StatusCode = doc.StatusCode
	result.Head = doc.Head
	result.Header = doc.Header

	base := doc.FinalURL
	if base == "" {
		base = url
	}
	out := r.extractor.Run(doc.DOM, base)
	result.SelectorUsed = out.SelectorUsed

	status, se := classifyOutcome(out)
	if se != nil {
		result.Fail(status, se)
		return result
	}
	result.Succeed(out.Records)
	return result
}
