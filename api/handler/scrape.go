package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/shelf/config"
	"github.com/use-agent/shelf/models"
	"github.com/use-agent/shelf/store"
)

// ScrapeRunner runs one scrape. *runner.Runner implements it.
type ScrapeRunner interface {
	Scrape(ctx context.Context, url string) *models.ScrapeResult
}

const blockedSuggestion = "This is common for e-commerce sites with anti-bot protection. " +
	"Retry later, lower the request rate, or use the site's official product feed."

// Scrape returns a handler for POST /scrape.
//
// Flow:
//  1. Parse the optional body and fall back to the default URL.
//  2. Run the scrape; the runner never fails, it classifies.
//  3. success → store the result, 200 with a summary.
//     blocked → 403 with a remediation suggestion.
//     error   → 400 with the full result for debugging, 500 when the
//               run recovered from an internal failure.
func Scrape(run ScrapeRunner, st store.Store, defaultURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// ── 1. Parse request ────────────────────────────────────────
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err))
			return
		}
		req.Defaults(defaultURL)
		if err := config.ValidateURL(req.URL); err != nil {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err))
			return
		}

		// ── 2. Scrape ───────────────────────────────────────────────
		result := run.Scrape(c.Request.Context(), req.URL)

		// ── 3. Respond by status ────────────────────────────────────
		switch result.Status {
		case models.StatusSuccess:
			stored := true
			if err := st.Save(c.Request.Context(), result); err != nil {
				stored = false
				slog.Error("failed to store scrape result", "url", result.URL, "store", st.Name(), "error", err)
			}
			c.JSON(http.StatusOK, models.ScrapeResponse{
				Success: true,
				Message: fmt.Sprintf("Scraping completed successfully! Found %d products", result.TotalProductsFound),
				Data: models.ScrapeSummary{
					URL:           result.URL,
					ProductsFound: result.TotalProductsFound,
					ScrapedAt:     result.ScrapedAt,
					Status:        result.Status,
					Stored:        stored,
				},
			})

		case models.StatusBlocked:
			c.JSON(http.StatusForbidden, models.ScrapeResponse{
				Success:     false,
				Message:     "Website blocked the scraping request",
				Error:       result.Error,
				ErrorDetail: detailOf(result),
				Suggestion:  blockedSuggestion,
			})

		default:
			status := http.StatusBadRequest
			if result.ErrorCode == models.ErrCodeInternal {
				status = http.StatusInternalServerError
			}
			c.JSON(status, models.ScrapeResponse{
				Success:     false,
				Message:     "Scraping failed",
				Error:       result.Error,
				ErrorDetail: detailOf(result),
				Data:        result,
			})
		}
	}
}

func detailOf(r *models.ScrapeResult) *models.ErrorDetail {
	return &models.ErrorDetail{Code: r.ErrorCode, Message: r.Error}
}
