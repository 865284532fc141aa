package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/shelf/models"
	"github.com/use-agent/shelf/store"
)

// respondError maps a ScrapeError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error) {
	se := models.AsScrapeError(err)
	c.JSON(mapErrorToStatus(se), models.ScrapeResponse{
		Success:     false,
		Message:     se.Message,
		Error:       se.Message,
		ErrorDetail: se.ToDetail(),
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeBlocked:
		return http.StatusForbidden // 403
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}

// loadLatest reads the stored result, translating store failures into
// ScrapeErrors.
func loadLatest(ctx context.Context, st store.Store) (*models.ScrapeResult, *models.ScrapeError) {
	res, err := st.Latest(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, models.NewScrapeError(models.ErrCodeNotFound, "No scraped content found", err)
	case err != nil:
		return nil, models.NewScrapeError(models.ErrCodeStoreUnavailable, "Error retrieving data: "+err.Error(), err)
	}
	return res, nil
}
