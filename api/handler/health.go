package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/shelf/models"
	"github.com/use-agent/shelf/store"
)

// SessionReporter exposes browser session usage. *scraper.Scraper
// implements it.
type SessionReporter interface {
	Stats() models.SessionStats
}

var endpoints = map[string]string{
	"products":        "/products",
	"scraped_content": "/scraped-content",
	"scrape":          "/scrape",
}

// Health returns a handler for GET /health.
//
// Reports store reachability and the shape of the stored payload, and
// degrades status when more than 80% of browser sessions are in use.
func Health(st store.Store, sessions SessionReporter, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		stats := sessions.Stats()

		status := "healthy"
		if stats.MaxSessions > 0 && stats.ActiveSessions > int(float64(stats.MaxSessions)*0.8) {
			status = "degraded"
		}

		redis := "disconnected"
		if st.Name() == "redis" && st.Ping(ctx) == nil {
			redis = "connected"
		}

		now := time.Now()
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:      status,
			Redis:       redis,
			Store:       st.Name(),
			ScrapedData: store.Describe(ctx, st),
			Timestamp:   float64(now.UnixNano()) / float64(time.Second),
			Uptime:      now.Sub(startTime).Round(time.Second).String(),
			Sessions:    stats,
			Endpoints:   endpoints,
		})
	}
}
