package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/use-agent/shelf/api/handler"
	"github.com/use-agent/shelf/api/middleware"
	"github.com/use-agent/shelf/config"
	"github.com/use-agent/shelf/store"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger → CORS
//	/scrape: RateLimit
//
// Read endpoints and health are not rate limited; they only touch the store.
func NewRouter(
	cfg *config.Config,
	run handler.ScrapeRunner,
	sessions handler.SessionReporter,
	st store.Store,
	startTime time.Time,
) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(cors.New(corsConfig(cfg.CORS)))

	r.GET("/health", handler.Health(st, sessions, startTime))
	r.GET("/scraped-content", handler.ScrapedContent(st))
	r.GET("/products", handler.Products(st))

	r.POST("/scrape",
		middleware.RateLimit(cfg.RateLimit),
		handler.Scrape(run, st, cfg.Scraper.DefaultURL),
	)

	return r
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	cc := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.AllowedOrigins
	}
	return cc
}
