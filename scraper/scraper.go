package scraper

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"golang.org/x/sync/semaphore"

	"github.com/use-agent/shelf/config"
	"github.com/use-agent/shelf/models"
)

// Scraper renders listing pages, one short-lived browser per render.
// It is safe for concurrent use; at most MaxSessions renders run at once.
type Scraper struct {
	browserCfg config.BrowserConfig
	scraperCfg config.ScraperConfig

	sessions *semaphore.Weighted
	active   atomic.Int32
}

// New returns a Scraper. No browser is started until the first Render.
func New(browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig) *Scraper {
	maxSessions := browserCfg.MaxSessions
	if maxSessions < 1 {
		maxSessions = 1
	}
	browserCfg.MaxSessions = maxSessions

	return &Scraper{
		browserCfg: browserCfg,
		scraperCfg: scraperCfg,
		sessions:   semaphore.NewWeighted(int64(maxSessions)),
	}
}

// Stats returns a snapshot of the session cap and current usage.
func (s *Scraper) Stats() models.SessionStats {
	return models.SessionStats{
		MaxSessions:    s.browserCfg.MaxSessions,
		ActiveSessions: int(s.active.Load()),
	}
}

// acquire blocks until a browser session slot is free or ctx is done.
func (s *Scraper) acquire(ctx context.Context) (release func(), err error) {
	if err := s.sessions.Acquire(ctx, 1); err != nil {
		return nil, categorizeError(err, "waiting for a free browser session")
	}
	s.active.Add(1)
	return func() {
		s.active.Add(-1)
		s.sessions.Release(1)
	}, nil
}

// newLauncher configures one Chromium process for a render.
func (s *Scraper) newLauncher(ctx context.Context) *launcher.Launcher {
	l := launcher.New().
		Context(ctx).
		Headless(s.browserCfg.Headless).
		NoSandbox(s.browserCfg.NoSandbox).
		Leakless(true)

	if s.browserCfg.BrowserBin != "" {
		l = l.Bin(s.browserCfg.BrowserBin)
	}

	// ── Anti-detection flags ─────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-gpu"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("window-size"), windowSize(s.browserCfg.WindowWidth, s.browserCfg.WindowHeight))

	slog.Debug("browser launcher configured",
		"headless", s.browserCfg.Headless,
		"width", s.browserCfg.WindowWidth,
		"height", s.browserCfg.WindowHeight,
	)
	return l
}
