package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/use-agent/shelf/models"
)

const acceptLanguage = "en-US,en;q=0.9"

// statusJS reads the HTTP status of the main navigation without CDP
// network listeners, which conflict with request hijacking.
const statusJS = `() => {
	try {
		const entries = performance.getEntriesByType("navigation");
		if (entries.length > 0) return entries[0].responseStatus || 0;
	} catch(e) {}
	return 0;
}`

// Render loads rawURL in a fresh browser and returns the rendered document.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. Session slot        – wait for a free slot under MaxSessions
//  2. Launch              – one Chromium process, torn down inline on failure
//  3. DEFER: teardown     – close connection, kill process, remove profile
//  4. Page setup          – user agent, viewport, stealth, headers, hijack
//  5. Human delay         – random pause before navigation
//  6. Navigate + wait     – bounded by NavigationTimeout
//  7. Block check         – status code and denial title
//  8. Scroll              – best-effort, bounded step count
//  9. Snapshot            – HTML parsed into a Document
//
// Step 4 must precede step 6: stealth and hijacking only apply to navigations
// started after they are installed.
func (s *Scraper) Render(ctx context.Context, rawURL string) (*Document, error) {
	// ── 1. Session slot ──────────────────────────────────────────────
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	// ── 2. Launch ────────────────────────────────────────────────────
	l := s.newLauncher(ctx)
	controlURL, err := l.Launch()
	if err != nil {
		// Cleanup waits for the browser process to exit and would block
		// forever when it never started.
		l.Kill()
		_ = os.RemoveAll(l.Get(flags.UserDataDir))
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}

	// ── 3. Teardown: kill first, then wait for exit and remove profile ─
	defer l.Cleanup()
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			slog.Debug("browser close failed", "error", closeErr)
		}
	}()
	browser = browser.NoDefaultDevice()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to open page", err)
	}

	// ── 4. Page setup ────────────────────────────────────────────────
	ua := pickUserAgent(s.browserCfg.UserAgents)
	if err := s.preparePage(page, rawURL, ua); err != nil {
		return nil, err
	}

	router := setupHijack(page, s.browserCfg.BlockedResourceTypes, s.browserCfg.BlockAds)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	// ── 5. Human delay ───────────────────────────────────────────────
	delay := randomDuration(s.scraperCfg.MinDelay, s.scraperCfg.MaxDelay)
	slog.Debug("pre-navigation delay", "delay", delay)
	if err := sleep(ctx, delay); err != nil {
		return nil, categorizeError(err, "request canceled before navigation")
	}

	// ── 6. Navigate + wait for body ─────────────────────────────────
	slog.Info("navigating", "url", rawURL, "user_agent", ua)
	navCtx, cancelNav := context.WithTimeout(ctx, s.scraperCfg.NavigationTimeout)
	defer cancelNav()
	nav := page.Context(navCtx)
	if err := nav.Navigate(rawURL); err != nil {
		return nil, categorizeError(err, "navigation to target URL failed")
	}
	if _, err := nav.Element("body"); err != nil {
		return nil, categorizeError(err, "page load timeout")
	}

	p := page.Context(ctx)

	// ── 7. Block check ───────────────────────────────────────────────
	statusCode := 0
	if res, err := p.Eval(statusJS); err == nil {
		statusCode = res.Value.Int()
	}
	title := evalStringOrEmpty(p, `() => document.title`)
	if isBlocked(statusCode, title) {
		slog.Warn("access blocked by target", "url", rawURL, "status", statusCode, "title", title)
		return nil, models.NewScrapeError(models.ErrCodeBlocked, blockedMessage(statusCode), nil)
	}

	// ── 8. Scroll ────────────────────────────────────────────────────
	steps := s.scroll(ctx, p)
	slog.Debug("scrolled page", "steps", steps)

	// ── 9. Snapshot ──────────────────────────────────────────────────
	rawHTML, err := p.HTML()
	if err != nil {
		return nil, categorizeError(err, "failed to extract page HTML")
	}
	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = rawURL
	}

	doc, err := newDocument(rawHTML, finalURL, statusCode, title)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeNavigation, "failed to parse page HTML", err)
	}
	slog.Info("page rendered", "url", finalURL, "status", statusCode, "bytes", len(rawHTML))
	return doc, nil
}

// preparePage applies the user agent, viewport, stealth script and extra
// headers. Only the user agent is mandatory; the rest degrade with a warning.
func (s *Scraper) preparePage(page *rod.Page, rawURL, ua string) error {
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      ua,
		AcceptLanguage: acceptLanguage,
	}); err != nil {
		return models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to set user agent", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.browserCfg.WindowWidth,
		Height:            s.browserCfg.WindowHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		slog.Warn("viewport override failed", "error", err)
	}

	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
	}

	headers := map[string]string{"Accept-Language": acceptLanguage}
	if u, err := url.Parse(rawURL); err == nil {
		headers["Referer"] = "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())
	}
	if err := (proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(headers)}).Call(page); err != nil {
		slog.Warn("extra headers not applied", "error", err)
	}
	return nil
}

// scroll walks the page top to bottom to trigger lazy rendering. It stops
// early on any error or cancellation and returns the number of steps taken.
func (s *Scraper) scroll(ctx context.Context, p *rod.Page) int {
	res, err := p.Eval(`() => document.body ? document.body.scrollHeight : 0`)
	if err != nil {
		slog.Debug("scroll height unavailable", "error", err)
		return 0
	}

	positions := scrollPositions(res.Value.Int(), s.scraperCfg.ScrollStep, s.scraperCfg.MaxScrollSteps)
	for i, y := range positions {
		if _, err := p.Eval(`(y) => window.scrollTo(0, y)`, y); err != nil {
			slog.Debug("scroll stopped", "step", i, "error", err)
			return i
		}
		pause := randomDuration(s.scraperCfg.MinScrollPause, s.scraperCfg.MaxScrollPause)
		if err := sleep(ctx, pause); err != nil {
			return i + 1
		}
	}
	return len(positions)
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors.
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// blockedStatuses are navigation statuses treated as anti-bot denial.
var blockedStatuses = map[int]struct{}{
	401: {},
	403: {},
	429: {},
}

// deniedTitles are page-title markers served by common bot walls.
var deniedTitles = []string{
	"access denied",
	"attention required",
	"request blocked",
}

// isBlocked reports whether the target refused to serve the listing.
func isBlocked(statusCode int, title string) bool {
	if _, ok := blockedStatuses[statusCode]; ok {
		return true
	}
	t := strings.ToLower(title)
	for _, marker := range deniedTitles {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}

func blockedMessage(statusCode int) string {
	if statusCode == 0 {
		return "access denied by target site"
	}
	return fmt.Sprintf("access denied by target site (HTTP %d)", statusCode)
}

// categorizeError wraps raw errors into typed ScrapeErrors so the caller
// can classify the run.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, "page load timeout", err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeCanceled, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
