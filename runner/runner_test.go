package runner

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/shelf/extract"
	"github.com/use-agent/shelf/models"
	"github.com/use-agent/shelf/scraper"
)

const listingURL = "https://www.croma.com/televisions-accessories/c/997"

// staticRenderer serves the same markup on every call.
type staticRenderer struct {
	html  string
	calls int
}

func (s *staticRenderer) Render(_ context.Context, url string) (*scraper.Document, error) {
	s.calls++
	return scraper.NewDocument(s.html, url)
}

type failingRenderer struct{ err error }

func (f failingRenderer) Render(context.Context, string) (*scraper.Document, error) {
	return nil, f.err
}

type panickingRenderer struct{}

func (panickingRenderer) Render(context.Context, string) (*scraper.Document, error) {
	panic("renderer exploded")
}

// deadlineRenderer waits for the run deadline to expire.
type deadlineRenderer struct{ sawDeadline bool }

func (d *deadlineRenderer) Render(ctx context.Context, _ string) (*scraper.Document, error) {
	_, d.sawDeadline = ctx.Deadline()
	<-ctx.Done()
	return nil, models.NewScrapeError(models.ErrCodeTimeout, "page load timeout", ctx.Err())
}

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

func newTestRunner(r Renderer) *Runner {
	run := New(r, extract.Default(), 0)
	run.now = func() time.Time { return fixedNow }
	return run
}

const threeTVs = `<html><head><title>TVs</title></head><body>
<header>Croma</header>
<div class="product-item"><h3>TV one</h3><span class="sale-price">₹10,000</span><span class="mrp">₹12,000</span></div>
<div class="product-item"><h3>TV two</h3><span class="sale-price">₹20,000</span></div>
<div class="product-item"><h3>TV three</h3><span class="mrp">₹30,000</span></div>
</body></html>`

func TestScrape_Success(t *testing.T) {
	res := newTestRunner(&staticRenderer{html: threeTVs}).Scrape(context.Background(), listingURL)

	assert.Equal(t, models.StatusSuccess, res.Status)
	assert.Equal(t, listingURL, res.URL)
	assert.Equal(t, "2024-03-09 14:05:07", res.ScrapedAt)
	assert.Equal(t, 3, res.TotalProductsFound)
	require.Len(t, res.Products, 3)
	for i, id := range []string{"1", "2", "3"} {
		assert.Equal(t, id, res.Products[i].ProductID)
	}
	assert.Equal(t, ".product-item", res.SelectorUsed)
	assert.Equal(t, "<header>Croma</header>", res.Header)
	assert.Contains(t, res.Head, "<title>TVs</title>")
	assert.Empty(t, res.Error)
	assert.Empty(t, res.ErrorCode)
}

func TestScrape_Timeout(t *testing.T) {
	err := models.NewScrapeError(models.ErrCodeTimeout, "page load timeout", context.DeadlineExceeded)
	res := newTestRunner(failingRenderer{err: err}).Scrape(context.Background(), listingURL)

	assert.Equal(t, models.StatusError, res.Status)
	assert.Contains(t, res.Error, "timeout")
	assert.Equal(t, models.ErrCodeTimeout, res.ErrorCode)
	assert.NotNil(t, res.Products)
	assert.Empty(t, res.Products)
	assert.Zero(t, res.TotalProductsFound)
}

func TestScrape_Blocked(t *testing.T) {
	err := models.NewScrapeError(models.ErrCodeBlocked, "access denied by target site (HTTP 403)", nil)
	res := newTestRunner(failingRenderer{err: err}).Scrape(context.Background(), listingURL)

	assert.Equal(t, models.StatusBlocked, res.Status)
	assert.Equal(t, models.ErrCodeBlocked, res.ErrorCode)
	assert.Empty(t, res.Products)
}

func TestScrape_UntypedRenderError(t *testing.T) {
	res := newTestRunner(failingRenderer{err: errors.New("websocket closed")}).Scrape(context.Background(), listingURL)

	assert.Equal(t, models.StatusError, res.Status)
	assert.Equal(t, models.ErrCodeInternal, res.ErrorCode)
	assert.Equal(t, "websocket closed", res.Error)
}

func TestScrape_NoContainers(t *testing.T) {
	r := &staticRenderer{html: `<html><body><header>Croma</header><p>Maintenance</p></body></html>`}
	res := newTestRunner(r).Scrape(context.Background(), listingURL)

	assert.Equal(t, models.StatusError, res.Status)
	assert.Equal(t, models.ErrCodeNoContainers, res.ErrorCode)
	assert.Empty(t, res.Products)
	assert.Empty(t, res.SelectorUsed)
	assert.Equal(t, "<header>Croma</header>", res.Header, "markup fragments survive a failed extraction")
}

func TestScrape_AllRejected(t *testing.T) {
	r := &staticRenderer{html: `<html><body>
<div class="product-card"><h3>Coming soon</h3></div>
<div class="product-card"><span class="sale-price">₹1</span></div>
</body></html>`}
	res := newTestRunner(r).Scrape(context.Background(), listingURL)

	assert.Equal(t, models.StatusError, res.Status)
	assert.Equal(t, models.ErrCodeNoRecords, res.ErrorCode)
	assert.Equal(t, ".product-card", res.SelectorUsed)
	assert.Zero(t, res.TotalProductsFound)
}

func TestScrape_PanicIsContained(t *testing.T) {
	var res *models.ScrapeResult
	assert.NotPanics(t, func() {
		res = newTestRunner(panickingRenderer{}).Scrape(context.Background(), listingURL)
	})
	assert.Equal(t, models.StatusError, res.Status)
	assert.Equal(t, models.ErrCodeInternal, res.ErrorCode)
	assert.Contains(t, res.Error, "renderer exploded")
	assert.Empty(t, res.Products)
}

func TestScrape_InvalidURL(t *testing.T) {
	r := &staticRenderer{html: threeTVs}
	res := newTestRunner(r).Scrape(context.Background(), "ftp://example.com/list")

	assert.Equal(t, models.StatusError, res.Status)
	assert.Equal(t, models.ErrCodeInvalidInput, res.ErrorCode)
	assert.Zero(t, r.calls, "renderer must not run for an invalid URL")
}

func TestScrape_RunTimeout(t *testing.T) {
	d := &deadlineRenderer{}
	run := New(d, extract.Default(), 30*time.Millisecond)

	res := run.Scrape(context.Background(), listingURL)

	assert.True(t, d.sawDeadline)
	assert.Equal(t, models.StatusError, res.Status)
	assert.Equal(t, models.ErrCodeTimeout, res.ErrorCode)
}

func TestScrape_Idempotent(t *testing.T) {
	r := &staticRenderer{html: threeTVs}
	run := newTestRunner(r)

	first := run.Scrape(context.Background(), listingURL)
	second := run.Scrape(context.Background(), listingURL)

	assert.Equal(t, 2, r.calls)
	assert.Equal(t, first.Products, second.Products)
}

func TestScrape_JSONShape(t *testing.T) {
	res := newTestRunner(failingRenderer{err: errors.New("boom")}).Scrape(context.Background(), listingURL)

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, []any{}, m["products"])
	assert.Equal(t, "error", m["status"])
	assert.NotContains(t, m, "selector_used")
	assert.NotContains(t, m, "status_code")
}

// statusRenderer serves markup with a known navigation status.
type statusRenderer struct {
	html   string
	status int
}

func (s statusRenderer) Render(_ context.Context, url string) (*scraper.Document, error) {
	doc, err := scraper.NewDocument(s.html, url)
	if err != nil {
		return nil, err
	}
	doc.StatusCode = s.status
	return doc, nil
}

func TestScrape_RecordsNavigationStatus(t *testing.T) {
	res := newTestRunner(statusRenderer{html: threeTVs, status: 200}).Scrape(context.Background(), listingURL)

	assert.Equal(t, models.StatusSuccess, res.Status)
	assert.Equal(t, 200, res.StatusCode)
}

func TestScrape_Canceled(t *testing.T) {
	err := models.NewScrapeError(models.ErrCodeCanceled, "request canceled", context.Canceled)
	res := newTestRunner(failingRenderer{err: err}).Scrape(context.Background(), listingURL)

	assert.Equal(t, models.StatusError, res.Status)
	assert.Equal(t, models.ErrCodeCanceled, res.ErrorCode)
	assert.Equal(t, "request canceled", res.Error)
}
