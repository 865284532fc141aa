package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/shelf/models"
	"github.com/use-agent/shelf/store"
)

const defaultURL = "https://www.croma.com/televisions-accessories/c/997"

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeRunner returns a canned result and records the URL it was asked for.
type fakeRunner struct {
	result *models.ScrapeResult
	gotURL string
}

func (f *fakeRunner) Scrape(_ context.Context, url string) *models.ScrapeResult {
	f.gotURL = url
	r := *f.result
	r.URL = url
	return &r
}

// brokenStore fails every operation, like an unreachable Redis.
type brokenStore struct{}

func (brokenStore) Save(context.Context, *models.ScrapeResult) error { return errors.New("dial tcp: refused") }
func (brokenStore) Latest(context.Context) (*models.ScrapeResult, error) {
	return nil, errors.New("dial tcp: refused")
}
func (brokenStore) Ping(context.Context) error { return errors.New("dial tcp: refused") }
func (brokenStore) Name() string               { return "redis" }
func (brokenStore) Close() error               { return nil }

type fixedSessions models.SessionStats

func (f fixedSessions) Stats() models.SessionStats { return models.SessionStats(f) }

func successResult() *models.ScrapeResult {
	res := models.NewScrapeResult(defaultURL, time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local))
	res.Head = "<head><title>TVs</title></head>"
	res.Header = "<header>Croma</header>"
	res.Succeed([]models.ProductRecord{
		{ProductID: "1", ProductCandidate: models.ProductCandidate{Title: "TV", SalePrice: "₹499", Price: "₹699"}},
		{ProductID: "2", ProductCandidate: models.ProductCandidate{Title: "Soundbar", SalePrice: "₹199"}},
	})
	return res
}

func failedResult(status models.Status, code, msg string) *models.ScrapeResult {
	res := models.NewScrapeResult(defaultURL, time.Now())
	res.Fail(status, models.NewScrapeError(code, msg, nil))
	return res
}

func serve(t *testing.T, h gin.HandlerFunc, method, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	r := gin.New()
	r.Handle(method, "/", h)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func TestScrape_SuccessStoresResult(t *testing.T) {
	st := store.NewMemoryStore(0)
	run := &fakeRunner{result: successResult()}

	w, body := serve(t, Scrape(run, st, defaultURL), http.MethodPost, `{"url":"https://www.croma.com/audio/c/1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Scraping completed successfully! Found 2 products", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(2), data["products_found"])
	assert.Equal(t, "https://www.croma.com/audio/c/1", data["url"])
	assert.Equal(t, true, data["stored"])

	stored, err := st.Latest(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored.Products, 2)
}

func TestScrape_EmptyBodyUsesDefaultURL(t *testing.T) {
	run := &fakeRunner{result: successResult()}
	w, _ := serve(t, Scrape(run, store.NewMemoryStore(0), defaultURL), http.MethodPost, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultURL, run.gotURL)
}

func TestScrape_Blocked(t *testing.T) {
	st := store.NewMemoryStore(0)
	run := &fakeRunner{result: failedResult(models.StatusBlocked, models.ErrCodeBlocked, "access denied by target site (HTTP 403)")}

	w, body := serve(t, Scrape(run, st, defaultURL), http.MethodPost, `{}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["suggestion"])
	assert.Equal(t, "access denied by target site (HTTP 403)", body["error"])

	_, err := st.Latest(context.Background())
	assert.ErrorIs(t, err, store.ErrNotFound, "failed scrapes are not stored")
}

func TestScrape_Error(t *testing.T) {
	run := &fakeRunner{result: failedResult(models.StatusError, models.ErrCodeTimeout, "page load timeout")}

	w, body := serve(t, Scrape(run, store.NewMemoryStore(0), defaultURL), http.MethodPost, `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Scraping failed", body["message"])
	assert.Equal(t, "page load timeout", body["error"])
	detail := body["error_detail"].(map[string]any)
	assert.Equal(t, models.ErrCodeTimeout, detail["code"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "error", data["status"])
	assert.Equal(t, []any{}, data["products"])
}

func TestScrape_InternalErrorIs500(t *testing.T) {
	run := &fakeRunner{result: failedResult(models.StatusError, models.ErrCodeInternal, "unexpected error: boom")}

	w, body := serve(t, Scrape(run, store.NewMemoryStore(0), defaultURL), http.MethodPost, `{}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, body["success"])
	detail := body["error_detail"].(map[string]any)
	assert.Equal(t, models.ErrCodeInternal, detail["code"])
}

func TestScrape_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"url":`},
		{"not a url", `{"url":"televisions"}`},
		{"wrong scheme", `{"url":"ftp://www.croma.com/tv"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &fakeRunner{result: successResult()}
			w, body := serve(t, Scrape(run, store.NewMemoryStore(0), defaultURL), http.MethodPost, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			detail := body["error_detail"].(map[string]any)
			assert.Equal(t, models.ErrCodeInvalidInput, detail["code"])
			assert.Empty(t, run.gotURL, "runner must not be called")
		})
	}
}

func TestScrape_StoreFailureStillSucceeds(t *testing.T) {
	run := &fakeRunner{result: successResult()}
	w, body := serve(t, Scrape(run, brokenStore{}, defaultURL), http.MethodPost, `{}`)

	assert.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["stored"])
}

func TestScrapedContent(t *testing.T) {
	st := store.NewMemoryStore(0)

	w, body := serve(t, ScrapedContent(st), http.MethodGet, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No scraped content found", body["message"])

	require.NoError(t, st.Save(context.Background(), successResult()))
	w, body = serve(t, ScrapedContent(st), http.MethodGet, "")
	assert.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "<header>Croma</header>", data["header"])
	assert.Equal(t, "success", data["status"])
	assert.Equal(t, float64(2), data["total_products_found"])
	assert.NotContains(t, data, "products")

	w, _ = serve(t, ScrapedContent(brokenStore{}), http.MethodGet, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestProducts(t *testing.T) {
	st := store.NewMemoryStore(0)

	w, body := serve(t, Products(st), http.MethodGet, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []any{}, body["data"])

	empty := models.NewScrapeResult(defaultURL, time.Now())
	empty.Status = models.StatusSuccess
	require.NoError(t, st.Save(context.Background(), empty))
	w, _ = serve(t, Products(st), http.MethodGet, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.NoError(t, st.Save(context.Background(), successResult()))
	w, body = serve(t, Products(st), http.MethodGet, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "scraped", body["source"])
	assert.Equal(t, float64(2), body["total_count"])
	first := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "1", first["product_id"])
	assert.Equal(t, "₹499", first["sale_price"])

	w, body = serve(t, Products(brokenStore{}), http.MethodGet, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, []any{}, body["data"])
}

func TestHealth(t *testing.T) {
	st := store.NewMemoryStore(0)
	start := time.Now().Add(-90 * time.Second)

	w, body := serve(t, Health(st, fixedSessions{MaxSessions: 2}, start), http.MethodGet, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "disconnected", body["redis"])
	assert.Equal(t, "memory", body["store"])
	assert.Equal(t, "no_data", body["scraped_data"])
	assert.InDelta(t, float64(time.Now().Unix()), body["timestamp"], 5)
	assert.Equal(t, "/products", body["endpoints"].(map[string]any)["products"])

	require.NoError(t, st.Save(context.Background(), successResult()))
	_, body = serve(t, Health(st, fixedSessions{MaxSessions: 2, ActiveSessions: 2}, start), http.MethodGet, "")
	assert.Equal(t, "2_products", body["scraped_data"])
	assert.Equal(t, "degraded", body["status"])

	_, body = serve(t, Health(brokenStore{}, fixedSessions{MaxSessions: 2}, start), http.MethodGet, "")
	assert.Equal(t, "disconnected", body["redis"])
	assert.Equal(t, "error", body["scraped_data"])
}
