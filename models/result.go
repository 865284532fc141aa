package models

import "time"

// Status is the terminal state of one scrape run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusBlocked Status = "blocked"
	StatusError   Status = "error"
)

// TimestampLayout formats ScrapeResult.ScrapedAt.
const TimestampLayout = "2006-01-02 15:04:05"

// ScrapeResult is the payload produced by one run and handed to the store.
type ScrapeResult struct {
	Status Status `json:"status"`
	URL    string `json:"url"`

	// ScrapedAt is local time at seconds resolution, see TimestampLayout.
	ScrapedAt string `json:"scraped_at"`

	// Products is never nil so it always serializes as an array.
	Products           []ProductRecord `json:"products"`
	TotalProductsFound int             `json:"total_products_found"`

	// Head and Header are the outer HTML of <head> and the first <header>,
	// empty when the page has none or rendering failed.
	Head   string `json:"head"`
	Header string `json:"header"`

	// StatusCode is the HTTP status of the main navigation, 0 when unknown.
	StatusCode int `json:"status_code,omitempty"`

	// SelectorUsed names the container strategy that matched.
	SelectorUsed string `json:"selector_used,omitempty"`

	// Error and ErrorCode are set only when Status is not success.
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

// NewScrapeResult starts an empty result for url stamped at t.
func NewScrapeResult(url string, t time.Time) *ScrapeResult {
	return &ScrapeResult{
		Status:    StatusError,
		URL:       url,
		ScrapedAt: t.Format(TimestampLayout),
		Products:  []ProductRecord{},
	}
}

// Fail marks the result as failed with the given status and error, dropping
// any products so the failure invariants hold.
func (r *ScrapeResult) Fail(status Status, err *ScrapeError) {
	r.Status = status
	r.Products = []ProductRecord{}
	r.TotalProductsFound = 0
	r.Error = err.Message
	r.ErrorCode = err.Code
}

// Succeed marks the result as successful with the given records.
func (r *ScrapeResult) Succeed(records []ProductRecord) {
	r.Status = StatusSuccess
	r.Products = records
	r.TotalProductsFound = len(records)
	r.Error = ""
	r.ErrorCode = ""
}
