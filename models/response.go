package models

// ScrapeResponse is the response for POST /scrape.
type ScrapeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	// Data is a ScrapeSummary on success and the full ScrapeResult on error.
	Data any `json:"data,omitempty"`

	// Error is the human-readable failure reason.
	Error string `json:"error,omitempty"`

	// ErrorDetail carries the machine-readable failure code.
	ErrorDetail *ErrorDetail `json:"error_detail,omitempty"`

	// Suggestion is remediation advice shown when the target blocked us.
	Suggestion string `json:"suggestion,omitempty"`
}

// ScrapeSummary is the success payload of POST /scrape.
type ScrapeSummary struct {
	URL           string `json:"url"`
	ProductsFound int    `json:"products_found"`
	ScrapedAt     string `json:"scraped_at"`
	Status        Status `json:"status"`
	Stored        bool   `json:"stored"`
}

// ContentResponse is the response for GET /scraped-content.
type ContentResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message,omitempty"`
	Data        *PageContent `json:"data,omitempty"`
	ErrorDetail *ErrorDetail `json:"error_detail,omitempty"`
}

// PageContent is the page-level part of the stored result.
type PageContent struct {
	Head               string `json:"head"`
	Header             string `json:"header"`
	URL                string `json:"url"`
	Status             Status `json:"status"`
	ScrapedAt          string `json:"scraped_at"`
	TotalProductsFound int    `json:"total_products_found"`
}

// ProductsResponse is the response for GET /products.
type ProductsResponse struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message,omitempty"`
	Data        []ProductRecord `json:"data"`
	Source      string          `json:"source,omitempty"`
	ScrapedAt   string          `json:"scraped_at,omitempty"`
	TotalCount  int             `json:"total_count"`
	URL         string          `json:"url,omitempty"`
	ErrorDetail *ErrorDetail    `json:"error_detail,omitempty"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status      string            `json:"status"`
	Redis       string            `json:"redis"` // "connected" or "disconnected"
	Store       string            `json:"store"`
	ScrapedData string            `json:"scraped_data"`
	Timestamp   float64           `json:"timestamp"`
	Uptime      string            `json:"uptime"`
	Sessions    SessionStats      `json:"sessions"`
	Endpoints   map[string]string `json:"endpoints"`
}

// SessionStats reports how many browser sessions are in use.
type SessionStats struct {
	MaxSessions    int `json:"max_sessions"`
	ActiveSessions int `json:"active_sessions"`
}
