package models

// ScrapeRequest is the payload for POST /scrape.
type ScrapeRequest struct {
	// URL is the category page to scrape. When empty the configured
	// default listing is used.
	URL string `json:"url,omitempty" binding:"omitempty,url"`
}

// Defaults applies default values to unset fields.
func (r *ScrapeRequest) Defaults(defaultURL string) {
	if r.URL == "" {
		r.URL = defaultURL
	}
}
