package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a rendered page snapshot. It belongs to one run and is never
// persisted.
type Document struct {
	// DOM is the parsed snapshot the extractor runs against.
	DOM *goquery.Document

	// Head and Header are the outer HTML of the first <head> and <header>
	// elements, or "" when absent.
	Head   string
	Header string

	// FinalURL is the location after redirects.
	FinalURL string

	// StatusCode is the main navigation status, 0 when unknown.
	StatusCode int

	// Title is document.title at render time.
	Title string
}

// NewDocument parses rawHTML into a Document. It is exported for callers
// that already hold markup, such as tests and offline re-extraction.
func NewDocument(rawHTML, finalURL string) (*Document, error) {
	return newDocument(rawHTML, finalURL, 0, "")
}

func newDocument(rawHTML, finalURL string, statusCode int, title string) (*Document, error) {
	dom, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	if title == "" {
		title = strings.TrimSpace(dom.Find("title").First().Text())
	}
	return &Document{
		DOM:        dom,
		Head:       fragment(dom.Find("head").First()),
		Header:     fragment(dom.Find("header").First()),
		FinalURL:   finalURL,
		StatusCode: statusCode,
		Title:      title,
	}, nil
}

// fragment serializes sel as markup, "" when sel is empty.
func fragment(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	html, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}
	return html
}
