// Package extract turns a rendered listing page into product records.
//
// Pipeline for one document:
//
//	Locator.Locate        – first container strategy with a match wins
//	FieldExtractor.Extract – title, price pair, discount, image per container
//	Assembler.Add         – acceptance rule and 1-based product ids
//
// Containers are processed sequentially in DOM order. A container without a
// title is skipped, one that fails validation is rejected, and one whose
// extraction panics is logged and counted as failed; none of these stop the
// batch.
package extract

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/shelf/models"
)

// Options overrides the built-in selector tables. Empty fields keep the
// defaults.
type Options struct {
	ContainerSelectors []string
	TitleSelector      string
	PriceSelector      string
	DiscountSelector   string
	ImageSelector      string
}

// Outcome is the result of extracting one document.
type Outcome struct {
	// SelectorUsed is the container strategy that matched, "" if none did.
	SelectorUsed string

	// Matched counts containers found by SelectorUsed.
	Matched int

	// Skipped counts containers without a title element.
	Skipped int

	// Rejected counts candidates that failed the acceptance rule.
	Rejected int

	// Failed counts containers whose extraction panicked.
	Failed int

	Records []models.ProductRecord
}

// candidateExtractor is satisfied by *FieldExtractor.
type candidateExtractor interface {
	Extract(container *goquery.Selection, base *url.URL) (models.ProductCandidate, bool)
}

// Extractor runs the full locate → extract → assemble pipeline.
type Extractor struct {
	locator *Locator
	fields  candidateExtractor
}

// New builds an Extractor, compiling every selector up front.
func New(opts Options) (*Extractor, error) {
	containers := opts.ContainerSelectors
	if len(containers) == 0 {
		containers = DefaultContainerSelectors
	}
	locator, err := NewLocator(containers)
	if err != nil {
		return nil, err
	}

	fields, err := NewFieldExtractor(
		orDefault(opts.TitleSelector, DefaultTitleSelector),
		orDefault(opts.PriceSelector, DefaultPriceSelector),
		orDefault(opts.DiscountSelector, DefaultDiscountSelector),
		orDefault(opts.ImageSelector, DefaultImageSelector),
	)
	if err != nil {
		return nil, err
	}

	return &Extractor{locator: locator, fields: fields}, nil
}

// Default returns an Extractor with the built-in selectors.
func Default() *Extractor {
	e, err := New(Options{})
	if err != nil {
		panic(err)
	}
	return e
}

// Run extracts products from doc. pageURL resolves relative image sources.
func (e *Extractor) Run(doc *goquery.Document, pageURL string) *Outcome {
	out := &Outcome{}

	selector, containers := e.locator.Locate(doc.Selection)
	out.SelectorUsed = selector
	out.Matched = containers.Length()
	if out.Matched == 0 {
		slog.Warn("no container selector matched", "url", pageURL)
		out.Records = []models.ProductRecord{}
		return out
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	asm := NewAssembler()
	containers.Each(func(i int, container *goquery.Selection) {
		candidate, ok, err := e.extractOne(container, base)
		switch {
		case err != nil:
			out.Failed++
			slog.Warn("error processing product", "index", i+1, "error", err)
		case !ok:
			out.Skipped++
			slog.Debug("skipped product: no title element", "index", i+1)
		default:
			if _, accepted := asm.Add(candidate); !accepted {
				out.Rejected++
				slog.Debug("skipped product: insufficient data", "index", i+1, "title", candidate.Title)
			}
		}
	})

	out.Records = asm.Records()
	slog.Info("extraction finished",
		"selector", selector,
		"matched", out.Matched,
		"accepted", len(out.Records),
		"skipped", out.Skipped,
		"rejected", out.Rejected,
		"failed", out.Failed,
	)
	return out
}

// extractOne isolates a single container so a panic in it only loses
// that container.
func (e *Extractor) extractOne(container *goquery.Selection, base *url.URL) (c models.ProductCandidate, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract container: %v", r)
		}
	}()
	c, ok = e.fields.Extract(container, base)
	return c, ok, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
