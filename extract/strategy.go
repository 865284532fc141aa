package extract

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Strategy is a compiled CSS selector used to find containers or fields.
// A selector group ("h3, h2") matches in document order, not group order.
type Strategy struct {
	Selector string
	matcher  cascadia.Selector
}

// NewStrategy compiles selector.
func NewStrategy(selector string) (Strategy, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return Strategy{}, fmt.Errorf("compile selector %q: %w", selector, err)
	}
	return Strategy{Selector: selector, matcher: m}, nil
}

// compileAll compiles selectors preserving their order.
func compileAll(selectors []string) ([]Strategy, error) {
	out := make([]Strategy, 0, len(selectors))
	for _, sel := range selectors {
		s, err := NewStrategy(sel)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// find returns the descendants of sel matched by s.
func (s Strategy) find(sel *goquery.Selection) *goquery.Selection {
	return sel.FindMatcher(s.matcher)
}
