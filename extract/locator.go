package extract

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"
)

// DefaultContainerSelectors are tried in order, most specific first.
var DefaultContainerSelectors = []string{
	`div[data-testid="product-item"]`,
	`.product-item`,
	`.product-card`,
	`.plp-card-container`,
	`[class*="ProductCard"]`,
}

// Locator finds product containers with an ordered list of strategies.
type Locator struct {
	strategies []Strategy
}

// NewLocator compiles the container selectors in order.
func NewLocator(selectors []string) (*Locator, error) {
	strategies, err := compileAll(selectors)
	if err != nil {
		return nil, err
	}
	return &Locator{strategies: strategies}, nil
}

// Locate returns the first strategy that matches at least one element
// under root, together with the matched containers. Later strategies are
// not consulted once one matches, even if they would match more. When
// nothing matches it returns "" and an empty selection.
func (l *Locator) Locate(root *goquery.Selection) (string, *goquery.Selection) {
	for _, s := range l.strategies {
		slog.Debug("trying container selector", "selector", s.Selector)
		matched := s.find(root)
		if matched.Length() > 0 {
			slog.Info("containers matched", "selector", s.Selector, "count", matched.Length())
			return s.Selector, matched
		}
	}
	return "", root.Slice(0, 0)
}
