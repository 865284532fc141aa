package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/shelf/models"
)

// Default sub-selectors for the fields of one product container.
const (
	DefaultTitleSelector    = `h3, h2, [class*="title"], [class*="name"]`
	DefaultPriceSelector    = `[class*="price"], .amount, [class*="mrp"]`
	DefaultDiscountSelector = `[class*="discount"], [class*="off"], [class*="save"]`
	DefaultImageSelector    = `img`
)

// FieldExtractor pulls a ProductCandidate out of one container.
type FieldExtractor struct {
	title    Strategy
	price    Strategy
	discount Strategy
	image    Strategy
}

// NewFieldExtractor compiles the four field selectors.
func NewFieldExtractor(title, price, discount, image string) (*FieldExtractor, error) {
	strategies, err := compileAll([]string{title, price, discount, image})
	if err != nil {
		return nil, err
	}
	return &FieldExtractor{
		title:    strategies[0],
		price:    strategies[1],
		discount: strategies[2],
		image:    strategies[3],
	}, nil
}

// Extract runs the sub-extractions independently. It returns false when the
// container has no title-like element; every other field may be absent.
// base resolves relative image URLs and may be nil.
func (f *FieldExtractor) Extract(container *goquery.Selection, base *url.URL) (models.ProductCandidate, bool) {
	title, ok := f.firstText(container, f.title)
	if !ok {
		return models.ProductCandidate{}, false
	}

	c := models.ProductCandidate{Title: title}

	// The listing renders the selling price before the struck-through MRP.
	prices := f.allTexts(container, f.price)
	if len(prices) >= 1 {
		c.SalePrice = prices[0]
	}
	if len(prices) >= 2 {
		c.Price = prices[1]
	}

	c.DiscountMessage, _ = f.firstText(container, f.discount)
	c.ImageURL = f.imageURL(container, base)

	return c, true
}

// firstText returns the collapsed text of the first match. The bool reports
// whether any element matched, even if its text is empty.
func (f *FieldExtractor) firstText(container *goquery.Selection, s Strategy) (string, bool) {
	match := s.find(container).First()
	if match.Length() == 0 {
		return "", false
	}
	return cleanText(match.Text()), true
}

// allTexts returns the non-blank collapsed texts of all matches in DOM order.
func (f *FieldExtractor) allTexts(container *goquery.Selection, s Strategy) []string {
	var texts []string
	s.find(container).Each(func(_ int, sel *goquery.Selection) {
		if t := cleanText(sel.Text()); t != "" {
			texts = append(texts, t)
		}
	})
	return texts
}

// imageURL reads the first image's src, falling back to data-src for lazy
// placeholders, and resolves it against base.
func (f *FieldExtractor) imageURL(container *goquery.Selection, base *url.URL) string {
	img := f.image.find(container).First()
	if img.Length() == 0 {
		return ""
	}

	src := strings.TrimSpace(img.AttrOr("src", ""))
	if src == "" || strings.HasPrefix(src, "data:") {
		if lazy := strings.TrimSpace(img.AttrOr("data-src", "")); lazy != "" {
			src = lazy
		}
	}
	if src == "" || base == nil {
		return src
	}

	resolved, err := base.Parse(src)
	if err != nil {
		return src
	}
	return resolved.String()
}

// cleanText trims s and collapses internal whitespace runs to one space.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
