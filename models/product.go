package models

// ProductCandidate is a product extracted from one container before
// validation. Absent fields are empty strings.
type ProductCandidate struct {
	Title string `json:"title"`

	// Price is the original (MRP) price, usually rendered struck through.
	Price string `json:"price"`

	// SalePrice is the price the item currently sells for.
	SalePrice string `json:"sale_price"`

	DiscountMessage string `json:"discount_message"`

	// ImageURL is absolute once resolved against the page URL.
	ImageURL string `json:"image_url"`
}

// HasPrice reports whether either price field is set.
func (c ProductCandidate) HasPrice() bool {
	return c.Price != "" || c.SalePrice != ""
}

// ProductRecord is a validated candidate with its ordinal identifier.
type ProductRecord struct {
	// ProductID is the 1-based position among accepted records of one run.
	ProductID string `json:"product_id"`

	ProductCandidate
}
