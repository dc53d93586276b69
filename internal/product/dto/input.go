package dto

type CreateProductInput struct {
	SKU             string
	Name            string
	Description     string
	BasePrice       float64
	OnSale          bool
	DiscountPercent int
	CategoryID      string
	GenderID        string
	SeasonID        string
	BrandID         string

	// Delimited text fields, e.g. "S, M, L" and "10, 20, 15".
	Sizes      string
	Quantities string

	// Image URLs; the first one becomes the primary image.
	ImageURLs []string
}

// UpdateProductInput uses pointers for partial-update semantics: nil means
// leave the field unchanged. Sizes and Quantities must be supplied together;
// text that parses to zero pairs (empty or all-blank tokens) leaves the
// stock set untouched. A non-nil ImageURLs replaces the entire image set.
type UpdateProductInput struct {
	ID              string
	SKU             *string
	Name            *string
	Description     *string
	BasePrice       *float64
	OnSale          *bool
	DiscountPercent *int
	CategoryID      *string // empty string clears the reference
	GenderID        *string
	SeasonID        *string
	BrandID         *string

	Sizes      *string
	Quantities *string

	ImageURLs []string
}
