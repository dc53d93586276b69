package model

import "math"

type Product struct {
	BaseModel
	SKU             string  `db:"sku" json:"sku"`
	Name            string  `db:"name" json:"name"`
	Description     *string `db:"description" json:"description"`
	BasePrice       float64 `db:"base_price" json:"base_price"`
	OnSale          bool    `db:"on_sale" json:"on_sale"`
	DiscountPercent int     `db:"discount_percent" json:"discount_percent"`
	CategoryID      *string `db:"category_id" json:"category_id"` // Nullable
	GenderID        *string `db:"gender_id" json:"gender_id"`     // Nullable
	SeasonID        *string `db:"season_id" json:"season_id"`     // Nullable
	BrandID         *string `db:"brand_id" json:"brand_id"`       // Nullable

	// Joined reference names, populated by FindByID/FindAll.
	CategoryName *string `db:"category_name" json:"category_name,omitempty"`
	GenderName   *string `db:"gender_name" json:"gender_name,omitempty"`
	SeasonName   *string `db:"season_name" json:"season_name,omitempty"`
	BrandName    *string `db:"brand_name" json:"brand_name,omitempty"`

	StockLines []StockLine    `db:"-" json:"stock_lines,omitempty"`
	Images     []ProductImage `db:"-" json:"images,omitempty"`
}

// FinalPrice is the effective selling price, rounded to 2 decimals. It is
// derived from persisted fields and never stored.
func (p *Product) FinalPrice() float64 {
	if p.OnSale && p.DiscountPercent > 0 {
		return math.Round(p.BasePrice*float64(100-p.DiscountPercent)) / 100
	}
	return p.BasePrice
}

// StockTotal sums the quantities of the loaded stock lines.
func (p *Product) StockTotal() int {
	total := 0
	for _, sl := range p.StockLines {
		total += sl.Quantity
	}
	return total
}

// StockLine holds the quantity of one product in one size. Unique per
// (product, size); only ever written as a full replacement of a product's set.
type StockLine struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"product_id"`
	SizeID    string `db:"size_id" json:"size_id"`
	SizeName  string `db:"size_name" json:"size_name"` // Joined data
	Quantity  int    `db:"quantity" json:"quantity"`
}

type ProductImage struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"product_id"`
	URL       string `db:"url" json:"url"`
	IsPrimary bool   `db:"is_primary" json:"is_primary"`
}
