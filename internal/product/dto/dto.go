package dto

import "time"

type ProductFilters struct {
	SearchQuery string // matched against name, sku, description, brand name
	SortBy      string // name, price, created_at
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}

// ProductListView is the compact projection used for product listings.
type ProductListView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Brand        *string `json:"brand"`
	FinalPrice   float64 `json:"final_price"`
	OnSale       bool    `json:"on_sale"`
	PrimaryImage *string `json:"primary_image"`
}

type StockLineView struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

type ImageView struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
}

// ProductDetailView is the full projection: every product field with
// reference names resolved, stock lines ordered by size name, and both
// derived fields.
type ProductDetailView struct {
	ID              string          `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Description     *string         `json:"description"`
	BasePrice       float64         `json:"base_price"`
	OnSale          bool            `json:"on_sale"`
	DiscountPercent int             `json:"discount_percent"`
	FinalPrice      float64         `json:"final_price"`
	Category        *string         `json:"category"`
	Gender          *string         `json:"gender"`
	Season          *string         `json:"season"`
	Brand           *string         `json:"brand"`
	StockTotal      int             `json:"stock_total"`
	Stock           []StockLineView `json:"stock"`
	Images          []ImageView     `json:"images"`
	CreatedAt       time.Time       `json:"created_at"`
}
