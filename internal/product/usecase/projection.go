package usecase

import (
	"strings"

	"github.com/tiendastreet/catalog-service/internal/model"
	"github.com/tiendastreet/catalog-service/internal/product/dto"
)

// buildListViews projects already-loaded products into the compact list
// shape. Images must be batch-loaded by the caller; this function never
// touches storage.
func buildListViews(products []model.Product, imagesByProduct map[string][]model.ProductImage, baseURL string) []dto.ProductListView {
	views := make([]dto.ProductListView, len(products))
	for i := range products {
		p := &products[i]
		views[i] = dto.ProductListView{
			ID:           p.ID,
			Name:         p.Name,
			Brand:        p.BrandName,
			FinalPrice:   p.FinalPrice(),
			OnSale:       p.OnSale,
			PrimaryImage: primaryImageURL(imagesByProduct[p.ID], baseURL),
		}
	}
	return views
}

func buildDetailView(p *model.Product, lines []model.StockLine, images []model.ProductImage, baseURL string) *dto.ProductDetailView {
	stockViews := make([]dto.StockLineView, len(lines))
	total := 0
	for i, l := range lines {
		stockViews[i] = dto.StockLineView{Size: l.SizeName, Quantity: l.Quantity}
		total += l.Quantity
	}

	imageViews := make([]dto.ImageView, len(images))
	for i, img := range images {
		imageViews[i] = dto.ImageView{
			ID:        img.ID,
			URL:       absoluteURL(baseURL, img.URL),
			IsPrimary: img.IsPrimary,
		}
	}

	return &dto.ProductDetailView{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		BasePrice:       p.BasePrice,
		OnSale:          p.OnSale,
		DiscountPercent: p.DiscountPercent,
		FinalPrice:      p.FinalPrice(),
		Category:        p.CategoryName,
		Gender:          p.GenderName,
		Season:          p.SeasonName,
		Brand:           p.BrandName,
		StockTotal:      total,
		Stock:           stockViews,
		Images:          imageViews,
		CreatedAt:       p.CreatedAt,
	}
}

// primaryImageURL returns the first image flagged primary, or nil when the
// product has none.
func primaryImageURL(images []model.ProductImage, baseURL string) *string {
	for _, img := range images {
		if img.IsPrimary {
			u := absoluteURL(baseURL, img.URL)
			return &u
		}
	}
	return nil
}

func absoluteURL(baseURL, ref string) string {
	if baseURL == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(ref, "/")
}
