package transfer

import (
	"context"
	"strconv"
	"strings"

	"github.com/tiendastreet/catalog-service/internal/model"
	"github.com/tiendastreet/catalog-service/internal/product"
	"github.com/tiendastreet/catalog-service/internal/product/dto"
)

// ExportFilename is the fixed attachment name for catalog exports.
const ExportFilename = "products_export.xlsx"

var exportColumns = []string{
	"SKU", "Name", "Description", "BasePrice", "OnSale", "DiscountPercent",
	"CategoryName", "GenderName", "SeasonName", "BrandName",
	"Sizes", "Quantities",
}

type Exporter struct {
	repo product.Repository
}

func NewExporter(repo product.Repository) *Exporter {
	return &Exporter{repo: repo}
}

// Export renders the whole catalog as one xlsx sheet, one row per product.
// Stock lines collapse back into the comma-joined Sizes and Quantities text
// the importer accepts, so an export re-imports cleanly.
func (e *Exporter) Export(ctx context.Context) ([]byte, error) {
	products, _, err := e.repo.FindAll(ctx, &dto.ProductFilters{})
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	linesByProduct, err := e.repo.StockLinesByProduct(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(products))
	for i := range products {
		p := &products[i]
		sizes, quantities := joinStockLines(linesByProduct[p.ID])
		rows[i] = Row{
			"SKU":             p.SKU,
			"Name":            p.Name,
			"Description":     deref(p.Description),
			"BasePrice":       strconv.FormatFloat(p.BasePrice, 'f', -1, 64),
			"OnSale":          yesNo(p.OnSale),
			"DiscountPercent": strconv.Itoa(p.DiscountPercent),
			"CategoryName":    deref(p.CategoryName),
			"GenderName":      deref(p.GenderName),
			"SeasonName":      deref(p.SeasonName),
			"BrandName":       deref(p.BrandName),
			"Sizes":           sizes,
			"Quantities":      quantities,
		}
	}

	return WriteRows(exportColumns, rows)
}

func joinStockLines(lines []model.StockLine) (string, string) {
	sizes := make([]string, len(lines))
	quantities := make([]string, len(lines))
	for i, l := range lines {
		sizes[i] = l.SizeName
		quantities[i] = strconv.Itoa(l.Quantity)
	}
	return strings.Join(sizes, ", "), strings.Join(quantities, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
