package product

import (
	"context"

	"github.com/tiendastreet/catalog-service/internal/model"
	"github.com/tiendastreet/catalog-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id string) error
	IsSKUUnique(ctx context.Context, sku, excludeID string) (bool, error)

	// ReplaceStockLines deletes the product's stock lines and writes the
	// given set in order, all inside one transaction. Duplicate sizes in the
	// input resolve last-write-wins on the (product, size) key.
	ReplaceStockLines(ctx context.Context, productID string, lines []model.StockLine) error
	ReplaceImages(ctx context.Context, productID string, images []model.ProductImage) error
	DeductStock(ctx context.Context, productID, sizeID string, quantity int) error

	// Batch loads keyed by product ID, for projecting many products without
	// a query per product.
	StockLinesByProduct(ctx context.Context, productIDs []string) (map[string][]model.StockLine, error)
	ImagesByProduct(ctx context.Context, productIDs []string) (map[string][]model.ProductImage, error)

	// InTx runs fn against a repository bound to a single transaction and
	// commits only if fn returns nil.
	InTx(ctx context.Context, fn func(Repository) error) error
}
