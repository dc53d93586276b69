package product

import (
	"context"
	"errors"

	"github.com/tiendastreet/catalog-service/internal/product/dto"
)

var ErrNotFound = errors.New("product not found")

// ValidationError marks a rejected write that the caller can fix.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*dto.ProductDetailView, error)
	GetProduct(ctx context.Context, id string) (*dto.ProductDetailView, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]dto.ProductListView, int, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*dto.ProductDetailView, error)
	DeleteProduct(ctx context.Context, id string) error

	// DeductStock decrements one size's quantity for the product with the
	// given SKU, refusing to go below zero.
	DeductStock(ctx context.Context, sku, sizeName string, quantity int) error
}
