package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tiendastreet/catalog-service/internal/cache"
	"github.com/tiendastreet/catalog-service/internal/catalog"
	"github.com/tiendastreet/catalog-service/internal/logger"
	"github.com/tiendastreet/catalog-service/internal/model"
	"github.com/tiendastreet/catalog-service/internal/product"
	"github.com/tiendastreet/catalog-service/internal/product/dto"
	"github.com/tiendastreet/catalog-service/internal/search"
	"github.com/tiendastreet/catalog-service/internal/stock"
)

const productIndex = "products"

type productUseCase struct {
	repo       product.Repository
	catalog    catalog.Repository
	reconciler *stock.Reconciler
	cache      *cache.RedisClient
	es         *search.Client
	logger     logger.ZapLogger
	baseURL    string
}

func NewProductUseCase(
	repo product.Repository,
	catalogRepo catalog.Repository,
	reconciler *stock.Reconciler,
	cacheClient *cache.RedisClient,
	es *search.Client,
	log logger.ZapLogger,
	baseURL string,
) product.UseCase {
	return &productUseCase{
		repo:       repo,
		catalog:    catalogRepo,
		reconciler: reconciler,
		cache:      cacheClient,
		es:         es,
		logger:     log,
		baseURL:    baseURL,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*dto.ProductDetailView, error) {
	if input.BasePrice < 0 {
		return nil, product.ValidationError("base_price must not be negative")
	}
	if input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		return nil, product.ValidationError("discount_percent must be between 0 and 100")
	}

	unique, err := uc.repo.IsSKUUnique(ctx, input.SKU, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, product.ValidationError("SKU already exists")
	}

	// Validate stock and references before touching storage so a rejected
	// submission leaves nothing behind.
	lines, err := uc.reconciler.Resolve(ctx, input.Sizes, input.Quantities)
	if err != nil {
		return nil, err
	}

	categoryID, err := uc.resolveReference(ctx, catalog.KindCategory, input.CategoryID)
	if err != nil {
		return nil, err
	}
	genderID, err := uc.resolveReference(ctx, catalog.KindGender, input.GenderID)
	if err != nil {
		return nil, err
	}
	seasonID, err := uc.resolveReference(ctx, catalog.KindSeason, input.SeasonID)
	if err != nil {
		return nil, err
	}
	brandID, err := uc.resolveReference(ctx, catalog.KindBrand, input.BrandID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:       model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		SKU:             input.SKU,
		Name:            input.Name,
		Description:     optional(input.Description),
		BasePrice:       input.BasePrice,
		OnSale:          input.OnSale,
		DiscountPercent: input.DiscountPercent,
		CategoryID:      categoryID,
		GenderID:        genderID,
		SeasonID:        seasonID,
		BrandID:         brandID,
	}

	err = uc.repo.InTx(ctx, func(repo product.Repository) error {
		if err := repo.Create(ctx, p); err != nil {
			return err
		}
		if err := repo.ReplaceStockLines(ctx, p.ID, lines); err != nil {
			return err
		}
		if len(input.ImageURLs) > 0 {
			return repo.ReplaceImages(ctx, p.ID, imagesFromURLs(input.ImageURLs))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())

	view, loaded, err := uc.detailView(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	go uc.syncToElastic(context.Background(), loaded)

	return view, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*dto.ProductDetailView, error) {
	view, _, err := uc.detailView(ctx, id)
	return view, err
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]dto.ProductListView, int, error) {
	type cachedList struct {
		Views []dto.ProductListView
		Count int
	}

	cacheKey, keyErr := generateCacheKey(filters)
	if keyErr == nil && uc.cache != nil {
		if val, err := uc.cache.Client.Get(ctx, cacheKey).Result(); err == nil {
			var hit cachedList
			if err := json.Unmarshal([]byte(val), &hit); err == nil {
				return hit.Views, hit.Count, nil
			}
		}
	}

	var (
		products []model.Product
		count    int
		err      error
	)

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err = uc.searchElastic(ctx, filters)
		if err != nil {
			uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
			products, count, err = uc.repo.FindAll(ctx, filters)
		}
	} else {
		products, count, err = uc.repo.FindAll(ctx, filters)
	}
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	imagesByProduct, err := uc.repo.ImagesByProduct(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	views := buildListViews(products, imagesByProduct, uc.baseURL)

	if keyErr == nil && uc.cache != nil {
		if data, err := json.Marshal(cachedList{Views: views, Count: count}); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return views, count, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*dto.ProductDetailView, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}

	if (input.Sizes == nil) != (input.Quantities == nil) {
		return nil, product.ValidationError("sizes and quantities must be provided together")
	}

	if input.SKU != nil && *input.SKU != p.SKU {
		unique, err := uc.repo.IsSKUUnique(ctx, *input.SKU, p.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, product.ValidationError("SKU already exists")
		}
		p.SKU = *input.SKU
	}

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = optional(*input.Description)
	}
	if input.BasePrice != nil {
		if *input.BasePrice < 0 {
			return nil, product.ValidationError("base_price must not be negative")
		}
		p.BasePrice = *input.BasePrice
	}
	if input.OnSale != nil {
		p.OnSale = *input.OnSale
	}
	if input.DiscountPercent != nil {
		if *input.DiscountPercent < 0 || *input.DiscountPercent > 100 {
			return nil, product.ValidationError("discount_percent must be between 0 and 100")
		}
		p.DiscountPercent = *input.DiscountPercent
	}

	if input.CategoryID != nil {
		if p.CategoryID, err = uc.resolveReference(ctx, catalog.KindCategory, *input.CategoryID); err != nil {
			return nil, err
		}
	}
	if input.GenderID != nil {
		if p.GenderID, err = uc.resolveReference(ctx, catalog.KindGender, *input.GenderID); err != nil {
			return nil, err
		}
	}
	if input.SeasonID != nil {
		if p.SeasonID, err = uc.resolveReference(ctx, catalog.KindSeason, *input.SeasonID); err != nil {
			return nil, err
		}
	}
	if input.BrandID != nil {
		if p.BrandID, err = uc.resolveReference(ctx, catalog.KindBrand, *input.BrandID); err != nil {
			return nil, err
		}
	}

	// Validate the stock text before any write so a rejected submission
	// leaves the whole product untouched, scalars included.
	var lines []model.StockLine
	if input.Sizes != nil {
		lines, err = uc.reconciler.Resolve(ctx, *input.Sizes, *input.Quantities)
		if err != nil {
			return nil, err
		}
	}

	p.UpdatedAt = time.Now()
	err = uc.repo.InTx(ctx, func(repo product.Repository) error {
		if err := repo.Update(ctx, p); err != nil {
			return err
		}
		// Text that parses to zero pairs leaves the existing stock set
		// alone; only a non-empty set replaces it.
		if len(lines) > 0 {
			if err := repo.ReplaceStockLines(ctx, p.ID, lines); err != nil {
				return err
			}
		}
		// A non-nil image list replaces every image; first one becomes
		// primary.
		if input.ImageURLs != nil {
			return repo.ReplaceImages(ctx, p.ID, imagesFromURLs(input.ImageURLs))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())

	view, loaded, err := uc.detailView(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	go uc.syncToElastic(context.Background(), loaded)

	return view, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return nil // Already deleted
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	go uc.invalidateProductCache(context.Background())
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), productIndex, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}

	return nil
}

func (uc *productUseCase) DeductStock(ctx context.Context, sku, sizeName string, quantity int) error {
	p, err := uc.repo.FindBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if p == nil {
		return product.ErrNotFound
	}

	size, err := uc.catalog.FindByName(ctx, catalog.KindSize, sizeName, false)
	if err != nil {
		return err
	}
	if size == nil {
		return &stock.UnknownSizeError{Names: []string{sizeName}}
	}

	if err := uc.repo.DeductStock(ctx, p.ID, size.ID, quantity); err != nil {
		return err
	}

	go uc.invalidateProductCache(context.Background())
	return nil
}

// detailView loads the product with its stock lines and images and builds
// the full projection.
func (uc *productUseCase) detailView(ctx context.Context, id string) (*dto.ProductDetailView, *model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, product.ErrNotFound
	}

	linesByProduct, err := uc.repo.StockLinesByProduct(ctx, []string{id})
	if err != nil {
		return nil, nil, err
	}
	imagesByProduct, err := uc.repo.ImagesByProduct(ctx, []string{id})
	if err != nil {
		return nil, nil, err
	}

	return buildDetailView(p, linesByProduct[id], imagesByProduct[id], uc.baseURL), p, nil
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"name^3", "sku", "description", "brand_name"},
			},
		},
		"from": (filters.Page - 1) * filters.PageSize,
	}
	if filters.PageSize > 0 {
		query["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, productIndex, query)
	if err != nil {
		return nil, 0, err
	}

	var products []model.Product
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"name": { "type": "text" },
				"description": { "type": "text" },
				"sku": { "type": "keyword" },
				"brand_name": { "type": "text" },
				"base_price": { "type": "double" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, productIndex, mapping)

	if err := uc.es.Index(ctx, productIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
	}
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "products:list:*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}

// resolveReference validates a reference ID, mapping "" to a cleared (null)
// reference.
func (uc *productUseCase) resolveReference(ctx context.Context, kind catalog.Kind, id string) (*string, error) {
	if id == "" {
		return nil, nil
	}
	ref, err := uc.catalog.FindByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, product.ValidationError(fmt.Sprintf("%s %s not found", kind, id))
	}
	return &ref.ID, nil
}

func imagesFromURLs(urls []string) []model.ProductImage {
	images := make([]model.ProductImage, len(urls))
	for i, u := range urls {
		images[i] = model.ProductImage{
			URL:       u,
			IsPrimary: i == 0, // first uploaded image is the primary
		}
	}
	return images
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
