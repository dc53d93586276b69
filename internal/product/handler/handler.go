package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tiendastreet/catalog-service/internal/logger"
	"github.com/tiendastreet/catalog-service/internal/product"
	"github.com/tiendastreet/catalog-service/internal/product/dto"
	"github.com/tiendastreet/catalog-service/internal/stock"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/products")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

type createProductRequest struct {
	SKU             string   `json:"sku" binding:"required"`
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description"`
	BasePrice       float64  `json:"base_price" binding:"gte=0"`
	OnSale          bool     `json:"on_sale"`
	DiscountPercent int      `json:"discount_percent" binding:"gte=0,lte=100"`
	CategoryID      string   `json:"category_id"`
	GenderID        string   `json:"gender_id"`
	SeasonID        string   `json:"season_id"`
	BrandID         string   `json:"brand_id"`
	Sizes           string   `json:"sizes" binding:"required"`
	Quantities      string   `json:"quantities" binding:"required"`
	Images          []string `json:"images"`
}

type updateProductRequest struct {
	SKU             *string  `json:"sku"`
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	BasePrice       *float64 `json:"base_price"`
	OnSale          *bool    `json:"on_sale"`
	DiscountPercent *int     `json:"discount_percent"`
	CategoryID      *string  `json:"category_id"`
	GenderID        *string  `json:"gender_id"`
	SeasonID        *string  `json:"season_id"`
	BrandID         *string  `json:"brand_id"`
	Sizes           *string  `json:"sizes"`
	Quantities      *string  `json:"quantities"`
	Images          []string `json:"images"`
}

func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}

	filters := &dto.ProductFilters{
		SearchQuery: c.Query("search"),
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
		Page:        page,
		PageSize:    pageSize,
	}

	views, count, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":  views,
		"total":     count,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *ProductHandler) Get(c *gin.Context) {
	view, err := h.uc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.uc.CreateProduct(c.Request.Context(), &dto.CreateProductInput{
		SKU:             req.SKU,
		Name:            req.Name,
		Description:     req.Description,
		BasePrice:       req.BasePrice,
		OnSale:          req.OnSale,
		DiscountPercent: req.DiscountPercent,
		CategoryID:      req.CategoryID,
		GenderID:        req.GenderID,
		SeasonID:        req.SeasonID,
		BrandID:         req.BrandID,
		Sizes:           req.Sizes,
		Quantities:      req.Quantities,
		ImageURLs:       req.Images,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.uc.UpdateProduct(c.Request.Context(), &dto.UpdateProductInput{
		ID:              c.Param("id"),
		SKU:             req.SKU,
		Name:            req.Name,
		Description:     req.Description,
		BasePrice:       req.BasePrice,
		OnSale:          req.OnSale,
		DiscountPercent: req.DiscountPercent,
		CategoryID:      req.CategoryID,
		GenderID:        req.GenderID,
		SeasonID:        req.SeasonID,
		BrandID:         req.BrandID,
		Sizes:           req.Sizes,
		Quantities:      req.Quantities,
		ImageURLs:       req.Images,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("failed to delete product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}
	c.Status(http.StatusNoContent)
}

// respondError maps domain errors to status codes: validation failures are
// the client's to fix, everything else is ours.
func (h *ProductHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, product.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	var shapeErr *stock.ShapeMismatchError
	var qtyErr *stock.InvalidQuantityError
	var sizeErr *stock.UnknownSizeError
	var validationErr product.ValidationError
	if errors.As(err, &shapeErr) || errors.As(err, &qtyErr) ||
		errors.As(err, &sizeErr) || errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Error("product operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
