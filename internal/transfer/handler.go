package transfer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tiendastreet/catalog-service/internal/cache"
	"github.com/tiendastreet/catalog-service/internal/logger"
)

type TransferHandler struct {
	importer *Importer
	exporter *Exporter
	cache    *cache.RedisClient
	logger   logger.ZapLogger
}

func NewTransferHandler(importer *Importer, exporter *Exporter, cacheClient *cache.RedisClient, log logger.ZapLogger) *TransferHandler {
	return &TransferHandler{
		importer: importer,
		exporter: exporter,
		cache:    cacheClient,
		logger:   log,
	}
}

func (h *TransferHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/products")
	g.GET("/export", h.Export)
	g.POST("/import", h.Import)
}

func (h *TransferHandler) Export(c *gin.Context) {
	data, err := h.exporter.Export(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to export products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export products"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", ExportFilename))
	c.Data(http.StatusOK, ExcelContentType, data)
}

func (h *TransferHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("excel_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "excel_file is required"})
		return
	}
	defer file.Close()

	result, err := h.importer.Import(c.Request.Context(), file)
	if err != nil {
		var codecErr *CodecError
		var missingErr *MissingColumnsError
		if errors.As(err, &codecErr) || errors.As(err, &missingErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed to import products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to import products"})
		return
	}

	// Validation failures rolled everything back; the row errors are the
	// caller's to fix.
	if len(result.Errors) > 0 {
		c.JSON(http.StatusBadRequest, result)
		return
	}

	go h.invalidateProductCache(context.Background())
	c.JSON(http.StatusOK, result)
}

func (h *TransferHandler) invalidateProductCache(ctx context.Context) {
	if h.cache == nil {
		return
	}
	keys, err := h.cache.Client.Keys(ctx, "products:list:*").Result()
	if err == nil && len(keys) > 0 {
		h.cache.Client.Del(ctx, keys...)
	}
}
