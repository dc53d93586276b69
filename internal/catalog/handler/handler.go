package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tiendastreet/catalog-service/internal/catalog"
	"github.com/tiendastreet/catalog-service/internal/catalog/dto"
	"github.com/tiendastreet/catalog-service/internal/catalog/usecase"
	"github.com/tiendastreet/catalog-service/internal/logger"
)

// routes maps URL path segments to reference kinds.
var routes = map[string]catalog.Kind{
	"categories": catalog.KindCategory,
	"genders":    catalog.KindGender,
	"seasons":    catalog.KindSeason,
	"brands":     catalog.KindBrand,
	"sizes":      catalog.KindSize,
}

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	for path, kind := range routes {
		g := rg.Group("/" + path)
		g.GET("", h.list(kind))
		g.POST("", h.create(kind))
		g.GET("/:id", h.get(kind))
		g.PUT("/:id", h.update(kind))
		g.DELETE("/:id", h.delete(kind))
	}
}

type referenceRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	OriginCountry string `json:"origin_country"`
}

func (h *CatalogHandler) list(kind catalog.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		refs, err := h.uc.ListReferences(c.Request.Context(), kind)
		if err != nil {
			h.logger.Error("failed to list references", zap.String("kind", string(kind)), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list " + string(kind)})
			return
		}
		c.JSON(http.StatusOK, refs)
	}
}

func (h *CatalogHandler) create(kind catalog.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req referenceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ref, err := h.uc.CreateReference(c.Request.Context(), kind, &dto.CreateReferenceInput{
			Name:          req.Name,
			Description:   req.Description,
			OriginCountry: req.OriginCountry,
		})
		if err != nil {
			h.logger.Error("failed to create reference", zap.String("kind", string(kind)), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create " + string(kind)})
			return
		}
		c.JSON(http.StatusCreated, ref)
	}
}

func (h *CatalogHandler) get(kind catalog.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, err := h.uc.GetReference(c.Request.Context(), kind, c.Param("id"))
		if err != nil {
			if errors.Is(err, usecase.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": string(kind) + " not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch " + string(kind)})
			return
		}
		c.JSON(http.StatusOK, ref)
	}
}

func (h *CatalogHandler) update(kind catalog.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req referenceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ref, err := h.uc.UpdateReference(c.Request.Context(), kind, &dto.UpdateReferenceInput{
			ID:            c.Param("id"),
			Name:          req.Name,
			Description:   req.Description,
			OriginCountry: req.OriginCountry,
		})
		if err != nil {
			if errors.Is(err, usecase.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": string(kind) + " not found"})
				return
			}
			h.logger.Error("failed to update reference", zap.String("kind", string(kind)), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update " + string(kind)})
			return
		}
		c.JSON(http.StatusOK, ref)
	}
}

func (h *CatalogHandler) delete(kind catalog.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.uc.DeleteReference(c.Request.Context(), kind, c.Param("id")); err != nil {
			h.logger.Error("failed to delete reference", zap.String("kind", string(kind)), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete " + string(kind)})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
