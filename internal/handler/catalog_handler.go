package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mercadolink/mercado_api/internal/service"
	"github.com/mercadolink/mercado_api/internal/utils"
)

// CatalogHandler serves the public storefront catalog.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GetProducts returns published products with optional filters and pagination.
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	category := c.Query("category")
	search := c.Query("search")
	page, limit := pageParams(c)

	products, total, err := h.catalogService.GetProducts(c.Request.Context(), category, search, page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get products")
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved successfully", gin.H{
		"products": products,
	}, page, limit, total)
}

// GetProduct returns a single published product.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product id")
		return
	}

	product, err := h.catalogService.GetProduct(id)
	if err != nil {
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	utils.Success(c, 200, "Product retrieved successfully", gin.H{"product": product})
}

// pageParams reads page/limit query parameters with defaults.
func pageParams(c *gin.Context) (int, int) {
	page := 1
	limit := 20
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	return page, limit
}
