package handler

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/mercadolink/mercado_api/internal/models"
	"github.com/mercadolink/mercado_api/internal/repository"
	"github.com/mercadolink/mercado_api/internal/utils"
)

// ProductManagementHandler exposes back-office product CRUD.
type ProductManagementHandler struct {
	productRepo *repository.ProductRepository
}

// NewProductManagementHandler constructs a ProductManagementHandler.
func NewProductManagementHandler(productRepo *repository.ProductRepository) *ProductManagementHandler {
	return &ProductManagementHandler{productRepo: productRepo}
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"imageUrl"`
	Published   bool   `json:"isPublished"`
}

func (r productRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Category, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Price, validation.Required, validation.Min(1)),
	)
}

// ListProducts returns all products for the back office, drafts included.
func (h *ProductManagementHandler) ListProducts(c *gin.Context) {
	category := c.Query("category")
	search := c.Query("search")
	page, limit := pageParams(c)

	products, total, err := h.productRepo.ListPaged(category, search, page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list products")
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved successfully", gin.H{
		"products": products,
	}, page, limit, total)
}

// GetProduct returns one product by id.
func (h *ProductManagementHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product id")
		return
	}

	product, err := h.productRepo.GetByID(id)
	if err != nil {
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}
	utils.Success(c, 200, "Product retrieved successfully", gin.H{"product": product})
}

// CreateProduct inserts a new product.
func (h *ProductManagementHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Published:   req.Published,
	}
	if err := h.productRepo.Create(product); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create product")
		return
	}
	utils.Success(c, 201, "Product created successfully", gin.H{"product": product})
}

// UpdateProduct modifies an existing product.
func (h *ProductManagementHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product id")
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}

	product := &models.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Published:   req.Published,
	}
	if err := h.productRepo.Update(product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update product")
		return
	}
	utils.Success(c, 200, "Product updated successfully", gin.H{"product": product})
}

// DeleteProduct removes a product. Superadmin only (enforced by routes).
func (h *ProductManagementHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product id")
		return
	}

	if err := h.productRepo.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete product")
		return
	}
	utils.Success(c, 200, "Product deleted successfully", nil)
}
