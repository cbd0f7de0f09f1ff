package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"bookstore-service/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CategoryLister interface {
	List(ctx context.Context) ([]models.Category, error)
}

type ProductLister interface {
	List(ctx context.Context, page, limit int) ([]models.Product, int64, error)
}

// CatalogHandler serves read-only admin views of the catalog
type CatalogHandler struct {
	categories      CategoryLister
	products        ProductLister
	defaultPageSize int
	maxPageSize     int
	logger          *logrus.Entry
}

func NewCatalogHandler(categories CategoryLister, products ProductLister, defaultPageSize, maxPageSize int, logger *logrus.Entry) *CatalogHandler {
	return &CatalogHandler{
		categories:      categories,
		products:        products,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		logger:          logger.WithField("component", "catalog_handler"),
	}
}

// GetCategories returns all categories
// @Summary Get categories
// @Description All categories ordered by name
// @Tags Categories
// @Produce json
// @Success 200 {object} models.CategoryListResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /admin/categories [get]
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list categories")
		respondError(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to retrieve categories")
		return
	}

	c.JSON(http.StatusOK, models.CategoryListResponse{
		Success: true,
		Data:    categories,
	})
}

// GetProducts returns one page of products, newest first
// @Summary Get products
// @Tags Products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} models.ProductListResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /admin/products [get]
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.defaultPageSize)))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > h.maxPageSize {
		limit = h.defaultPageSize
	}
	// keep (page-1)*limit inside int32 so the offset cannot overflow
	if maxPage := math.MaxInt32 / limit; page > maxPage {
		page = maxPage
	}

	products, total, err := h.products.List(c.Request.Context(), page, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		respondError(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to retrieve products")
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	pagination := &models.PaginationInfo{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Success:    true,
		Data:       products,
		Pagination: pagination,
	})
}
