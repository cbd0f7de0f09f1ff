package repository

import (
	"context"
	"errors"
	"fmt"

	"bookstore-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// productWriteColumns lists every column an import overwrites. Selecting them
// explicitly makes gorm write zero values and NULLs instead of skipping them.
var productWriteColumns = []string{
	"title", "handle", "isbn", "sku", "description", "price", "original_price",
	"available", "stock", "main_image_url", "all_image_urls", "product_type",
	"category_id", "tags", "vendor", "published_at", "weight", "weight_grams",
	"requires_shipping", "url", "variant_title", "updated_at",
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindMatching returns the first product whose handle equals handle or whose
// title equals title, ignoring case.
func (r *ProductRepository) FindMatching(ctx context.Context, handle, title string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("handle = ? OR LOWER(title) = LOWER(?)", handle, title).
		Order("created_at ASC").
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// Create inserts a product. A handle conflict is reported as ErrDuplicateProduct.
func (r *ProductRepository) Create(ctx context.Context, fields *models.ProductFields) (*models.Product, error) {
	product := &models.Product{}
	fields.Apply(product)
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s (%v)", ErrDuplicateProduct, fields.Handle, err)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Update overwrites every mutable column of product id; id and created_at are kept.
func (r *ProductRepository) Update(ctx context.Context, id uuid.UUID, fields *models.ProductFields) (*models.Product, error) {
	db := r.db.WithContext(ctx)

	var product models.Product
	if err := db.Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	fields.Apply(&product)
	if err := db.Model(&product).Select(productWriteColumns).Updates(&product).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s (%v)", ErrDuplicateProduct, fields.Handle, err)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &product, nil
}

// List returns one page of products, newest first, with the total row count
func (r *ProductRepository) List(ctx context.Context, page, limit int) ([]models.Product, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Product{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}
