package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bookstore-service/internal/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	CategoryListCacheKey = "bookstore:categories:list"
	CategoryCacheTTL     = 30 * time.Minute // Categories rarely change
)

type CategoryRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewCategoryRepository(db *gorm.DB, redis *redis.Client) *CategoryRepository {
	return &CategoryRepository{
		db:    db,
		redis: redis,
	}
}

// FindMatching returns the oldest category whose slug equals slug or whose
// name equals name or singularName, ignoring case.
func (r *CategoryRepository) FindMatching(ctx context.Context, slug, name, singularName string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("slug = ? OR LOWER(name) = LOWER(?) OR LOWER(name) = LOWER(?)", slug, name, singularName).
		Order("created_at ASC").
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &category, nil
}

// Create inserts a category. A uniqueness conflict is reported as ErrDuplicateCategory.
func (r *CategoryRepository) Create(ctx context.Context, name, slug string, description *string) (*models.Category, error) {
	category := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: description,
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s (%v)", ErrDuplicateCategory, slug, err)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	r.invalidateListCache(ctx)
	return category, nil
}

// List returns every category ordered by name, served from Redis when cached
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	if r.redis != nil {
		val, err := r.redis.Get(ctx, CategoryListCacheKey).Result()
		if err == nil {
			var cached []models.Category
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if r.redis != nil {
		data, err := json.Marshal(categories)
		if err == nil {
			r.redis.Set(ctx, CategoryListCacheKey, data, CategoryCacheTTL)
		}
	}

	return categories, nil
}

func (r *CategoryRepository) invalidateListCache(ctx context.Context) {
	if r.redis == nil {
		return
	}
	_ = r.redis.Del(ctx, CategoryListCacheKey).Err()
}
