package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"bookstore-service/internal/models"
	"github.com/google/uuid"
)

// MemoryCategoryStore keeps categories in process memory. It applies the same
// matching and uniqueness rules as CategoryRepository.
type MemoryCategoryStore struct {
	mu         sync.RWMutex
	categories []models.Category
	now        func() time.Time
}

func NewMemoryCategoryStore() *MemoryCategoryStore {
	return &MemoryCategoryStore{now: time.Now}
}

func (s *MemoryCategoryStore) FindMatching(ctx context.Context, slug, name, singularName string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.Slug == slug || strings.EqualFold(c.Name, name) || strings.EqualFold(c.Name, singularName) {
			found := c
			return &found, nil
		}
	}
	return nil, ErrCategoryNotFound
}

func (s *MemoryCategoryStore) Create(ctx context.Context, name, slug string, description *string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Slug == slug || c.Name == name {
			return nil, ErrDuplicateCategory
		}
	}

	now := s.now()
	category := models.Category{
		ID:          uuid.New(),
		Name:        name,
		Slug:        slug,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.categories = append(s.categories, category)
	return &category, nil
}

func (s *MemoryCategoryStore) List(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// MemoryProductStore keeps products in process memory, in insertion order.
// Handles are unique, as in ProductRepository.
type MemoryProductStore struct {
	mu       sync.RWMutex
	products []models.Product
	now      func() time.Time
}

func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{now: time.Now}
}

func (s *MemoryProductStore) FindMatching(ctx context.Context, handle, title string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Handle == handle || strings.EqualFold(p.Title, title) {
			found := p
			return &found, nil
		}
	}
	return nil, ErrProductNotFound
}

func (s *MemoryProductStore) Create(ctx context.Context, fields *models.ProductFields) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handleTaken(fields.Handle, uuid.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateProduct, fields.Handle)
	}

	now := s.now()
	product := models.Product{ID: uuid.New(), CreatedAt: now}
	fields.Apply(&product)
	product.UpdatedAt = now
	s.products = append(s.products, product)
	return &product, nil
}

func (s *MemoryProductStore) Update(ctx context.Context, id uuid.UUID, fields *models.ProductFields) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			if s.handleTaken(fields.Handle, id) {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateProduct, fields.Handle)
			}
			fields.Apply(&s.products[i])
			s.products[i].UpdatedAt = s.now()
			updated := s.products[i]
			return &updated, nil
		}
	}
	return nil, ErrProductNotFound
}

// handleTaken reports whether a product other than except uses handle.
func (s *MemoryProductStore) handleTaken(handle string, except uuid.UUID) bool {
	for _, p := range s.products {
		if p.Handle == handle && p.ID != except {
			return true
		}
	}
	return false
}

// List pages through products newest first.
func (s *MemoryProductStore) List(ctx context.Context, page, limit int) ([]models.Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.products)
	if page < 1 || limit < 1 || page-1 >= (total+limit-1)/limit {
		return []models.Product{}, int64(total), nil
	}
	out := make([]models.Product, 0, limit)
	start := (page - 1) * limit
	for i := total - 1 - start; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.products[i])
	}
	return out, int64(total), nil
}
