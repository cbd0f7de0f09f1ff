package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultVariantTitle is stored when a row carries no variant title.
const DefaultVariantTitle = "Default Title"

// Product represents a sellable catalog item
type Product struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title            string     `json:"title" gorm:"not null"`
	Handle           string     `json:"handle" gorm:"not null;uniqueIndex"`
	ISBN             *string    `json:"isbn,omitempty" gorm:"column:isbn"`
	SKU              *string    `json:"sku,omitempty" gorm:"column:sku"`
	Description      *string    `json:"description,omitempty"`
	Price            float64    `json:"price" gorm:"not null"`
	OriginalPrice    *float64   `json:"originalPrice,omitempty"`
	Available        bool       `json:"available" gorm:"not null"`
	Stock            int        `json:"stock" gorm:"not null"`
	MainImageURL     *string    `json:"mainImageUrl,omitempty" gorm:"column:main_image_url"`
	AllImageURLs     *string    `json:"allImageUrls,omitempty" gorm:"column:all_image_urls"`
	ProductType      *string    `json:"productType,omitempty"`
	CategoryID       *uuid.UUID `json:"categoryId,omitempty" gorm:"type:uuid;index"`
	Tags             *string    `json:"tags,omitempty"`
	Vendor           *string    `json:"vendor,omitempty"`
	PublishedAt      time.Time  `json:"publishedAt"`
	Weight           *string    `json:"weight,omitempty"`
	WeightGrams      *int       `json:"weightGrams,omitempty"`
	RequiresShipping bool       `json:"requiresShipping" gorm:"not null"`
	URL              *string    `json:"url,omitempty" gorm:"column:url"`
	VariantTitle     string     `json:"variantTitle" gorm:"not null"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// ProductFields is the normalized write set produced for one import row.
// Every field is written on create and on update.
type ProductFields struct {
	Title            string
	Handle           string
	ISBN             *string
	SKU              *string
	Description      *string
	Price            float64
	OriginalPrice    *float64
	Available        bool
	Stock            int
	MainImageURL     *string
	AllImageURLs     *string
	ProductType      *string
	CategoryID       *uuid.UUID
	Tags             *string
	Vendor           *string
	PublishedAt      time.Time
	Weight           *string
	WeightGrams      *int
	RequiresShipping bool
	URL              *string
	VariantTitle     string
}

// Apply copies the write set onto p, leaving ID and CreatedAt untouched.
func (f *ProductFields) Apply(p *Product) {
	p.Title = f.Title
	p.Handle = f.Handle
	p.ISBN = f.ISBN
	p.SKU = f.SKU
	p.Description = f.Description
	p.Price = f.Price
	p.OriginalPrice = f.OriginalPrice
	p.Available = f.Available
	p.Stock = f.Stock
	p.MainImageURL = f.MainImageURL
	p.AllImageURLs = f.AllImageURLs
	p.ProductType = f.ProductType
	p.CategoryID = f.CategoryID
	p.Tags = f.Tags
	p.Vendor = f.Vendor
	p.PublishedAt = f.PublishedAt
	p.Weight = f.Weight
	p.WeightGrams = f.WeightGrams
	p.RequiresShipping = f.RequiresShipping
	p.URL = f.URL
	p.VariantTitle = f.VariantTitle
}

// Response models

type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

type ProductListResponse struct {
	Success    bool            `json:"success"`
	Data       []Product       `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

type CategoryListResponse struct {
	Success bool       `json:"success"`
	Data    []Category `json:"data"`
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
