package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products in the storefront navigation.
// Slug is the lookup key; Name is the display form.
type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex"`
	Slug        string    `json:"slug" gorm:"not null;uniqueIndex"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AdminIdentity is the authenticated administrator behind a request.
type AdminIdentity struct {
	AdminID string `json:"adminId"`
	Email   string `json:"email"`
}
