// Package importer reconciles spreadsheet rows against the category and
// product stores. Rows are processed in order; a failed row is recorded in
// the result and never aborts the batch.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookstore-service/internal/models"
	"bookstore-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrUnauthorized is returned by Import when the caller is not an administrator.
var ErrUnauthorized = errors.New("unauthorized")

const missingFieldsMessage = "Missing required fields (title or price)"

// CategoryStore looks up and creates categories.
// FindMatching returns repository.ErrCategoryNotFound when nothing matches.
type CategoryStore interface {
	FindMatching(ctx context.Context, slug, name, singularName string) (*models.Category, error)
	Create(ctx context.Context, name, slug string, description *string) (*models.Category, error)
}

// ProductStore looks up, creates and updates products.
// FindMatching returns repository.ErrProductNotFound when nothing matches.
type ProductStore interface {
	FindMatching(ctx context.Context, handle, title string) (*models.Product, error)
	Create(ctx context.Context, fields *models.ProductFields) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, fields *models.ProductFields) (*models.Product, error)
}

// Authorizer resolves the administrator behind ctx.
type Authorizer interface {
	RequireAdmin(ctx context.Context) (*models.AdminIdentity, error)
}

type Engine struct {
	categories CategoryStore
	products   ProductStore
	auth       Authorizer
	logger     *logrus.Entry
	now        func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now as the source of the import timestamp.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(categories CategoryStore, products ProductStore, auth Authorizer, logger *logrus.Entry, opts ...Option) *Engine {
	e := &Engine{
		categories: categories,
		products:   products,
		auth:       auth,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// rowOutcome describes what a successful row wrote.
type rowOutcome struct {
	updated         bool
	categoryCreated bool
}

// Import checks the caller once, then processes rows strictly in order.
// The only error it returns wraps ErrUnauthorized; row failures are data.
func (e *Engine) Import(ctx context.Context, rows []models.ImportRow) (*models.ImportResult, error) {
	admin, err := e.auth.RequireAdmin(ctx)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if admin == nil {
		return nil, ErrUnauthorized
	}

	now := e.now()
	log := e.logger.WithFields(logrus.Fields{
		"admin_id": admin.AdminID,
		"rows":     len(rows),
	})

	result := &models.ImportResult{
		TotalRows: len(rows),
		Errors:    []string{},
	}

	for i := range rows {
		rowNum := i + 1
		row := &rows[i]

		if strings.TrimSpace(row.Title) == "" || strings.TrimSpace(row.Price) == "" {
			e.fail(log, result, rowNum, missingFieldsMessage)
			continue
		}

		outcome, err := e.processRow(ctx, row, now)
		if err != nil {
			e.fail(log, result, rowNum, err.Error())
			continue
		}

		result.SuccessCount++
		if outcome.updated {
			result.UpdatedCount++
		} else {
			result.CreatedCount++
		}
		if outcome.categoryCreated {
			result.CategoriesCreated++
		}
	}

	log.WithFields(logrus.Fields{
		"success": result.SuccessCount,
		"failed":  result.FailedCount,
		"created": result.CreatedCount,
		"updated": result.UpdatedCount,
	}).Info("Import completed")

	return result, nil
}

func (e *Engine) fail(log *logrus.Entry, result *models.ImportResult, rowNum int, reason string) {
	result.FailedCount++
	result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", rowNum, reason))
	log.WithField("row", rowNum).Warn(reason)
}

func (e *Engine) processRow(ctx context.Context, row *models.ImportRow, now time.Time) (rowOutcome, error) {
	var outcome rowOutcome

	categoryID, created, err := e.resolveCategory(ctx, row)
	if err != nil {
		return outcome, err
	}
	outcome.categoryCreated = created

	fields, err := normalizeRow(row, categoryID, now)
	if err != nil {
		return outcome, err
	}

	existing, err := e.products.FindMatching(ctx, fields.Handle, fields.Title)
	switch {
	case err == nil:
		if _, err := e.products.Update(ctx, existing.ID, fields); err != nil {
			return outcome, err
		}
		outcome.updated = true
	case errors.Is(err, repository.ErrProductNotFound):
		if _, err := e.products.Create(ctx, fields); err != nil {
			return outcome, err
		}
	default:
		return outcome, err
	}

	return outcome, nil
}

// resolveCategory returns the id of the row's category, creating it when no
// existing category matches. A row without productType or categoryName has no
// category.
func (e *Engine) resolveCategory(ctx context.Context, row *models.ImportRow) (*uuid.UUID, bool, error) {
	name := strings.TrimSpace(firstNonBlank(row.ProductType, row.CategoryName))
	if name == "" {
		return nil, false, nil
	}

	singular := Singularize(name)
	slug := Slugify(singular)
	if slug == "" {
		return nil, false, fmt.Errorf("invalid category name %q", name)
	}

	category, err := e.categories.FindMatching(ctx, slug, name, singular)
	if err == nil {
		return &category.ID, false, nil
	}
	if !errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, false, err
	}

	category, createErr := e.categories.Create(ctx, capitalize(singular), slug, optionalString(row.CategoryDescription))
	if createErr != nil {
		// Another import may have created it first.
		category, err = e.categories.FindMatching(ctx, slug, name, singular)
		if err != nil {
			return nil, false, createErr
		}
		return &category.ID, false, nil
	}

	e.logger.WithFields(logrus.Fields{
		"category_id": category.ID,
		"name":        category.Name,
		"slug":        category.Slug,
	}).Info("Category created")
	return &category.ID, true, nil
}
