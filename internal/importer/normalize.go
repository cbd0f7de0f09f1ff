package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"bookstore-service/internal/models"
	"github.com/google/uuid"
)

// publishedAtLayouts are tried in order when parsing publishedAt.
var publishedAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
}

// normalizeRow converts the text of a validated row into typed product fields.
func normalizeRow(row *models.ImportRow, categoryID *uuid.UUID, now time.Time) (*models.ProductFields, error) {
	title := strings.TrimSpace(row.Title)

	price, err := parseFloat("price", row.Price)
	if err != nil {
		return nil, err
	}
	originalPrice, err := parseOptionalFloat("originalPrice", row.OriginalPrice)
	if err != nil {
		return nil, err
	}
	stock, err := parseOptionalInt("stock", row.Stock)
	if err != nil {
		return nil, err
	}
	weightGrams, err := parseOptionalInt("weightGrams", row.WeightGrams)
	if err != nil {
		return nil, err
	}
	publishedAt, err := parsePublishedAt(row.PublishedAt, now)
	if err != nil {
		return nil, err
	}

	handle := strings.TrimSpace(row.Handle)
	if handle == "" {
		handle = HandleFromTitle(title)
	}

	variantTitle := strings.TrimSpace(row.VariantTitle)
	if variantTitle == "" {
		variantTitle = models.DefaultVariantTitle
	}

	fields := &models.ProductFields{
		Title:            title,
		Handle:           handle,
		ISBN:             optionalString(firstNonBlank(row.ISBN, row.Barcode)),
		SKU:              optionalString(row.SKU),
		Description:      optionalString(row.Description),
		Price:            price,
		OriginalPrice:    originalPrice,
		Available:        parseBool(row.Available, true),
		MainImageURL:     optionalString(firstNonBlank(row.MainImageURL, row.Image)),
		AllImageURLs:     optionalString(row.AllImageURLs),
		ProductType:      optionalString(row.ProductType),
		CategoryID:       categoryID,
		Tags:             optionalString(row.Tags),
		Vendor:           optionalString(row.Vendor),
		PublishedAt:      publishedAt,
		Weight:           optionalString(row.Weight),
		WeightGrams:      weightGrams,
		RequiresShipping: parseBool(row.RequiresShipping, true),
		URL:              optionalString(row.URL),
		VariantTitle:     variantTitle,
	}
	if stock != nil {
		fields.Stock = *stock
	}
	return fields, nil
}

// parseBool accepts true, 1 and yes in any case. Blank yields def.
func parseBool(value string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return def
	}
	return v == "true" || v == "1" || v == "yes"
}

func parseFloat(field, value string) (float64, error) {
	v := strings.TrimSpace(value)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s: %q is not a number", field, v)
	}
	return f, nil
}

func parseOptionalFloat(field, value string) (*float64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	f, err := parseFloat(field, value)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// parseOptionalInt also accepts whole floats such as "12.0", which spreadsheet
// exports produce for integer cells.
func parseOptionalInt(field, value string) (*int, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return nil, fmt.Errorf("invalid %s: %q is not a whole number", field, v)
	}
	n := int(f)
	return &n, nil
}

func parsePublishedAt(value string, now time.Time) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return now, nil
	}
	for _, layout := range publishedAtLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid publishedAt: %q is not a date", v)
}

func optionalString(value string) *string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	return &v
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
