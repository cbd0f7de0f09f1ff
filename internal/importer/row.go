package importer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"bookstore-service/internal/models"
)

// rowSetters maps lower-cased column names to their ImportRow field.
var rowSetters = map[string]func(*models.ImportRow, string){
	"title":               func(r *models.ImportRow, v string) { r.Title = v },
	"price":               func(r *models.ImportRow, v string) { r.Price = v },
	"isbn":                func(r *models.ImportRow, v string) { r.ISBN = v },
	"barcode":             func(r *models.ImportRow, v string) { r.Barcode = v },
	"sku":                 func(r *models.ImportRow, v string) { r.SKU = v },
	"originalprice":       func(r *models.ImportRow, v string) { r.OriginalPrice = v },
	"available":           func(r *models.ImportRow, v string) { r.Available = v },
	"stock":               func(r *models.ImportRow, v string) { r.Stock = v },
	"mainimageurl":        func(r *models.ImportRow, v string) { r.MainImageURL = v },
	"image":               func(r *models.ImportRow, v string) { r.Image = v },
	"allimageurls":        func(r *models.ImportRow, v string) { r.AllImageURLs = v },
	"producttype":         func(r *models.ImportRow, v string) { r.ProductType = v },
	"categoryname":        func(r *models.ImportRow, v string) { r.CategoryName = v },
	"categorydescription": func(r *models.ImportRow, v string) { r.CategoryDescription = v },
	"tags":                func(r *models.ImportRow, v string) { r.Tags = v },
	"vendor":              func(r *models.ImportRow, v string) { r.Vendor = v },
	"publishedat":         func(r *models.ImportRow, v string) { r.PublishedAt = v },
	"weight":              func(r *models.ImportRow, v string) { r.Weight = v },
	"weightgrams":         func(r *models.ImportRow, v string) { r.WeightGrams = v },
	"requiresshipping":    func(r *models.ImportRow, v string) { r.RequiresShipping = v },
	"url":                 func(r *models.ImportRow, v string) { r.URL = v },
	"handle":              func(r *models.ImportRow, v string) { r.Handle = v },
	"varianttitle":        func(r *models.ImportRow, v string) { r.VariantTitle = v },
	"description":         func(r *models.ImportRow, v string) { r.Description = v },
}

// isKnownColumn reports whether a normalized header names an ImportRow field.
func isKnownColumn(name string) bool {
	_, ok := rowSetters[name]
	return ok
}

// RowFromMap converts a loosely typed record (decoded JSON, a parsed sheet row)
// into an ImportRow. Keys match case-insensitively; unknown keys are ignored.
func RowFromMap(values map[string]any) models.ImportRow {
	var row models.ImportRow
	for key, value := range values {
		set, ok := rowSetters[normalizeHeader(key)]
		if !ok {
			continue
		}
		set(&row, stringify(value))
	}
	return row
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// normalizeHeader lower-cases and trims a column name and drops the " *"
// required marker written by the XLSX template.
func normalizeHeader(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return strings.TrimSpace(strings.TrimSuffix(name, "*"))
}
