package models

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
	ImportFormatJSON ImportFormat = "json"
)

// ImportRow is one spreadsheet record. Values are kept as text;
// a blank value means the column was absent.
type ImportRow struct {
	Title               string `json:"title"`
	Price               string `json:"price"`
	ISBN                string `json:"isbn"`
	Barcode             string `json:"barcode"`
	SKU                 string `json:"sku"`
	OriginalPrice       string `json:"originalPrice"`
	Available           string `json:"available"`
	Stock               string `json:"stock"`
	MainImageURL        string `json:"mainImageUrl"`
	Image               string `json:"image"`
	AllImageURLs        string `json:"allImageUrls"`
	ProductType         string `json:"productType"`
	CategoryName        string `json:"categoryName"`
	CategoryDescription string `json:"categoryDescription"`
	Tags                string `json:"tags"`
	Vendor              string `json:"vendor"`
	PublishedAt         string `json:"publishedAt"`
	Weight              string `json:"weight"`
	WeightGrams         string `json:"weightGrams"`
	RequiresShipping    string `json:"requiresShipping"`
	URL                 string `json:"url"`
	Handle              string `json:"handle"`
	VariantTitle        string `json:"variantTitle"`
	Description         string `json:"description"`
}

// ImportResult summarizes one import call. It is never persisted.
type ImportResult struct {
	TotalRows         int      `json:"totalRows"`
	SuccessCount      int      `json:"successCount"`
	FailedCount       int      `json:"failedCount"`
	CreatedCount      int      `json:"createdCount"`
	UpdatedCount      int      `json:"updatedCount"`
	CategoriesCreated int      `json:"categoriesCreated"`
	Errors            []string `json:"errors"`
}

// ImportResponse is the body returned by the import endpoint.
type ImportResponse struct {
	Message string        `json:"message"`
	Results *ImportResult `json:"results"`
}

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // string, number, boolean, date
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity     string                 `json:"entity"`
	Version    string                 `json:"version"`
	Columns    []ImportTemplateColumn `json:"columns"`
	SampleData []map[string]string    `json:"sampleData,omitempty"`
}

// ProductImportTemplate returns the column layout accepted by the importer.
func ProductImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "products",
		Version: "2.0",
		Columns: []ImportTemplateColumn{
			{Name: "title", Description: "Product title", Required: true, Type: "string", Example: "The Great Gatsby"},
			{Name: "price", Description: "Selling price", Required: true, Type: "number", Example: "12.99"},
			{Name: "handle", Description: "Unique URL handle, derived from title when blank", Type: "string", Example: "the-great-gatsby"},
			{Name: "isbn", Description: "ISBN of the book", Type: "string", Example: "9780743273565"},
			{Name: "barcode", Description: "Used as ISBN when isbn is blank", Type: "string", Example: "9780743273565"},
			{Name: "sku", Description: "Stock keeping unit", Type: "string", Example: "BK-GATSBY-PB"},
			{Name: "description", Description: "Long description", Type: "string", Example: "A novel of the Jazz Age"},
			{Name: "originalPrice", Description: "Price before discount", Type: "number", Example: "15.99"},
			{Name: "available", Description: "true/1/yes to list the product (default true)", Type: "boolean", Example: "yes"},
			{Name: "stock", Description: "Units on hand (default 0)", Type: "number", Example: "25"},
			{Name: "mainImageUrl", Description: "Primary image URL", Type: "string", Example: "https://cdn.example.com/gatsby.jpg"},
			{Name: "image", Description: "Used as mainImageUrl when mainImageUrl is blank", Type: "string", Example: "https://cdn.example.com/gatsby.jpg"},
			{Name: "allImageUrls", Description: "Pipe separated image URLs", Type: "string", Example: "https://cdn.example.com/a.jpg|https://cdn.example.com/b.jpg"},
			{Name: "productType", Description: "Category name, preferred over categoryName; must contain a letter or digit", Type: "string", Example: "Books"},
			{Name: "categoryName", Description: "Category name, auto-created when missing", Type: "string", Example: "Books"},
			{Name: "categoryDescription", Description: "Description for an auto-created category", Type: "string", Example: "Printed books"},
			{Name: "tags", Description: "Comma separated tags", Type: "string", Example: "classic,fiction"},
			{Name: "vendor", Description: "Publisher or brand", Type: "string", Example: "Scribner"},
			{Name: "publishedAt", Description: "Publish date (default import time)", Type: "date", Example: "2024-01-15"},
			{Name: "weight", Description: "Display weight", Type: "string", Example: "300 g"},
			{Name: "weightGrams", Description: "Weight in grams", Type: "number", Example: "300"},
			{Name: "requiresShipping", Description: "true/1/yes when the item ships (default true)", Type: "boolean", Example: "true"},
			{Name: "url", Description: "External product page", Type: "string", Example: "https://example.com/gatsby"},
			{Name: "variantTitle", Description: "Variant label (default \"Default Title\")", Type: "string", Example: "Paperback"},
		},
	}
}
