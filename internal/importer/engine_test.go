package importer

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"bookstore-service/internal/models"
	"bookstore-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// staticAuthorizer returns a fixed identity or error
type staticAuthorizer struct {
	admin *models.AdminIdentity
	err   error
}

func (a staticAuthorizer) RequireAdmin(ctx context.Context) (*models.AdminIdentity, error) {
	return a.admin, a.err
}

var testAdmin = staticAuthorizer{admin: &models.AdminIdentity{AdminID: "admin-1", Email: "admin@example.com"}}

// MockCategoryStore is a mock implementation of CategoryStore
type MockCategoryStore struct {
	mock.Mock
}

func (m *MockCategoryStore) FindMatching(ctx context.Context, slug, name, singularName string) (*models.Category, error) {
	args := m.Called(ctx, slug, name, singularName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryStore) Create(ctx context.Context, name, slug string, description *string) (*models.Category, error) {
	args := m.Called(ctx, name, slug, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

// MockProductStore is a mock implementation of ProductStore
type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) FindMatching(ctx context.Context, handle, title string) (*models.Product, error) {
	args := m.Called(ctx, handle, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductStore) Create(ctx context.Context, fields *models.ProductFields) (*models.Product, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductStore) Update(ctx context.Context, id uuid.UUID, fields *models.ProductFields) (*models.Product, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func newMemoryEngine() (*Engine, *repository.MemoryCategoryStore, *repository.MemoryProductStore) {
	categories := repository.NewMemoryCategoryStore()
	products := repository.NewMemoryProductStore()
	engine := NewEngine(categories, products, testAdmin, testLogger(), WithClock(func() time.Time { return fixedNow }))
	return engine, categories, products
}

func listAll(t *testing.T, categories *repository.MemoryCategoryStore, products *repository.MemoryProductStore) ([]models.Category, []models.Product) {
	t.Helper()
	cats, err := categories.List(context.Background())
	require.NoError(t, err)
	prods, _, err := products.List(context.Background(), 1, 1000)
	require.NoError(t, err)
	return cats, prods
}

func TestImport_Unauthorized(t *testing.T) {
	categories := new(MockCategoryStore)
	products := new(MockProductStore)
	engine := NewEngine(categories, products, staticAuthorizer{err: errors.New("no admin token")}, testLogger())

	result, err := engine.Import(context.Background(), []models.ImportRow{{Title: "A", Price: "1", CategoryName: "Books"}})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnauthorized)
	categories.AssertNotCalled(t, "FindMatching", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	products.AssertNotCalled(t, "FindMatching", mock.Anything, mock.Anything, mock.Anything)
}

func TestImport_NilIdentityIsUnauthorized(t *testing.T) {
	engine := NewEngine(new(MockCategoryStore), new(MockProductStore), staticAuthorizer{}, testLogger())

	result, err := engine.Import(context.Background(), []models.ImportRow{{Title: "A", Price: "1"}})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestImport_MissingRequiredFields(t *testing.T) {
	categories := new(MockCategoryStore)
	products := new(MockProductStore)
	engine := NewEngine(categories, products, testAdmin, testLogger())

	rows := []models.ImportRow{
		{Price: "10", CategoryName: "Books"},
		{Title: "No Price", CategoryName: "Books"},
		{Title: "   ", Price: "  "},
	}
	result, err := engine.Import(context.Background(), rows)

	require.NoError(t, err)
	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 3, result.FailedCount)
	assert.Equal(t, []string{
		"Row 1: Missing required fields (title or price)",
		"Row 2: Missing required fields (title or price)",
		"Row 3: Missing required fields (title or price)",
	}, result.Errors)
	categories.AssertExpectations(t)
	products.AssertExpectations(t)
}

func TestImport_NoCategory(t *testing.T) {
	engine, categories, products := newMemoryEngine()

	result, err := engine.Import(context.Background(), []models.ImportRow{{Title: "Plain Notebook", Price: "3.50"}})

	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	cats, prods := listAll(t, categories, products)
	assert.Empty(t, cats)
	require.Len(t, prods, 1)
	assert.Nil(t, prods[0].CategoryID)
}

func TestImport_Idempotent(t *testing.T) {
	engine, categories, products := newMemoryEngine()
	rows := []models.ImportRow{{Title: "Sample Book", Price: "10", CategoryName: "Books"}}

	first, err := engine.Import(context.Background(), rows)
	require.NoError(t, err)
	second, err := engine.Import(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 1, first.CreatedCount)
	assert.Equal(t, 1, first.CategoriesCreated)
	assert.Equal(t, 1, second.UpdatedCount)
	assert.Equal(t, 0, second.CategoriesCreated)

	cats, prods := listAll(t, categories, products)
	require.Len(t, cats, 1)
	assert.Equal(t, "Book", cats[0].Name)
	assert.Equal(t, "book", cats[0].Slug)
	require.Len(t, prods, 1)
	assert.Equal(t, "Sample Book", prods[0].Title)
	assert.Equal(t, cats[0].ID, *prods[0].CategoryID)
}

func TestImport_PluralAndSingularShareCategory(t *testing.T) {
	engine, categories, products := newMemoryEngine()

	rows := []models.ImportRow{
		{Title: "A", Price: "5", CategoryName: "Bags"},
		{Title: "B", Price: "7", CategoryName: "Bag"},
		{Title: "C", Price: "9", CategoryName: "BAGS"},
	}
	result, err := engine.Import(context.Background(), rows)

	require.NoError(t, err)
	assert.Equal(t, 3, result.SuccessCount)
	assert.Equal(t, 3, result.CreatedCount)
	assert.Equal(t, 1, result.CategoriesCreated)

	cats, prods := listAll(t, categories, products)
	require.Len(t, cats, 1)
	assert.Equal(t, "Bag", cats[0].Name)
	require.Len(t, prods, 3)
	for _, p := range prods {
		require.NotNil(t, p.CategoryID)
		assert.Equal(t, cats[0].ID, *p.CategoryID)
	}
}

func TestImport_SymbolsSeparateSlugWords(t *testing.T) {
	engine, categories, products := newMemoryEngine()

	rows := []models.ImportRow{
		{Title: "Glitter Pack", Price: "4", CategoryName: "Arts & Crafts"},
		{Title: "Easel", Price: "40", CategoryName: "Arts and Crafts"},
	}
	result, err := engine.Import(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 2, result.CategoriesCreated)

	cats, _ := listAll(t, categories, products)
	require.Len(t, cats, 2)
	slugs := []string{cats[0].Slug, cats[1].Slug}
	assert.ElementsMatch(t, []string{"arts-craft", "arts-and-craft"}, slugs)
}

func TestImport_SingularizationExceptions(t *testing.T) {
	engine, categories, products := newMemoryEngine()

	rows := []models.ImportRow{
		{Title: "Wine Glass", Price: "5", CategoryName: "Glass"},
		{Title: "Germ Plush", Price: "7", CategoryName: "Virus"},
		{Title: "Board Game", Price: "20", CategoryName: "Hobbies"},
	}
	result, err := engine.Import(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 3, result.CategoriesCreated)

	cats, _ := listAll(t, categories, products)
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Glass", "Virus", "Hobby"}, names)
}

func TestImport_ProductTypePreferredOverCategoryName(t *testing.T) {
	engine, categories, products := newMemoryEngine()

	_, err := engine.Import(context.Background(), []models.ImportRow{
		{Title: "Gel Pen", Price: "2", ProductType: "pens", CategoryName: "Stationery", CategoryDescription: "Writing tools"},
	})
	require.NoError(t, err)

	cats, prods := listAll(t, categories, products)
	require.Len(t, cats, 1)
	assert.Equal(t, "Pen", cats[0].Name)
	require.NotNil(t, cats[0].Description)
	assert.Equal(t, "Writing tools", *cats[0].Description)
	require.NotNil(t, prods[0].ProductType)
	assert.Equal(t, "pens", *prods[0].ProductType)
}

func TestImport_Normalization(t *testing.T) {
	engine, categories, products := newMemoryEngine()

	rows := []models.ImportRow{
		{
			Title:         "  The Great Gatsby ",
			Price:         "12.99",
			Barcode:       " 9780743273565 ",
			Image:         "https://cdn.example.com/gatsby.jpg",
			OriginalPrice: "15",
			Stock:         "4",
			WeightGrams:   "300.0",
			Available:     "Yes",
			PublishedAt:   "2023-05-01",
			Tags:          " classic,fiction ",
		},
		{Title: "Blank Journal", Price: "4", Available: "1", RequiresShipping: "no"},
		{Title: "Gift Card", Price: "25", Available: "no", VariantTitle: " Digital "},
	}
	result, err := engine.Import(context.Background(), rows)
	require.NoError(t, err)
	require.Equal(t, 3, result.SuccessCount)

	_, prods := listAll(t, categories, products)
	byTitle := map[string]models.Product{}
	for _, p := range prods {
		byTitle[p.Title] = p
	}

	gatsby := byTitle["The Great Gatsby"]
	assert.Equal(t, "the-great-gatsby", gatsby.Handle)
	assert.Equal(t, 12.99, gatsby.Price)
	require.NotNil(t, gatsby.ISBN)
	assert.Equal(t, "9780743273565", *gatsby.ISBN)
	require.NotNil(t, gatsby.MainImageURL)
	assert.Equal(t, "https://cdn.example.com/gatsby.jpg", *gatsby.MainImageURL)
	require.NotNil(t, gatsby.OriginalPrice)
	assert.Equal(t, 15.0, *gatsby.OriginalPrice)
	assert.Equal(t, 4, gatsby.Stock)
	require.NotNil(t, gatsby.WeightGrams)
	assert.Equal(t, 300, *gatsby.WeightGrams)
	assert.True(t, gatsby.Available)
	assert.True(t, gatsby.RequiresShipping)
	assert.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), gatsby.PublishedAt)
	require.NotNil(t, gatsby.Tags)
	assert.Equal(t, "classic,fiction", *gatsby.Tags)
	assert.Equal(t, models.DefaultVariantTitle, gatsby.VariantTitle)
	assert.Nil(t, gatsby.SKU)
	assert.Nil(t, gatsby.Vendor)

	journal := byTitle["Blank Journal"]
	assert.True(t, journal.Available)
	assert.False(t, journal.RequiresShipping)
	assert.Equal(t, 0, journal.Stock)
	assert.Nil(t, journal.OriginalPrice)
	assert.Equal(t, fixedNow, journal.PublishedAt)

	card := byTitle["Gift Card"]
	assert.False(t, card.Available)
	assert.Equal(t, "Digital", card.VariantTitle)
}

func TestImport_UpdateMatchesTitleIgnoringCase(t *testing.T) {
	engine, categories, products := newMemoryEngine()

	_, err := engine.Import(context.Background(), []models.ImportRow{{Title: "Moby Dick", Price: "9", Handle: "moby-dick-1851", Stock: "3"}})
	require.NoError(t, err)
	_, before := listAll(t, categories, products)
	require.Len(t, before, 1)

	result, err := engine.Import(context.Background(), []models.ImportRow{{Title: "MOBY DICK", Price: "11"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.UpdatedCount)

	_, after := listAll(t, categories, products)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.Equal(t, before[0].CreatedAt, after[0].CreatedAt)
	assert.Equal(t, 11.0, after[0].Price)
	assert.Equal(t, "moby-dick", after[0].Handle)
	assert.Equal(t, 0, after[0].Stock)
}

func TestImport_PartialFailure(t *testing.T) {
	engine, _, _ := newMemoryEngine()

	rows := []models.ImportRow{
		{Title: "One", Price: "1"},
		{Title: "Two", Price: "2"},
		{Title: "Three", Price: ""},
		{Title: "Four", Price: "4"},
		{Title: "Five", Price: "5"},
	}
	result, err := engine.Import(context.Background(), rows)

	require.NoError(t, err)
	assert.Equal(t, 4, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, 5, result.TotalRows)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Row 3:")
}

func TestImport_MalformedFields(t *testing.T) {
	engine, _, products := newMemoryEngine()

	tests := []struct {
		name  string
		row   models.ImportRow
		field string
	}{
		{name: "price", row: models.ImportRow{Title: "A", Price: "ten"}, field: "price"},
		{name: "stock", row: models.ImportRow{Title: "B", Price: "1", Stock: "many"}, field: "stock"},
		{name: "fractional stock", row: models.ImportRow{Title: "C", Price: "1", Stock: "1.5"}, field: "stock"},
		{name: "originalPrice", row: models.ImportRow{Title: "D", Price: "1", OriginalPrice: "n/a"}, field: "originalPrice"},
		{name: "weightGrams", row: models.ImportRow{Title: "E", Price: "1", WeightGrams: "heavy"}, field: "weightGrams"},
		{name: "publishedAt", row: models.ImportRow{Title: "F", Price: "1", PublishedAt: "someday"}, field: "publishedAt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Import(context.Background(), []models.ImportRow{tt.row})
			require.NoError(t, err)
			assert.Equal(t, 1, result.FailedCount)
			require.Len(t, result.Errors, 1)
			assert.Contains(t, result.Errors[0], "Row 1: invalid "+tt.field)
		})
	}

	_, total, err := products.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestImport_CategoryCreateRaceResolvedByRecheck(t *testing.T) {
	categories := new(MockCategoryStore)
	products := repository.NewMemoryProductStore()
	engine := NewEngine(categories, products, testAdmin, testLogger())

	winner := &models.Category{ID: uuid.New(), Name: "Book", Slug: "book"}
	categories.On("FindMatching", mock.Anything, "book", "Books", "Book").Return(nil, repository.ErrCategoryNotFound).Once()
	categories.On("Create", mock.Anything, "Book", "book", (*string)(nil)).Return(nil, repository.ErrDuplicateCategory).Once()
	categories.On("FindMatching", mock.Anything, "book", "Books", "Book").Return(winner, nil).Once()

	result, err := engine.Import(context.Background(), []models.ImportRow{{Title: "Dune", Price: "8", CategoryName: "Books"}})

	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 0, result.CategoriesCreated)
	p, err := products.FindMatching(context.Background(), "dune", "Dune")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, *p.CategoryID)
	categories.AssertExpectations(t)
}

func TestImport_CategoryCreateFailureSurfacesOriginalError(t *testing.T) {
	categories := new(MockCategoryStore)
	products := new(MockProductStore)
	engine := NewEngine(categories, products, testAdmin, testLogger())

	createErr := errors.New("insert failed: connection reset")
	categories.On("FindMatching", mock.Anything, "map", "Maps", "Map").Return(nil, repository.ErrCategoryNotFound).Twice()
	categories.On("Create", mock.Anything, "Map", "map", (*string)(nil)).Return(nil, createErr).Once()

	rows := []models.ImportRow{
		{Title: "World Atlas", Price: "30", CategoryName: "Maps"},
		{Title: "Pencil", Price: "1"},
	}
	products.On("FindMatching", mock.Anything, "pencil", "Pencil").Return(nil, repository.ErrProductNotFound).Once()
	products.On("Create", mock.Anything, mock.AnythingOfType("*models.ProductFields")).Return(&models.Product{ID: uuid.New()}, nil).Once()

	result, err := engine.Import(context.Background(), rows)

	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, []string{"Row 1: insert failed: connection reset"}, result.Errors)
	categories.AssertExpectations(t)
	products.AssertExpectations(t)
}

func TestImport_ProductStoreErrorIsRowFailure(t *testing.T) {
	categories := new(MockCategoryStore)
	products := new(MockProductStore)
	engine := NewEngine(categories, products, testAdmin, testLogger())

	existing := &models.Product{ID: uuid.New(), Title: "Atlas", Handle: "atlas"}
	products.On("FindMatching", mock.Anything, "atlas", "Atlas").Return(existing, nil).Once()
	products.On("Update", mock.Anything, existing.ID, mock.AnythingOfType("*models.ProductFields")).Return(nil, errors.New("deadlock detected")).Once()
	products.On("FindMatching", mock.Anything, "globe", "Globe").Return(nil, errors.New("connection refused")).Once()

	result, err := engine.Import(context.Background(), []models.ImportRow{
		{Title: "Atlas", Price: "10"},
		{Title: "Globe", Price: "20"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.FailedCount)
	assert.Equal(t, []string{"Row 1: deadlock detected", "Row 2: connection refused"}, result.Errors)
	products.AssertExpectations(t)
}

func TestImport_InvalidCategoryName(t *testing.T) {
	engine, categories, products := newMemoryEngine()

	result, err := engine.Import(context.Background(), []models.ImportRow{{Title: "Mystery", Price: "1", CategoryName: "!!!"}})

	require.NoError(t, err)
	assert.Equal(t, 1, result.FailedCount)
	cats, prods := listAll(t, categories, products)
	assert.Empty(t, cats)
	assert.Empty(t, prods)
}
