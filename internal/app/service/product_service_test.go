package service

import (
	"testing"

	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (ProductService, *model.Category, *model.Store, *model.Unit, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productService := NewProductService(
		repository.NewProductRepository(testDB),
		repository.NewWeightVariantRepository(testDB),
		repository.NewCategoryRepository(testDB),
	)

	category, store, unit := seedTestCatalog(t, testDB)
	return productService, category, store, unit, testDB
}

func seedServiceProduct(t *testing.T, testDB *gorm.DB, category *model.Category, store *model.Store, unit *model.Unit, name string, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		CategoryID:    category.ID,
		StoreID:       store.ID,
		UnitID:        unit.ID,
		Name:          name,
		Price:         120,
		StockQuantity: stock,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func TestProductService_GetProductByID(t *testing.T) {
	productService, category, store, unit, testDB := setupProductServiceTest(t)
	product := seedServiceProduct(t, testDB, category, store, unit, "Gomitas", 5)

	found, err := productService.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gomitas", found.Name)
	assert.Equal(t, category.ID, found.Category.ID)

	// Each detail read bumps the view counter, and the returned product
	// reflects the bump
	assert.Equal(t, 1, found.ViewCount)
	var counted model.Product
	require.NoError(t, testDB.First(&counted, product.ID).Error)
	assert.Equal(t, 1, counted.ViewCount)

	_, err = productService.GetProductByID(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_GetProductsByCategorySlug(t *testing.T) {
	productService, category, store, unit, testDB := setupProductServiceTest(t)
	seedServiceProduct(t, testDB, category, store, unit, "Gomitas", 5)

	products, err := productService.GetProductsByCategorySlug(category.Slug)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	_, err = productService.GetProductsByCategorySlug("no-such-category")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestProductService_GetFeaturedProducts(t *testing.T) {
	productService, category, store, unit, testDB := setupProductServiceTest(t)

	featured := seedServiceProduct(t, testDB, category, store, unit, "Paleta Payaso", 5)
	require.NoError(t, testDB.Model(featured).Update("is_featured", true).Error)
	seedServiceProduct(t, testDB, category, store, unit, "Gomitas", 5)

	// Featured but out of stock stays hidden
	hidden := seedServiceProduct(t, testDB, category, store, unit, "Obleas", 0)
	require.NoError(t, testDB.Model(hidden).Update("is_featured", true).Error)

	products, err := productService.GetFeaturedProducts(10)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Paleta Payaso", products[0].Name)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	productService, _, _, _, _ := setupProductServiceTest(t)

	err := productService.UpdateProduct(&model.Product{ID: 9999, Name: "Ghost"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct(t *testing.T) {
	productService, category, store, unit, testDB := setupProductServiceTest(t)
	product := seedServiceProduct(t, testDB, category, store, unit, "Gomitas", 5)

	require.NoError(t, productService.DeleteProduct(product.ID))

	_, err := productService.GetProductByID(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, productService.DeleteProduct(9999), ErrProductNotFound)
}

func TestProductService_VariantLifecycle(t *testing.T) {
	productService, category, store, unit, testDB := setupProductServiceTest(t)
	product := seedServiceProduct(t, testDB, category, store, unit, "Gomitas", 5)

	variant := &model.WeightVariant{ProductID: product.ID, Label: "250g", Price: 60, StockQuantity: 12}
	require.NoError(t, productService.AddVariant(variant))
	assert.NotZero(t, variant.ID)

	assert.ErrorIs(t, productService.AddVariant(&model.WeightVariant{ProductID: 9999, Label: "1kg"}), ErrProductNotFound)

	variant.Price = 65
	require.NoError(t, productService.UpdateVariant(variant))

	// A variant cannot be updated through a different product
	other := seedServiceProduct(t, testDB, category, store, unit, "Obleas", 5)
	assert.ErrorIs(t, productService.UpdateVariant(&model.WeightVariant{ID: variant.ID, ProductID: other.ID}), ErrInvalidWeightVariant)
	assert.ErrorIs(t, productService.DeleteVariant(other.ID, variant.ID), ErrInvalidWeightVariant)

	require.NoError(t, productService.DeleteVariant(product.ID, variant.ID))
	assert.ErrorIs(t, productService.DeleteVariant(product.ID, variant.ID), ErrInvalidWeightVariant)
}

func TestProductService_CheckStock(t *testing.T) {
	productService, category, store, unit, testDB := setupProductServiceTest(t)
	product := seedServiceProduct(t, testDB, category, store, unit, "Gomitas", 5)

	variant := &model.WeightVariant{ProductID: product.ID, Label: "250g", Price: 60, StockQuantity: 2}
	require.NoError(t, testDB.Create(variant).Error)

	assert.NoError(t, productService.CheckStock(product.ID, nil, 5))
	assert.ErrorIs(t, productService.CheckStock(product.ID, nil, 6), ErrInsufficientStock)

	assert.NoError(t, productService.CheckStock(product.ID, &variant.ID, 2))
	assert.ErrorIs(t, productService.CheckStock(product.ID, &variant.ID, 3), ErrInsufficientStock)

	other := seedServiceProduct(t, testDB, category, store, unit, "Obleas", 5)
	assert.ErrorIs(t, productService.CheckStock(other.ID, &variant.ID, 1), ErrInvalidWeightVariant)

	assert.ErrorIs(t, productService.CheckStock(9999, nil, 1), ErrProductNotFound)
}
