package repository

import (
	"testing"

	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository, *model.Category, *model.Store, *model.Unit) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewProductRepository(testDB)
	category, store, unit := seedCatalog(t, testDB)

	return testDB, repo, category, store, unit
}

func newTestProduct(category *model.Category, store *model.Store, unit *model.Unit, name string, price float64, stock int) *model.Product {
	return &model.Product{
		CategoryID:    category.ID,
		StoreID:       store.ID,
		UnitID:        unit.ID,
		Name:          name,
		Price:         price,
		StockQuantity: stock,
	}
}

func TestProductRepository_Create(t *testing.T) {
	testDB, repo, category, store, unit := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := newTestProduct(category, store, unit, "Milk Chocolate Bar", 45, 30)

	err := repo.Create(product)
	assert.NoError(t, err)
	assert.NotZero(t, product.ID)
}

func TestProductRepository_FindByID(t *testing.T) {
	testDB, repo, category, store, unit := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := newTestProduct(category, store, unit, "Gummy Bears", 25, 50)
	require.NoError(t, repo.Create(product))

	variant := &model.WeightVariant{ProductID: product.ID, Label: "500g", Price: 40, StockQuantity: 12}
	require.NoError(t, testDB.Create(variant).Error)

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)
	assert.Equal(t, "Gummy Bears", found.Name)
	assert.Equal(t, category.ID, found.Category.ID)
	assert.Len(t, found.Variants, 1)
}

func TestProductRepository_FindByID_NotFound(t *testing.T) {
	testDB, repo, _, _, _ := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	testDB, repo, category, store, unit := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	other := &model.Category{Name: "Gummies", Slug: "gummies"}
	require.NoError(t, testDB.Create(other).Error)

	chocolate := newTestProduct(category, store, unit, "Dark Chocolate Tablet", 60, 20)
	truffle := newTestProduct(category, store, unit, "Cocoa Truffle Box", 120, 0)
	gummy := newTestProduct(other, store, unit, "Sour Worms", 18, 40)
	gummy.IsFeatured = true

	require.NoError(t, repo.Create(chocolate))
	require.NoError(t, repo.Create(truffle))
	require.NoError(t, repo.Create(gummy))

	t.Run("By category", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{CategoryID: &category.ID})
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("Featured only", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{FeaturedOnly: true})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Sour Worms", products[0].Name)
	})

	t.Run("In stock only skips zero-stock products", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{InStockOnly: true})
		require.NoError(t, err)
		assert.Len(t, products, 2)
		for _, p := range products {
			assert.NotEqual(t, "Cocoa Truffle Box", p.Name)
		}
	})

	t.Run("In stock counts variant stock", func(t *testing.T) {
		variant := &model.WeightVariant{ProductID: truffle.ID, Label: "250g", Price: 70, StockQuantity: 5}
		require.NoError(t, testDB.Create(variant).Error)

		products, err := repo.FindWithFilter(ProductFilter{InStockOnly: true})
		require.NoError(t, err)
		assert.Len(t, products, 3)
	})

	t.Run("Search by name", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{Search: "Chocolate"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Dark Chocolate Tablet", products[0].Name)
	})

	t.Run("Sort by price ascending", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{SortBy: ProductSortPrice, SortAscending: true})
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "Sour Worms", products[0].Name)
		assert.Equal(t, "Cocoa Truffle Box", products[2].Name)
	})

	t.Run("Limit and offset", func(t *testing.T) {
		products, err := repo.FindWithFilter(ProductFilter{SortBy: ProductSortPrice, SortAscending: true, Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Dark Chocolate Tablet", products[0].Name)
	})
}

func TestProductRepository_FindByIDs(t *testing.T) {
	testDB, repo, category, store, unit := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	p1 := newTestProduct(category, store, unit, "Caramel Chews", 22, 15)
	p2 := newTestProduct(category, store, unit, "Marzipan Fruits", 48, 8)
	require.NoError(t, repo.Create(p1))
	require.NoError(t, repo.Create(p2))

	products, err := repo.FindByIDs([]uint{p1.ID, p2.ID, 9999})
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestProductRepository_Update(t *testing.T) {
	testDB, repo, category, store, unit := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := newTestProduct(category, store, unit, "Nougat Bar", 35, 10)
	require.NoError(t, repo.Create(product))

	product.Price = 38
	product.IsFeatured = true
	require.NoError(t, repo.Update(product))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(38), found.Price)
	assert.True(t, found.IsFeatured)
}

func TestProductRepository_Delete(t *testing.T) {
	testDB, repo, category, store, unit := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := newTestProduct(category, store, unit, "Rock Candy", 12, 25)
	require.NoError(t, repo.Create(product))

	require.NoError(t, repo.Delete(product.ID))

	_, err := repo.FindByID(product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_AdjustStock(t *testing.T) {
	testDB, repo, category, store, unit := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := newTestProduct(category, store, unit, "Fudge Squares", 28, 10)
	require.NoError(t, repo.Create(product))

	require.NoError(t, repo.AdjustStock(product.ID, -3))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, found.StockQuantity)
}

func TestProductRepository_IncrementViewCount(t *testing.T) {
	testDB, repo, category, store, unit := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := newTestProduct(category, store, unit, "Licorice Twists", 15, 20)
	require.NoError(t, repo.Create(product))

	require.NoError(t, repo.IncrementViewCount(product.ID))
	require.NoError(t, repo.IncrementViewCount(product.ID))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.ViewCount)
}
