package service

import (
	"testing"

	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testShippingThreshold = 999

func seedTestCatalog(t *testing.T, testDB *gorm.DB) (*model.Category, *model.Store, *model.Unit) {
	t.Helper()

	category := &model.Category{Name: "Chocolates", Slug: "chocolates"}
	require.NoError(t, testDB.Create(category).Error)

	store := &model.Store{Name: "Centro", Slug: "centro", IsActive: true}
	require.NoError(t, testDB.Create(store).Error)

	unit := &model.Unit{Name: "gram", Abbreviation: "g"}
	require.NoError(t, testDB.Create(unit).Error)

	return category, store, unit
}

func setupCartServiceTest(t *testing.T) (CartService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	variantRepo := repository.NewWeightVariantRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo, variantRepo, testShippingThreshold)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	category, store, unit := seedTestCatalog(t, testDB)
	product := &model.Product{
		CategoryID:    category.ID,
		StoreID:       store.ID,
		UnitID:        unit.ID,
		Name:          "Dark Truffles",
		Price:         100,
		StockQuantity: 10,
	}
	require.NoError(t, testDB.Create(product).Error)

	return cartService, user, product, testDB
}

func TestCartService_GetUserCart(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	// Initially empty
	summary, err := cartService.GetUserCart(user.ID)
	assert.NoError(t, err)
	assert.Len(t, summary.Items, 0)
	assert.Equal(t, 0, summary.ItemCount)
	assert.True(t, summary.Subtotal.IsZero())

	err = cartService.AddToCart(user.ID, product.ID, nil, 2)
	require.NoError(t, err)

	summary, err = cartService.GetUserCart(user.ID)
	assert.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 2, summary.Items[0].Quantity)
	assert.Equal(t, 2, summary.ItemCount)
	assert.True(t, summary.Subtotal.Equal(decimal.NewFromInt(200)))
}

func TestCartService_GetUserCart_FreeShipping(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	// 2 * 100 = 200, threshold 999
	require.NoError(t, cartService.AddToCart(user.ID, product.ID, nil, 2))

	summary, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.False(t, summary.FreeShipping.Qualifies)
	assert.True(t, summary.FreeShipping.Remaining.Equal(decimal.NewFromInt(799)))

	// 10 * 100 = 1000 crosses the threshold
	require.NoError(t, cartService.UpdateCartItem(user.ID, summary.Items[0].ID, 10))

	summary, err = cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.True(t, summary.FreeShipping.Qualifies)
	assert.True(t, summary.FreeShipping.Remaining.IsZero())
	assert.Equal(t, float64(100), summary.FreeShipping.ProgressPercent)
}

func TestCartService_AddToCart_MergesSameLine(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, nil, 2))
	require.NoError(t, cartService.AddToCart(user.ID, product.ID, nil, 3))

	summary, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 5, summary.Items[0].Quantity)
}

func TestCartService_AddToCart_VariantIsSeparateLine(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	variant := &model.WeightVariant{ProductID: product.ID, Label: "500g", Price: 180, StockQuantity: 5}
	require.NoError(t, testDB.Create(variant).Error)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, nil, 1))
	require.NoError(t, cartService.AddToCart(user.ID, product.ID, &variant.ID, 2))

	summary, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 2)
	assert.Equal(t, 3, summary.ItemCount)
	// 1*100 base + 2*180 variant
	assert.True(t, summary.Subtotal.Equal(decimal.NewFromInt(460)))
}

func TestCartService_AddToCart_InvalidQuantity(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	err := cartService.AddToCart(user.ID, product.ID, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	err = cartService.AddToCart(user.ID, product.ID, nil, -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_AddToCart_ProductNotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	err := cartService.AddToCart(user.ID, 9999, nil, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddToCart_VariantMismatch(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	other := &model.Product{
		CategoryID:    product.CategoryID,
		StoreID:       product.StoreID,
		UnitID:        product.UnitID,
		Name:          "Gummy Mix",
		Price:         40,
		StockQuantity: 20,
	}
	require.NoError(t, testDB.Create(other).Error)

	variant := &model.WeightVariant{ProductID: other.ID, Label: "250g", Price: 25, StockQuantity: 7}
	require.NoError(t, testDB.Create(variant).Error)

	// Variant belongs to a different product
	err := cartService.AddToCart(user.ID, product.ID, &variant.ID, 1)
	assert.ErrorIs(t, err, ErrInvalidWeightVariant)
}

func TestCartService_AddToCart_InsufficientStock(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	// Stock is 10
	err := cartService.AddToCart(user.ID, product.ID, nil, 11)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Merge pushing past stock is also rejected
	require.NoError(t, cartService.AddToCart(user.ID, product.ID, nil, 8))
	err = cartService.AddToCart(user.ID, product.ID, nil, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The existing line is untouched
	summary, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 8, summary.Items[0].Quantity)
}

func TestCartService_UpdateCartItem(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, nil, 2))
	summary, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	itemID := summary.Items[0].ID

	err = cartService.UpdateCartItem(user.ID, itemID, 5)
	assert.NoError(t, err)

	summary, err = cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Items[0].Quantity)
}

func TestCartService_UpdateCartItem_InvalidQuantity(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, nil, 2))
	summary, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	itemID := summary.Items[0].ID

	// Zero and negative quantities are rejected, not treated as removal
	assert.ErrorIs(t, cartService.UpdateCartItem(user.ID, itemID, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, cartService.UpdateCartItem(user.ID, itemID, -1), ErrInvalidQuantity)

	summary, err = cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Items[0].Quantity)
}

func TestCartService_UpdateCartItem_OwnershipMismatch(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	other := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Name:         "Other User",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(other).Error)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, nil, 2))
	summary, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)

	err = cartService.UpdateCartItem(other.ID, summary.Items[0].ID, 5)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_UpdateCartItem_InsufficientStock(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, nil, 2))
	summary, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)

	err = cartService.UpdateCartItem(user.ID, summary.Items[0].ID, 11)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_RemoveFromCart(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, nil, 2))
	summary, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)

	err = cartService.RemoveFromCart(user.ID, summary.Items[0].ID)
	assert.NoError(t, err)

	summary, err = cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
}

func TestCartService_RemoveFromCart_AbsentIsNoop(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	err := cartService.RemoveFromCart(user.ID, 9999)
	assert.NoError(t, err)
}

func TestCartService_RemoveFromCart_OwnershipMismatch(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	other := &model.User{Email: "other@example.com", PasswordHash: "x", Name: "Other"}
	require.NoError(t, testDB.Create(other).Error)
	require.NoError(t, cartService.AddToCart(other.ID, product.ID, nil, 1))

	summary, err := cartService.GetUserCart(other.ID)
	require.NoError(t, err)

	err = cartService.RemoveFromCart(user.ID, summary.Items[0].ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_ClearCart(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	variant := &model.WeightVariant{ProductID: product.ID, Label: "1kg", Price: 350, StockQuantity: 3}
	require.NoError(t, testDB.Create(variant).Error)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, nil, 2))
	require.NoError(t, cartService.AddToCart(user.ID, product.ID, &variant.ID, 1))

	err := cartService.ClearCart(user.ID)
	assert.NoError(t, err)

	summary, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.Equal(t, 0, summary.ItemCount)
}
