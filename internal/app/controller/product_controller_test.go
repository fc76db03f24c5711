package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/internal/app/service"
	"github.com/avasquez/dulceria-backend/internal/db"
	apperrors "github.com/avasquez/dulceria-backend/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductControllerTest(t *testing.T) (*ProductController, *gin.Engine, *gorm.DB, *model.Category, *model.Store, *model.Unit) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	variantRepo := repository.NewWeightVariantRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	productService := service.NewProductService(productRepo, variantRepo, categoryRepo)
	productController := NewProductController(productService)

	category, store, unit := seedControllerCatalog(t, testDB)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return productController, router, testDB, category, store, unit
}

func seedControllerProduct(t *testing.T, testDB *gorm.DB, category *model.Category, store *model.Store, unit *model.Unit, name string, featured bool, stock int) *model.Product {
	t.Helper()

	product := &model.Product{
		CategoryID:    category.ID,
		StoreID:       store.ID,
		UnitID:        unit.ID,
		Name:          name,
		Price:         120,
		StockQuantity: stock,
		IsFeatured:    featured,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func TestProductController_ListProducts(t *testing.T) {
	controller, router, testDB, category, store, unit := setupProductControllerTest(t)

	seedControllerProduct(t, testDB, category, store, unit, "Gummy Bears", false, 10)
	seedControllerProduct(t, testDB, category, store, unit, "Chili Mango Strips", false, 5)

	router.GET("/products", controller.ListProducts)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(2), response["count"])
}

func TestProductController_ListProducts_Search(t *testing.T) {
	controller, router, testDB, category, store, unit := setupProductControllerTest(t)

	seedControllerProduct(t, testDB, category, store, unit, "Gummy Bears", false, 10)
	seedControllerProduct(t, testDB, category, store, unit, "Chili Mango Strips", false, 5)

	router.GET("/products", controller.ListProducts)

	req := httptest.NewRequest(http.MethodGet, "/products?search=mango", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(1), response["count"])
}

func TestProductController_GetProduct_Success(t *testing.T) {
	controller, router, testDB, category, store, unit := setupProductControllerTest(t)

	product := seedControllerProduct(t, testDB, category, store, unit, "Gummy Bears", false, 10)

	router.GET("/products/:id", controller.GetProduct)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d", product.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	got := response["product"].(map[string]interface{})
	assert.Equal(t, "Gummy Bears", got["name"])
	assert.Equal(t, float64(1), got["view_count"]) // detail view bumps the counter
}

func TestProductController_GetProduct_NotFound(t *testing.T) {
	controller, router, _, _, _, _ := setupProductControllerTest(t)

	router.GET("/products/:id", controller.GetProduct)

	req := httptest.NewRequest(http.MethodGet, "/products/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, apperrors.CatalogProductNotFound, response["error"])
}

func TestProductController_GetProduct_InvalidID(t *testing.T) {
	controller, router, _, _, _, _ := setupProductControllerTest(t)

	router.GET("/products/:id", controller.GetProduct)

	req := httptest.NewRequest(http.MethodGet, "/products/invalid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, apperrors.ValidationInvalidID, response["error"])
}

func TestProductController_GetProductsByCategory(t *testing.T) {
	controller, router, testDB, category, store, unit := setupProductControllerTest(t)

	seedControllerProduct(t, testDB, category, store, unit, "Gummy Bears", false, 10)

	router.GET("/categories/:slug/products", controller.GetProductsByCategory)

	req := httptest.NewRequest(http.MethodGet, "/categories/chocolates/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(1), response["count"])
}

func TestProductController_GetProductsByCategory_NotFound(t *testing.T) {
	controller, router, _, _, _, _ := setupProductControllerTest(t)

	router.GET("/categories/:slug/products", controller.GetProductsByCategory)

	req := httptest.NewRequest(http.MethodGet, "/categories/no-such-category/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, apperrors.CatalogCategoryNotFound, response["error"])
}

func TestProductController_GetFeaturedProducts(t *testing.T) {
	controller, router, testDB, category, store, unit := setupProductControllerTest(t)

	seedControllerProduct(t, testDB, category, store, unit, "Gummy Bears", true, 10)
	seedControllerProduct(t, testDB, category, store, unit, "Chili Mango Strips", false, 5)
	// Featured but out of stock, hidden from the selection
	seedControllerProduct(t, testDB, category, store, unit, "Obleas", true, 0)

	router.GET("/products/featured", controller.GetFeaturedProducts)

	req := httptest.NewRequest(http.MethodGet, "/products/featured", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(1), response["count"])

	products := response["products"].([]interface{})
	first := products[0].(map[string]interface{})
	assert.Equal(t, "Gummy Bears", first["name"])
}
