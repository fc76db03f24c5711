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

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) NotifyOrderEvent(event string, order *model.Order) {
	n.events = append(n.events, event)
}

func setupOrderServiceTest(t *testing.T) (OrderService, *recordingNotifier, *model.User, *model.Product, *model.Store, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	notifier := &recordingNotifier{}
	orderService := NewOrderService(
		repository.NewOrderRepository(testDB),
		repository.NewCartRepository(testDB),
		repository.NewStoreRepository(testDB),
		testDB,
		notifier,
	)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Buyer",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	category, store, unit := seedTestCatalog(t, testDB)
	product := &model.Product{
		CategoryID:    category.ID,
		StoreID:       store.ID,
		UnitID:        unit.ID,
		Name:          "Mazapan Box",
		Price:         100,
		StockQuantity: 10,
	}
	require.NoError(t, testDB.Create(product).Error)

	return orderService, notifier, user, product, store, testDB
}

func addCartLine(t *testing.T, testDB *gorm.DB, userID, productID uint, variantID *uint, quantity int) {
	t.Helper()
	require.NoError(t, testDB.Create(&model.CartItem{
		UserID:    userID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	}).Error)
}

func TestOrderService_CreateOrderFromCart(t *testing.T) {
	orderService, notifier, user, product, _, testDB := setupOrderServiceTest(t)

	addCartLine(t, testDB, user.ID, product.ID, nil, 3)

	order, err := orderService.CreateOrderFromCart(user.ID, "Calle Dulce 12", model.FulfillmentDelivery, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, float64(300), order.TotalAmount)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, float64(100), order.OrderItems[0].Price)

	// Stock was decremented and the cart emptied inside the same transaction
	var updated model.Product
	require.NoError(t, testDB.First(&updated, product.ID).Error)
	assert.Equal(t, 7, updated.StockQuantity)

	var remaining int64
	require.NoError(t, testDB.Model(&model.CartItem{}).Where("user_id = ?", user.ID).Count(&remaining).Error)
	assert.Equal(t, int64(0), remaining)

	assert.Equal(t, []string{"order_created"}, notifier.events)
}

func TestOrderService_CreateOrderFromCart_VariantLine(t *testing.T) {
	orderService, _, user, product, _, testDB := setupOrderServiceTest(t)

	variant := &model.WeightVariant{ProductID: product.ID, Label: "500g", Price: 180, StockQuantity: 8}
	require.NoError(t, testDB.Create(variant).Error)

	addCartLine(t, testDB, user.ID, product.ID, &variant.ID, 2)

	order, err := orderService.CreateOrderFromCart(user.ID, "Calle Dulce 12", model.FulfillmentDelivery, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(360), order.TotalAmount)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, float64(180), order.OrderItems[0].Price)
	assert.Equal(t, "500g @ 180.00", order.OrderItems[0].VariantSnapshot)

	// The variant stock drops, the base product stock is untouched
	var updatedVariant model.WeightVariant
	require.NoError(t, testDB.First(&updatedVariant, variant.ID).Error)
	assert.Equal(t, 6, updatedVariant.StockQuantity)

	var updatedProduct model.Product
	require.NoError(t, testDB.First(&updatedProduct, product.ID).Error)
	assert.Equal(t, 10, updatedProduct.StockQuantity)
}

func TestOrderService_CreateOrderFromCart_EmptyCart(t *testing.T) {
	orderService, _, user, _, _, _ := setupOrderServiceTest(t)

	_, err := orderService.CreateOrderFromCart(user.ID, "Calle Dulce 12", model.FulfillmentDelivery, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_CreateOrderFromCart_InsufficientStock(t *testing.T) {
	orderService, _, user, product, _, testDB := setupOrderServiceTest(t)

	addCartLine(t, testDB, user.ID, product.ID, nil, 11)

	_, err := orderService.CreateOrderFromCart(user.ID, "Calle Dulce 12", model.FulfillmentDelivery, nil)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Rollback: stock and cart are both left intact
	var updated model.Product
	require.NoError(t, testDB.First(&updated, product.ID).Error)
	assert.Equal(t, 10, updated.StockQuantity)

	var remaining int64
	require.NoError(t, testDB.Model(&model.CartItem{}).Where("user_id = ?", user.ID).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestOrderService_CreateOrderFromCart_DeliveryRequiresAddress(t *testing.T) {
	orderService, _, user, product, _, testDB := setupOrderServiceTest(t)

	addCartLine(t, testDB, user.ID, product.ID, nil, 1)

	_, err := orderService.CreateOrderFromCart(user.ID, "", model.FulfillmentDelivery, nil)
	assert.ErrorIs(t, err, ErrInvalidFulfillment)
}

func TestOrderService_CreateOrderFromCart_Pickup(t *testing.T) {
	orderService, _, user, product, store, testDB := setupOrderServiceTest(t)

	require.NoError(t, testDB.Model(store).Update("address", "Av. Centro 1").Error)
	addCartLine(t, testDB, user.ID, product.ID, nil, 1)

	order, err := orderService.CreateOrderFromCart(user.ID, "", model.FulfillmentPickup, &store.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FulfillmentPickup, order.FulfillmentType)
	assert.Equal(t, "Av. Centro 1", order.ShippingAddress)
	require.NotNil(t, order.PickupStoreID)
	assert.Equal(t, store.ID, *order.PickupStoreID)
}

func TestOrderService_CreateOrderFromCart_PickupValidation(t *testing.T) {
	orderService, _, user, product, store, testDB := setupOrderServiceTest(t)

	addCartLine(t, testDB, user.ID, product.ID, nil, 1)

	// Missing store
	_, err := orderService.CreateOrderFromCart(user.ID, "", model.FulfillmentPickup, nil)
	assert.ErrorIs(t, err, ErrInvalidFulfillment)

	// Unknown store
	unknown := uint(9999)
	_, err = orderService.CreateOrderFromCart(user.ID, "", model.FulfillmentPickup, &unknown)
	assert.ErrorIs(t, err, ErrInvalidFulfillment)

	// Inactive store
	require.NoError(t, testDB.Model(store).Update("is_active", false).Error)
	_, err = orderService.CreateOrderFromCart(user.ID, "", model.FulfillmentPickup, &store.ID)
	assert.ErrorIs(t, err, ErrInvalidFulfillment)
}

func TestOrderService_GetOrderByID_Ownership(t *testing.T) {
	orderService, _, user, product, _, testDB := setupOrderServiceTest(t)

	addCartLine(t, testDB, user.ID, product.ID, nil, 1)
	order, err := orderService.CreateOrderFromCart(user.ID, "Calle Dulce 12", model.FulfillmentDelivery, nil)
	require.NoError(t, err)

	found, err := orderService.GetOrderByID(user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)

	// Another user sees not-found, not forbidden
	_, err = orderService.GetOrderByID(user.ID+1, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = orderService.GetOrderByID(user.ID, 9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	orderService, notifier, user, product, _, testDB := setupOrderServiceTest(t)

	addCartLine(t, testDB, user.ID, product.ID, nil, 1)
	order, err := orderService.CreateOrderFromCart(user.ID, "Calle Dulce 12", model.FulfillmentDelivery, nil)
	require.NoError(t, err)

	require.NoError(t, orderService.UpdateOrderStatus(order.ID, model.OrderStatusConfirmed))

	updated, err := orderService.GetOrderByID(user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, updated.Status)
	assert.Equal(t, []string{"order_created", "order_status_changed"}, notifier.events)

	assert.ErrorIs(t, orderService.UpdateOrderStatus(9999, model.OrderStatusConfirmed), ErrOrderNotFound)
}

func TestOrderService_UpdatePaymentStatus(t *testing.T) {
	orderService, _, user, product, _, testDB := setupOrderServiceTest(t)

	addCartLine(t, testDB, user.ID, product.ID, nil, 1)
	order, err := orderService.CreateOrderFromCart(user.ID, "Calle Dulce 12", model.FulfillmentDelivery, nil)
	require.NoError(t, err)

	require.NoError(t, orderService.UpdatePaymentStatus(order.ID, model.PaymentStatusCompleted))

	updated, err := orderService.GetOrderByID(user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, updated.PaymentStatus)
}
