package service

import (
	"errors"
	"fmt"

	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/pkg/logger"
	"github.com/avasquez/dulceria-backend/pkg/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidFulfillment = errors.New("invalid fulfillment selection")
)

// OrderNotifier receives order lifecycle events. The websocket hub
// implements it to push live updates to the back office.
type OrderNotifier interface {
	NotifyOrderEvent(event string, order *model.Order)
}

type OrderService interface {
	CreateOrderFromCart(userID uint, shippingAddress string, fulfillmentType model.FulfillmentType, pickupStoreID *uint) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	ListOrders(filter repository.OrderFilter) ([]model.Order, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) error
	UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error
	GetStats() (map[string]interface{}, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	storeRepo repository.StoreRepository
	db        *gorm.DB
	notifier  OrderNotifier
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	storeRepo repository.StoreRepository,
	db *gorm.DB,
	notifier OrderNotifier,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		storeRepo: storeRepo,
		db:        db,
		notifier:  notifier,
	}
}

func (s *orderService) notify(event string, order *model.Order) {
	if s.notifier != nil {
		s.notifier.NotifyOrderEvent(event, order)
	}
}

func (s *orderService) CreateOrderFromCart(userID uint, shippingAddress string, fulfillmentType model.FulfillmentType, pickupStoreID *uint) (*model.Order, error) {
	if fulfillmentType == "" {
		fulfillmentType = model.FulfillmentDelivery
	}

	logger.Info("Creating order from cart", map[string]interface{}{
		"user_id":          userID,
		"fulfillment_type": fulfillmentType,
		"pickup_store_id":  pickupStoreID,
	})

	if fulfillmentType == model.FulfillmentDelivery && shippingAddress == "" {
		logger.Warn("Delivery requires shipping address", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrInvalidFulfillment
	}
	if fulfillmentType == model.FulfillmentPickup {
		if pickupStoreID == nil {
			logger.Warn("Pickup requires a store", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrInvalidFulfillment
		}
		store, err := s.storeRepo.FindByID(*pickupStoreID, false)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidFulfillment
			}
			return nil, err
		}
		if !store.IsActive {
			logger.Warn("Pickup store is not active", map[string]interface{}{
				"user_id":  userID,
				"store_id": store.ID,
			})
			return nil, ErrInvalidFulfillment
		}
		shippingAddress = store.Address
	}

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart items", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if len(cartItems) == 0 {
		logger.Warn("Cannot create order: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	logger.Debug("Processing cart items for order", map[string]interface{}{
		"user_id":    userID,
		"item_count": len(cartItems),
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	var (
		totalAmount float64
		orderItems  []model.OrderItem
	)

	for _, cartItem := range cartItems {
		var product model.Product
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, cartItem.ProductID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product not found during order creation", map[string]interface{}{
					"user_id":    userID,
					"product_id": cartItem.ProductID,
				})
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to fetch product during order creation", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": cartItem.ProductID,
			})
			return nil, err
		}

		unitPrice := product.Price
		var variantSnapshot string

		if cartItem.VariantID != nil {
			var variant model.WeightVariant
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&variant, *cartItem.VariantID).Error; err != nil {
				tx.Rollback()
				if errors.Is(err, gorm.ErrRecordNotFound) {
					logger.Warn("Weight variant not found during order creation", map[string]interface{}{
						"user_id":    userID,
						"variant_id": *cartItem.VariantID,
					})
					return nil, ErrInvalidWeightVariant
				}
				logger.Error("Failed to fetch weight variant during order creation", err, map[string]interface{}{
					"user_id":    userID,
					"variant_id": *cartItem.VariantID,
				})
				return nil, err
			}
			if variant.ProductID != cartItem.ProductID {
				tx.Rollback()
				return nil, ErrInvalidWeightVariant
			}
			if variant.StockQuantity < cartItem.Quantity {
				tx.Rollback()
				logger.Warn("Order creation failed: insufficient variant stock", map[string]interface{}{
					"user_id":    userID,
					"variant_id": variant.ID,
					"requested":  cartItem.Quantity,
					"available":  variant.StockQuantity,
				})
				return nil, ErrInsufficientStock
			}

			unitPrice = variant.Price
			variantSnapshot = fmt.Sprintf("%s @ %.2f", variant.Label, variant.Price)

			if err := tx.Model(&model.WeightVariant{}).
				Where("id = ?", variant.ID).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", cartItem.Quantity)).Error; err != nil {
				tx.Rollback()
				logger.Error("Failed to decrement variant stock", err, map[string]interface{}{
					"user_id":    userID,
					"variant_id": variant.ID,
				})
				return nil, err
			}
		} else {
			if product.StockQuantity < cartItem.Quantity {
				tx.Rollback()
				logger.Warn("Order creation failed: insufficient product stock", map[string]interface{}{
					"user_id":    userID,
					"product_id": cartItem.ProductID,
					"requested":  cartItem.Quantity,
					"available":  product.StockQuantity,
				})
				return nil, ErrInsufficientStock
			}

			if err := tx.Model(&model.Product{}).
				Where("id = ?", product.ID).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", cartItem.Quantity)).Error; err != nil {
				tx.Rollback()
				logger.Error("Failed to decrement product stock", err, map[string]interface{}{
					"user_id":    userID,
					"product_id": product.ID,
				})
				return nil, err
			}
		}

		orderItems = append(orderItems, model.OrderItem{
			ProductID:       cartItem.ProductID,
			VariantID:       cartItem.VariantID,
			Quantity:        cartItem.Quantity,
			Price:           unitPrice,
			VariantSnapshot: variantSnapshot,
		})
		totalAmount += unitPrice * float64(cartItem.Quantity)
	}

	order := &model.Order{
		UserID:          userID,
		OrderNumber:     util.GenerateOrderNumber(),
		TotalAmount:     totalAmount,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		FulfillmentType: fulfillmentType,
		ShippingAddress: shippingAddress,
		PickupStoreID:   pickupStoreID,
		OrderItems:      orderItems,
	}

	if err := tx.Create(order).Error; err != nil {
		// Order number collision is the only expected unique violation
		// here; one regeneration is enough at this volume.
		order.OrderNumber = util.GenerateOrderNumber()
		order.ID = 0
		if retryErr := tx.Create(order).Error; retryErr != nil {
			tx.Rollback()
			logger.Error("Failed to create order", retryErr, map[string]interface{}{
				"user_id":      userID,
				"total_amount": totalAmount,
			})
			return nil, retryErr
		}
	}

	if err := tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear cart after order creation", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"user_id":          userID,
		"order_id":         order.ID,
		"order_number":     order.OrderNumber,
		"total_amount":     totalAmount,
		"item_count":       len(orderItems),
		"fulfillment_type": fulfillmentType,
	})

	created, err := s.orderRepo.FindByID(order.ID)
	if err != nil {
		return nil, err
	}
	s.notify("order_created", created)
	return created, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User orders fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	logger.Debug("Fetching order by ID", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"user_id":  userID,
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, err
	}

	if order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}

	logger.Debug("Order fetched successfully", map[string]interface{}{
		"user_id":        userID,
		"order_id":       orderID,
		"order_status":   order.Status,
		"payment_status": order.PaymentStatus,
	})
	return order, nil
}

func (s *orderService) ListOrders(filter repository.OrderFilter) ([]model.Order, error) {
	logger.Debug("Listing orders", map[string]interface{}{
		"status": filter.Status,
	})

	orders, err := s.orderRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list orders", err, nil)
		return nil, err
	}

	logger.Info("Orders listed", map[string]interface{}{
		"count": len(orders),
	})
	return orders, nil
}

func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) error {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id":   orderID,
		"new_status": status,
	})

	if _, err := s.orderRepo.FindByID(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id":   orderID,
			"new_status": status,
		})
		return err
	}

	logger.Info("Order status updated successfully", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	if order, err := s.orderRepo.FindByID(orderID); err == nil {
		s.notify("order_status_changed", order)
	}
	return nil
}

func (s *orderService) UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error {
	logger.Info("Updating payment status", map[string]interface{}{
		"order_id":   orderID,
		"new_status": status,
	})

	if _, err := s.orderRepo.FindByID(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if err := s.orderRepo.UpdatePaymentStatus(orderID, status); err != nil {
		logger.Error("Failed to update payment status", err, map[string]interface{}{
			"order_id":   orderID,
			"new_status": status,
		})
		return err
	}

	logger.Info("Payment status updated successfully", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	if order, err := s.orderRepo.FindByID(orderID); err == nil {
		s.notify("payment_status_changed", order)
	}
	return nil
}

func (s *orderService) GetStats() (map[string]interface{}, error) {
	return s.orderRepo.GetStats()
}
