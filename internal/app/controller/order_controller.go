package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/internal/app/service"
	apperrors "github.com/avasquez/dulceria-backend/internal/errors"
	"github.com/avasquez/dulceria-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
	FulfillmentType string `json:"fulfillment_type"`
	PickupStoreID   *uint  `json:"pickup_store_id"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

var validOrderStatuses = map[model.OrderStatus]bool{
	model.OrderStatusPending:   true,
	model.OrderStatusConfirmed: true,
	model.OrderStatusPreparing: true,
	model.OrderStatusReady:     true,
	model.OrderStatusDelivered: true,
	model.OrderStatusCancelled: true,
}

var validPaymentStatuses = map[model.PaymentStatus]bool{
	model.PaymentStatusPending:   true,
	model.PaymentStatusCompleted: true,
	model.PaymentStatusFailed:    true,
	model.PaymentStatusRefunded:  true,
}

// CreateOrder creates an order from the user's cart
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized attempt to create order", nil)
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create order request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid order data")
		return
	}

	log.Debug("Creating order", map[string]interface{}{
		"user_id":          userID,
		"fulfillment_type": req.FulfillmentType,
		"pickup_store_id":  req.PickupStoreID,
	})

	order, err := ctrl.orderService.CreateOrderFromCart(userID, req.ShippingAddress, model.FulfillmentType(req.FulfillmentType), req.PickupStoreID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			log.Warn("Order creation failed: cart is empty", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
		case errors.Is(err, service.ErrInvalidFulfillment):
			log.Warn("Order creation failed: invalid fulfillment", map[string]interface{}{
				"user_id":          userID,
				"fulfillment_type": req.FulfillmentType,
			})
			apperrors.BadRequest(c, apperrors.OrderInvalidAddress, "Invalid shipping address or pickup store")
		case errors.Is(err, service.ErrInsufficientStock):
			log.Warn("Order creation failed: insufficient stock", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.Conflict(c, apperrors.CartInsufficientStock, "One or more items are out of stock")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.CatalogProductNotFound, "A product in the cart no longer exists")
		default:
			log.Error("Failed to create order", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "order create")
		}
		return
	}

	log.Info("Order created successfully", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   order,
	})
}

// GetMyOrders returns the user's order history
// GET /api/v1/orders
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized access to orders", nil)
		apperrors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one of the user's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Unauthorized access to order detail", nil)
		apperrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, uint(id))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			log.Warn("Order not found", map[string]interface{}{
				"user_id":  userID,
				"order_id": id,
			})
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// ListOrders returns orders across all users (admin)
// GET /api/v1/admin/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.OrderFilter{Limit: 50}

	if s := c.Query("status"); s != "" {
		status := model.OrderStatus(s)
		if !validOrderStatuses[status] {
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Invalid order status")
			return
		}
		filter.Status = &status
	}
	if v, err := strconv.ParseUint(c.Query("store_id"), 10, 32); err == nil {
		id := uint(v)
		filter.StoreID = &id
	}
	if v, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filter.DateFrom = &v
	}
	if v, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		filter.DateTo = &v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 200 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		filter.Offset = v
	}

	orders, err := ctrl.orderService.ListOrders(filter)
	if err != nil {
		log.Error("Failed to list orders", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// UpdateOrderStatus updates an order's status (admin)
// PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	status := model.OrderStatus(req.Status)
	if !validOrderStatuses[status] {
		log.Warn("Invalid order status", map[string]interface{}{
			"order_id": id,
			"status":   req.Status,
		})
		apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Invalid order status")
		return
	}

	if err := ctrl.orderService.UpdateOrderStatus(uint(id), status); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "order status")
		return
	}

	log.Info("Order status updated", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
	})
}

// UpdatePaymentStatus updates an order's payment status (admin)
// PUT /api/v1/admin/orders/:id/payment
func (ctrl *OrderController) UpdatePaymentStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	status := model.PaymentStatus(req.Status)
	if !validPaymentStatuses[status] {
		log.Warn("Invalid payment status", map[string]interface{}{
			"order_id": id,
			"status":   req.Status,
		})
		apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Invalid payment status")
		return
	}

	if err := ctrl.orderService.UpdatePaymentStatus(uint(id), status); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to update payment status", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "payment status")
		return
	}

	log.Info("Payment status updated", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment status updated successfully",
	})
}

// GetStats returns order statistics (admin)
// GET /api/v1/admin/orders/stats
func (ctrl *OrderController) GetStats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.orderService.GetStats()
	if err != nil {
		log.Error("Failed to fetch order stats", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "order stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}
