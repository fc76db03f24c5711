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

type CakeOrderController struct {
	cakeOrderService service.CakeOrderService
}

func NewCakeOrderController(cakeOrderService service.CakeOrderService) *CakeOrderController {
	return &CakeOrderController{
		cakeOrderService: cakeOrderService,
	}
}

type SubmitCakeOrderRequest struct {
	CustomerName string    `json:"customer_name" binding:"required"`
	Phone        string    `json:"phone" binding:"required"`
	Email        string    `json:"email" binding:"omitempty,email"`
	EventDate    time.Time `json:"event_date" binding:"required"`
	Servings     int       `json:"servings" binding:"required,gt=0"`
	FlavorID     *uint     `json:"flavor_id"`
	Inscription  string    `json:"inscription"`
	Notes        string    `json:"notes"`
	ImageURLs    []string  `json:"image_urls"`
}

type QuoteCakeOrderRequest struct {
	Price float64 `json:"price" binding:"required,gt=0"`
}

type UpdateCakeOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SubmitCakeOrder accepts a custom cake request from the storefront
// POST /api/v1/cake-orders
func (ctrl *CakeOrderController) SubmitCakeOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SubmitCakeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid cake order request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid cake order data")
		return
	}

	order, err := ctrl.cakeOrderService.SubmitCakeOrder(service.CakeOrderRequest{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Email:        req.Email,
		EventDate:    req.EventDate,
		Servings:     req.Servings,
		FlavorID:     req.FlavorID,
		Inscription:  req.Inscription,
		Notes:        req.Notes,
		ImageURLs:    req.ImageURLs,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCakeOrder) {
			log.Warn("Cake order validation failed", map[string]interface{}{
				"customer_name": req.CustomerName,
				"event_date":    req.EventDate,
			})
			apperrors.BadRequest(c, apperrors.CakeOrderPastEventDate, "Cake order data is invalid or event date has passed")
			return
		}
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.BadRequest(c, apperrors.CatalogProductNotFound, "Selected flavor does not exist")
			return
		}
		log.Error("Failed to submit cake order", err, map[string]interface{}{
			"customer_name": req.CustomerName,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cake order")
		return
	}

	log.Info("Cake order submitted", map[string]interface{}{
		"cake_order_id": order.ID,
		"event_date":    order.EventDate,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Cake order submitted successfully",
		"cake_order": order,
	})
}

// ListCakeOrders returns cake orders, soonest event first (admin)
// GET /api/v1/admin/cake-orders
func (ctrl *CakeOrderController) ListCakeOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.CakeOrderFilter{Limit: 50}

	if s := c.Query("status"); s != "" {
		status := model.CakeOrderStatus(s)
		filter.Status = &status
	}
	if v, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filter.EventDateFrom = &v
	}
	if v, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		filter.EventDateTo = &v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 200 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		filter.Offset = v
	}

	orders, err := ctrl.cakeOrderService.ListCakeOrders(filter)
	if err != nil {
		log.Error("Failed to list cake orders", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cake orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cake_orders": orders,
		"count":       len(orders),
	})
}

// GetCakeOrder returns one cake order (admin)
// GET /api/v1/admin/cake-orders/:id
func (ctrl *CakeOrderController) GetCakeOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cake order ID")
		return
	}

	order, err := ctrl.cakeOrderService.GetCakeOrderByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrCakeOrderNotFound) {
			apperrors.NotFound(c, apperrors.CakeOrderNotFound, "Cake order not found")
			return
		}
		log.Error("Failed to fetch cake order", err, map[string]interface{}{
			"cake_order_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cake order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cake_order": order,
	})
}

// QuoteCakeOrder attaches a price quote to a cake order (admin)
// PUT /api/v1/admin/cake-orders/:id/quote
func (ctrl *CakeOrderController) QuoteCakeOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cake order ID")
		return
	}

	var req QuoteCakeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid quote data")
		return
	}

	order, err := ctrl.cakeOrderService.QuoteCakeOrder(uint(id), req.Price)
	if err != nil {
		if errors.Is(err, service.ErrCakeOrderNotFound) {
			apperrors.NotFound(c, apperrors.CakeOrderNotFound, "Cake order not found")
			return
		}
		if errors.Is(err, service.ErrInvalidCakeOrder) {
			apperrors.BadRequest(c, apperrors.CakeOrderInvalidStatus, "Cake order cannot be quoted in its current status")
			return
		}
		log.Error("Failed to quote cake order", err, map[string]interface{}{
			"cake_order_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cake order quote")
		return
	}

	log.Info("Cake order quoted", map[string]interface{}{
		"cake_order_id": id,
		"price":         req.Price,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":    "Cake order quoted successfully",
		"cake_order": order,
	})
}

// UpdateCakeOrderStatus moves a cake order through its workflow (admin)
// PUT /api/v1/admin/cake-orders/:id/status
func (ctrl *CakeOrderController) UpdateCakeOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cake order ID")
		return
	}

	var req UpdateCakeOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	err = ctrl.cakeOrderService.UpdateCakeOrderStatus(uint(id), model.CakeOrderStatus(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrCakeOrderNotFound) {
			apperrors.NotFound(c, apperrors.CakeOrderNotFound, "Cake order not found")
			return
		}
		if errors.Is(err, service.ErrInvalidStatusTransition) {
			log.Warn("Invalid cake order status transition", map[string]interface{}{
				"cake_order_id": id,
				"status":        req.Status,
			})
			apperrors.BadRequest(c, apperrors.CakeOrderInvalidStatus, "Invalid status transition")
			return
		}
		log.Error("Failed to update cake order status", err, map[string]interface{}{
			"cake_order_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cake order status")
		return
	}

	log.Info("Cake order status updated", map[string]interface{}{
		"cake_order_id": id,
		"status":        req.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Cake order status updated successfully",
	})
}
