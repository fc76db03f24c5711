package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/avasquez/dulceria-backend/internal/app/service"
	apperrors "github.com/avasquez/dulceria-backend/internal/errors"
	"github.com/avasquez/dulceria-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GuestTokenHeader carries the anonymous cart token. The server issues
// one on the first request that arrives without it; the storefront
// stores it client-side and sends it back on every cart call.
const GuestTokenHeader = "X-Guest-Token"

type GuestCartController struct {
	guestCartService service.GuestCartService
}

func NewGuestCartController(guestCartService service.GuestCartService) *GuestCartController {
	return &GuestCartController{
		guestCartService: guestCartService,
	}
}

type GuestAddItemRequest struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

type GuestUpdateItemRequest struct {
	ProductID     uint   `json:"product_id" binding:"required"`
	WeightVariant string `json:"weight_variant"`
	Quantity      int    `json:"quantity"`
}

// guestToken returns the caller's cart token, minting and echoing a new
// one when the request carries none.
func (ctrl *GuestCartController) guestToken(c *gin.Context) string {
	token := c.GetHeader(GuestTokenHeader)
	if token == "" {
		token = uuid.NewString()
	}
	c.Header(GuestTokenHeader, token)
	return token
}

// GetCart returns the guest cart with derived totals
// GET /api/v1/guest-cart
func (ctrl *GuestCartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	token := ctrl.guestToken(c)

	view, err := ctrl.guestCartService.GetCart(c.Request.Context(), token)
	if err != nil {
		log.Error("Failed to fetch guest cart", err, map[string]interface{}{
			"token": token,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, view)
}

// AddItem adds an item to the guest cart, merging into an existing line
// with the same product and weight variant and clamping to stock
// POST /api/v1/guest-cart/items
func (ctrl *GuestCartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	token := ctrl.guestToken(c)

	var req GuestAddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid guest cart add request", map[string]interface{}{
			"token": token,
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	view, err := ctrl.guestCartService.AddItem(c.Request.Context(), token, req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found for guest cart", map[string]interface{}{
				"token":      token,
				"product_id": req.ProductID,
			})
			apperrors.NotFound(c, apperrors.CatalogProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrInvalidWeightVariant) {
			apperrors.BadRequest(c, apperrors.CatalogVariantMismatch, "Invalid weight variant")
			return
		}
		if errors.Is(err, service.ErrInvalidQuantity) {
			apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Quantity must be at least 1")
			return
		}
		log.Error("Failed to add item to guest cart", err, map[string]interface{}{
			"token":      token,
			"product_id": req.ProductID,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Guest cart item added", map[string]interface{}{
		"token":      token,
		"product_id": req.ProductID,
		"item_count": view.ItemCount,
	})

	c.JSON(http.StatusCreated, view)
}

// UpdateItem sets a guest cart line's quantity; zero removes the line
// PUT /api/v1/guest-cart/items
func (ctrl *GuestCartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	token := ctrl.guestToken(c)

	var req GuestUpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid guest cart update request", map[string]interface{}{
			"token": token,
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	view, err := ctrl.guestCartService.UpdateItem(c.Request.Context(), token, req.ProductID, req.WeightVariant, req.Quantity)
	if err != nil {
		log.Error("Failed to update guest cart item", err, map[string]interface{}{
			"token":      token,
			"product_id": req.ProductID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, view)
}

// RemoveItem deletes one line from the guest cart
// DELETE /api/v1/guest-cart/items?product_id=&weight_variant=
func (ctrl *GuestCartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	token := ctrl.guestToken(c)

	productID, err := strconv.ParseUint(c.Query("product_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}
	weightVariant := c.Query("weight_variant")

	view, err := ctrl.guestCartService.RemoveItem(c.Request.Context(), token, uint(productID), weightVariant)
	if err != nil {
		log.Error("Failed to remove guest cart item", err, map[string]interface{}{
			"token":      token,
			"product_id": productID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, view)
}

// ClearCart removes every line from the guest cart
// DELETE /api/v1/guest-cart
func (ctrl *GuestCartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	token := ctrl.guestToken(c)

	if err := ctrl.guestCartService.ClearCart(c.Request.Context(), token); err != nil {
		log.Error("Failed to clear guest cart", err, map[string]interface{}{
			"token": token,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}
