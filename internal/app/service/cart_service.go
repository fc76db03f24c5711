package service

import (
	"errors"

	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/internal/cart"
	"github.com/avasquez/dulceria-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
)

// CartSummary is the persisted cart plus its derived aggregates.
// Prices come from the live catalog at read time, so a price change
// between visits is reflected the next time the cart is fetched.
type CartSummary struct {
	Items        []model.CartItem        `json:"items"`
	ItemCount    int                     `json:"item_count"`
	Subtotal     decimal.Decimal         `json:"subtotal"`
	FreeShipping cart.FreeShippingStatus `json:"free_shipping"`
}

type CartService interface {
	GetUserCart(userID uint) (*CartSummary, error)
	AddToCart(userID, productID uint, variantID *uint, quantity int) error
	UpdateCartItem(userID, cartItemID uint, quantity int) error
	RemoveFromCart(userID, cartItemID uint) error
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo          repository.CartRepository
	productRepo       repository.ProductRepository
	variantRepo       repository.WeightVariantRepository
	shippingThreshold decimal.Decimal
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.WeightVariantRepository,
	freeShippingThreshold float64,
) CartService {
	return &cartService{
		cartRepo:          cartRepo,
		productRepo:       productRepo,
		variantRepo:       variantRepo,
		shippingThreshold: decimal.NewFromFloat(freeShippingThreshold),
	}
}

func (s *cartService) GetUserCart(userID uint) (*CartSummary, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	summary := &CartSummary{
		Items:    cartItems,
		Subtotal: decimal.Zero,
	}
	for _, item := range cartItems {
		unitPrice := item.Product.Price
		if item.Variant != nil {
			unitPrice = item.Variant.Price
		}
		lineTotal := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
		summary.Subtotal = summary.Subtotal.Add(lineTotal)
		summary.ItemCount += item.Quantity
	}
	summary.FreeShipping = cart.EvaluateFreeShipping(summary.Subtotal, s.shippingThreshold)

	logger.Info("User cart fetched successfully", map[string]interface{}{
		"user_id":    userID,
		"line_count": len(cartItems),
		"item_count": summary.ItemCount,
		"subtotal":   summary.Subtotal,
	})
	return summary, nil
}

// resolveLine validates the product and optional variant, returning the
// stock ceiling for the line.
func (s *cartService) resolveLine(productID uint, variantID *uint) (*model.Product, *model.WeightVariant, int, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found for cart line", map[string]interface{}{
				"product_id": productID,
			})
			return nil, nil, 0, ErrProductNotFound
		}
		logger.Error("Failed to fetch product for cart line", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, nil, 0, err
	}

	if variantID == nil {
		return product, nil, product.StockQuantity, nil
	}

	variant, err := s.variantRepo.FindByID(*variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Weight variant not found for cart line", map[string]interface{}{
				"variant_id": *variantID,
			})
			return nil, nil, 0, ErrInvalidWeightVariant
		}
		logger.Error("Failed to fetch weight variant for cart line", err, map[string]interface{}{
			"variant_id": *variantID,
		})
		return nil, nil, 0, err
	}

	if variant.ProductID != productID {
		logger.Warn("Weight variant does not belong to product", map[string]interface{}{
			"product_id": productID,
			"variant_id": *variantID,
		})
		return nil, nil, 0, ErrInvalidWeightVariant
	}

	return product, variant, variant.StockQuantity, nil
}

func (s *cartService) AddToCart(userID, productID uint, variantID *uint, quantity int) error {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"variant_id": variantID,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return ErrInvalidQuantity
	}

	_, _, maxStock, err := s.resolveLine(productID, variantID)
	if err != nil {
		return err
	}

	existingItem, err := s.cartRepo.FindLine(userID, productID, variantID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart line", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	requestedQuantity := quantity
	if existingItem != nil {
		requestedQuantity = existingItem.Quantity + quantity
	}

	if maxStock < requestedQuantity {
		logger.Warn("Cannot add to cart: insufficient stock", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"variant_id": variantID,
			"requested":  requestedQuantity,
			"available":  maxStock,
		})
		return ErrInsufficientStock
	}

	if existingItem != nil {
		logger.Debug("Merging into existing cart line", map[string]interface{}{
			"cart_item_id": existingItem.ID,
			"old_qty":      existingItem.Quantity,
			"new_qty":      requestedQuantity,
		})
		existingItem.Quantity = requestedQuantity
		if err := s.cartRepo.Update(existingItem); err != nil {
			logger.Error("Failed to update cart line", err, map[string]interface{}{
				"cart_item_id": existingItem.ID,
			})
			return err
		}
		return nil
	}

	cartItem := &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	}

	if err := s.cartRepo.Create(cartItem); err != nil {
		// Concurrent add of the same line identity: the unique index
		// caught it, merge into the winner instead.
		if existing, findErr := s.cartRepo.FindLine(userID, productID, variantID); findErr == nil {
			merged := existing.Quantity + quantity
			if maxStock < merged {
				return ErrInsufficientStock
			}
			existing.Quantity = merged
			return s.cartRepo.Update(existing)
		}
		logger.Error("Failed to create cart line", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	logger.Info("Cart item added successfully", map[string]interface{}{
		"cart_item_id": cartItem.ID,
	})
	return nil
}

func (s *cartService) UpdateCartItem(userID, cartItemID uint, quantity int) error {
	logger.Info("Updating cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
		"quantity":     quantity,
	})

	if quantity < 1 {
		logger.Warn("Rejecting cart update with non-positive quantity", map[string]interface{}{
			"cart_item_id": cartItemID,
			"quantity":     quantity,
		})
		return ErrInvalidQuantity
	}

	cartItem, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found", map[string]interface{}{
				"cart_item_id": cartItemID,
			})
			return ErrCartItemNotFound
		}
		logger.Error("Failed to fetch cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	if cartItem.UserID != userID {
		logger.Warn("Cart item access denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"owner_id":     cartItem.UserID,
		})
		return ErrCartItemNotFound
	}

	_, _, maxStock, err := s.resolveLine(cartItem.ProductID, cartItem.VariantID)
	if err != nil {
		return err
	}

	if maxStock < quantity {
		logger.Warn("Cannot update cart item: insufficient stock", map[string]interface{}{
			"cart_item_id": cartItemID,
			"requested":    quantity,
			"available":    maxStock,
		})
		return ErrInsufficientStock
	}

	cartItem.Quantity = quantity
	if err := s.cartRepo.Update(cartItem); err != nil {
		logger.Error("Failed to update cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	logger.Info("Cart item updated successfully", map[string]interface{}{
		"cart_item_id": cartItemID,
	})
	return nil
}

func (s *cartService) RemoveFromCart(userID, cartItemID uint) error {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
	})

	cartItem, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Removing a line that is already gone is a success; delete
			// is idempotent on the wire.
			logger.Debug("Cart item already absent, removal is a no-op", map[string]interface{}{
				"cart_item_id": cartItemID,
			})
			return nil
		}
		logger.Error("Failed to fetch cart item for removal", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	if cartItem.UserID != userID {
		logger.Warn("Cart item removal denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"owner_id":     cartItem.UserID,
		})
		return ErrCartItemNotFound
	}

	if err := s.cartRepo.Delete(cartItemID); err != nil {
		logger.Error("Failed to delete cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"cart_item_id": cartItemID,
	})
	return nil
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing user cart", map[string]interface{}{
		"user_id": userID,
	})

	if err := s.cartRepo.DeleteByUserID(userID); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("User cart cleared", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
