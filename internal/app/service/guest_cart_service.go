package service

import (
	"context"
	"errors"

	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/internal/cart"
	"github.com/avasquez/dulceria-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PersisterFactory builds the persistence slot for one guest token.
type PersisterFactory func(token string) cart.Persister

// GuestCartView is the session cart plus derived aggregates, returned
// from every guest cart operation so the storefront never recomputes
// totals itself.
type GuestCartView struct {
	Lines        []cart.Line             `json:"lines"`
	ItemCount    int                     `json:"item_count"`
	Subtotal     decimal.Decimal         `json:"subtotal"`
	FreeShipping cart.FreeShippingStatus `json:"free_shipping"`
}

type GuestCartService interface {
	GetCart(ctx context.Context, token string) (*GuestCartView, error)
	AddItem(ctx context.Context, token string, productID uint, variantID *uint, quantity int) (*GuestCartView, error)
	UpdateItem(ctx context.Context, token string, productID uint, weightVariant string, quantity int) (*GuestCartView, error)
	RemoveItem(ctx context.Context, token string, productID uint, weightVariant string) (*GuestCartView, error)
	ClearCart(ctx context.Context, token string) error
}

type guestCartService struct {
	productRepo       repository.ProductRepository
	variantRepo       repository.WeightVariantRepository
	persisterFor      PersisterFactory
	shippingThreshold decimal.Decimal
}

func NewGuestCartService(
	productRepo repository.ProductRepository,
	variantRepo repository.WeightVariantRepository,
	persisterFor PersisterFactory,
	freeShippingThreshold float64,
) GuestCartService {
	return &guestCartService{
		productRepo:       productRepo,
		variantRepo:       variantRepo,
		persisterFor:      persisterFor,
		shippingThreshold: decimal.NewFromFloat(freeShippingThreshold),
	}
}

// load rehydrates the token's cart from its persistence slot. Each request
// gets its own load-modify-save cycle with no cross-request serialization,
// so concurrent writes under one guest token are last-write-wins. A token
// names a single anonymous browser session, so that shape is not expected.
func (s *guestCartService) load(ctx context.Context, token string) *cart.Store {
	return cart.NewStore(ctx, s.persisterFor(token))
}

func (s *guestCartService) view(store *cart.Store) *GuestCartView {
	subtotal := store.Subtotal()
	return &GuestCartView{
		Lines:        store.Lines(),
		ItemCount:    store.ItemCount(),
		Subtotal:     subtotal,
		FreeShipping: cart.EvaluateFreeShipping(subtotal, s.shippingThreshold),
	}
}

func (s *guestCartService) GetCart(ctx context.Context, token string) (*GuestCartView, error) {
	logger.Debug("Fetching guest cart", map[string]interface{}{
		"token": token,
	})
	return s.view(s.load(ctx, token)), nil
}

func (s *guestCartService) AddItem(ctx context.Context, token string, productID uint, variantID *uint, quantity int) (*GuestCartView, error) {
	logger.Info("Adding item to guest cart", map[string]interface{}{
		"token":      token,
		"product_id": productID,
		"variant_id": variantID,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found for guest cart", map[string]interface{}{
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product for guest cart", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	// Price and stock ceiling are captured into the line at add time.
	label := ""
	unitPrice := decimal.NewFromFloat(product.Price)
	maxStock := product.StockQuantity

	if variantID != nil {
		variant, err := s.variantRepo.FindByID(*variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidWeightVariant
			}
			logger.Error("Failed to fetch weight variant for guest cart", err, map[string]interface{}{
				"variant_id": *variantID,
			})
			return nil, err
		}
		if variant.ProductID != productID {
			logger.Warn("Weight variant does not belong to product", map[string]interface{}{
				"product_id": productID,
				"variant_id": *variantID,
			})
			return nil, ErrInvalidWeightVariant
		}
		label = variant.Label
		unitPrice = decimal.NewFromFloat(variant.Price)
		maxStock = variant.StockQuantity
	}

	store := s.load(ctx, token)
	line, err := store.AddItem(ctx, productID, label, quantity, unitPrice, maxStock)
	if err != nil {
		logger.Error("Failed to add item to guest cart", err, map[string]interface{}{
			"token":      token,
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Guest cart item added", map[string]interface{}{
		"token":    token,
		"line_id":  line.ID,
		"quantity": line.Quantity,
	})
	return s.view(store), nil
}

func (s *guestCartService) UpdateItem(ctx context.Context, token string, productID uint, weightVariant string, quantity int) (*GuestCartView, error) {
	logger.Info("Updating guest cart item", map[string]interface{}{
		"token":          token,
		"product_id":     productID,
		"weight_variant": weightVariant,
		"quantity":       quantity,
	})

	store := s.load(ctx, token)
	if err := store.UpdateQuantity(ctx, productID, weightVariant, quantity); err != nil {
		logger.Error("Failed to update guest cart item", err, map[string]interface{}{
			"token":      token,
			"product_id": productID,
		})
		return nil, err
	}
	return s.view(store), nil
}

func (s *guestCartService) RemoveItem(ctx context.Context, token string, productID uint, weightVariant string) (*GuestCartView, error) {
	logger.Info("Removing guest cart item", map[string]interface{}{
		"token":          token,
		"product_id":     productID,
		"weight_variant": weightVariant,
	})

	store := s.load(ctx, token)
	if err := store.RemoveItem(ctx, productID, weightVariant); err != nil {
		logger.Error("Failed to remove guest cart item", err, map[string]interface{}{
			"token":      token,
			"product_id": productID,
		})
		return nil, err
	}
	return s.view(store), nil
}

func (s *guestCartService) ClearCart(ctx context.Context, token string) error {
	logger.Info("Clearing guest cart", map[string]interface{}{
		"token": token,
	})

	store := s.load(ctx, token)
	if err := store.Clear(ctx); err != nil {
		logger.Error("Failed to clear guest cart", err, map[string]interface{}{
			"token": token,
		})
		return err
	}
	return nil
}
