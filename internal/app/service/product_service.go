package service

import (
	"errors"

	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrInvalidWeightVariant = errors.New("invalid weight variant")
	ErrCategoryNotFound     = errors.New("category not found")
)

type ProductListOptions struct {
	CategoryID    *uint
	StoreID       *uint
	Search        string
	FeaturedOnly  bool
	InStockOnly   bool
	SortBy        repository.ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

type ProductService interface {
	ListProducts(opts ProductListOptions) ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	GetProductsByCategorySlug(slug string) ([]model.Product, error)
	GetFeaturedProducts(limit int) ([]model.Product, error)
	CreateProduct(product *model.Product) error
	UpdateProduct(product *model.Product) error
	DeleteProduct(id uint) error
	AddVariant(variant *model.WeightVariant) error
	UpdateVariant(variant *model.WeightVariant) error
	DeleteVariant(productID, variantID uint) error
	CheckStock(productID uint, variantID *uint, quantity int) error
}

type productService struct {
	productRepo  repository.ProductRepository
	variantRepo  repository.WeightVariantRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	variantRepo repository.WeightVariantRepository,
	categoryRepo repository.CategoryRepository,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) ListProducts(opts ProductListOptions) ([]model.Product, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"category_id": opts.CategoryID,
		"store_id":    opts.StoreID,
		"search":      opts.Search,
		"limit":       opts.Limit,
		"offset":      opts.Offset,
	})

	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		CategoryID:      opts.CategoryID,
		StoreID:         opts.StoreID,
		Search:          opts.Search,
		FeaturedOnly:    opts.FeaturedOnly,
		InStockOnly:     opts.InStockOnly,
		SortBy:          opts.SortBy,
		SortAscending:   opts.SortAscending,
		Limit:           opts.Limit,
		Offset:          opts.Offset,
		IncludeVariants: true,
	})
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}

	logger.Info("Products listed", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	logger.Debug("Fetching product", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	// Detail views count toward popularity; a failure here must not
	// break the read path. The response carries the post-increment
	// count without a second fetch.
	if err := s.productRepo.IncrementViewCount(id); err != nil {
		logger.Warn("Failed to increment product view count", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
	} else {
		product.ViewCount++
	}

	return product, nil
}

func (s *productService) GetProductsByCategorySlug(slug string) ([]model.Product, error) {
	logger.Debug("Fetching products by category slug", map[string]interface{}{
		"slug": slug,
	})

	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Category not found", map[string]interface{}{
				"slug": slug,
			})
			return nil, ErrCategoryNotFound
		}
		logger.Error("Failed to fetch category by slug", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}

	return s.ListProducts(ProductListOptions{CategoryID: &category.ID})
}

func (s *productService) GetFeaturedProducts(limit int) ([]model.Product, error) {
	return s.ListProducts(ProductListOptions{
		FeaturedOnly: true,
		InStockOnly:  true,
		Limit:        limit,
	})
}

func (s *productService) CreateProduct(product *model.Product) error {
	logger.Info("Creating product", map[string]interface{}{
		"name":        product.Name,
		"category_id": product.CategoryID,
		"store_id":    product.StoreID,
	})

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (s *productService) UpdateProduct(product *model.Product) error {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": product.ID,
	})

	if _, err := s.productRepo.FindByID(product.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		logger.Error("Failed to check product existence", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		logger.Error("Failed to check product existence", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *productService) AddVariant(variant *model.WeightVariant) error {
	logger.Info("Adding weight variant", map[string]interface{}{
		"product_id": variant.ProductID,
		"label":      variant.Label,
	})

	if _, err := s.productRepo.FindByID(variant.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if err := s.variantRepo.Create(variant); err != nil {
		logger.Error("Failed to add weight variant", err, map[string]interface{}{
			"product_id": variant.ProductID,
		})
		return err
	}

	logger.Info("Weight variant added", map[string]interface{}{
		"variant_id": variant.ID,
		"product_id": variant.ProductID,
	})
	return nil
}

func (s *productService) UpdateVariant(variant *model.WeightVariant) error {
	logger.Info("Updating weight variant", map[string]interface{}{
		"variant_id": variant.ID,
	})

	existing, err := s.variantRepo.FindByID(variant.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidWeightVariant
		}
		return err
	}
	if existing.ProductID != variant.ProductID {
		return ErrInvalidWeightVariant
	}

	if err := s.variantRepo.Update(variant); err != nil {
		logger.Error("Failed to update weight variant", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		return err
	}

	logger.Info("Weight variant updated", map[string]interface{}{
		"variant_id": variant.ID,
	})
	return nil
}

func (s *productService) DeleteVariant(productID, variantID uint) error {
	logger.Info("Deleting weight variant", map[string]interface{}{
		"product_id": productID,
		"variant_id": variantID,
	})

	variant, err := s.variantRepo.FindByID(variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidWeightVariant
		}
		return err
	}
	if variant.ProductID != productID {
		return ErrInvalidWeightVariant
	}

	if err := s.variantRepo.Delete(variantID); err != nil {
		logger.Error("Failed to delete weight variant", err, map[string]interface{}{
			"variant_id": variantID,
		})
		return err
	}

	logger.Info("Weight variant deleted", map[string]interface{}{
		"variant_id": variantID,
	})
	return nil
}

// CheckStock verifies that quantity of the given line is available.
func (s *productService) CheckStock(productID uint, variantID *uint, quantity int) error {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if variantID == nil {
		if product.StockQuantity < quantity {
			return ErrInsufficientStock
		}
		return nil
	}

	variant, err := s.variantRepo.FindByID(*variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidWeightVariant
		}
		return err
	}
	if variant.ProductID != productID {
		return ErrInvalidWeightVariant
	}
	if variant.StockQuantity < quantity {
		return ErrInsufficientStock
	}
	return nil
}
