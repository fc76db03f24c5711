package repository

import (
	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/pkg/logger"
	"gorm.io/gorm"
)

type WeightVariantRepository interface {
	Create(variant *model.WeightVariant) error
	FindByID(id uint) (*model.WeightVariant, error)
	FindByProductID(productID uint) ([]model.WeightVariant, error)
	Update(variant *model.WeightVariant) error
	AdjustStock(id uint, delta int) error
	Delete(id uint) error
}

type weightVariantRepository struct {
	db *gorm.DB
}

func NewWeightVariantRepository(db *gorm.DB) WeightVariantRepository {
	return &weightVariantRepository{db: db}
}

func (r *weightVariantRepository) Create(variant *model.WeightVariant) error {
	logger.Debug("Creating weight variant", map[string]interface{}{
		"product_id": variant.ProductID,
		"label":      variant.Label,
		"price":      variant.Price,
	})

	if err := r.db.Create(variant).Error; err != nil {
		logger.Error("Failed to create weight variant", err, map[string]interface{}{
			"product_id": variant.ProductID,
			"label":      variant.Label,
		})
		return err
	}

	logger.Debug("Weight variant created", map[string]interface{}{
		"variant_id": variant.ID,
		"product_id": variant.ProductID,
	})
	return nil
}

func (r *weightVariantRepository) FindByID(id uint) (*model.WeightVariant, error) {
	logger.Debug("Finding weight variant by ID", map[string]interface{}{
		"variant_id": id,
	})

	var variant model.WeightVariant
	if err := r.db.First(&variant, id).Error; err != nil {
		logger.Error("Failed to find weight variant", err, map[string]interface{}{
			"variant_id": id,
		})
		return nil, err
	}

	logger.Debug("Weight variant found", map[string]interface{}{
		"variant_id": variant.ID,
		"product_id": variant.ProductID,
	})
	return &variant, nil
}

func (r *weightVariantRepository) FindByProductID(productID uint) ([]model.WeightVariant, error) {
	logger.Debug("Finding weight variants by product", map[string]interface{}{
		"product_id": productID,
	})

	var variants []model.WeightVariant
	if err := r.db.Where("product_id = ?", productID).Order("price ASC").Find(&variants).Error; err != nil {
		logger.Error("Failed to find weight variants", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	logger.Debug("Weight variants found", map[string]interface{}{
		"product_id": productID,
		"count":      len(variants),
	})
	return variants, nil
}

func (r *weightVariantRepository) Update(variant *model.WeightVariant) error {
	logger.Debug("Updating weight variant", map[string]interface{}{
		"variant_id": variant.ID,
	})

	if err := r.db.Save(variant).Error; err != nil {
		logger.Error("Failed to update weight variant", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		return err
	}

	logger.Debug("Weight variant updated", map[string]interface{}{
		"variant_id": variant.ID,
	})
	return nil
}

func (r *weightVariantRepository) AdjustStock(id uint, delta int) error {
	logger.Debug("Adjusting weight variant stock", map[string]interface{}{
		"variant_id": id,
		"delta":      delta,
	})

	if err := r.db.Model(&model.WeightVariant{}).Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta)).Error; err != nil {
		logger.Error("Failed to adjust weight variant stock", err, map[string]interface{}{
			"variant_id": id,
			"delta":      delta,
		})
		return err
	}

	logger.Debug("Weight variant stock adjusted", map[string]interface{}{
		"variant_id": id,
		"delta":      delta,
	})
	return nil
}

func (r *weightVariantRepository) Delete(id uint) error {
	logger.Debug("Deleting weight variant", map[string]interface{}{
		"variant_id": id,
	})

	if err := r.db.Delete(&model.WeightVariant{}, id).Error; err != nil {
		logger.Error("Failed to delete weight variant", err, map[string]interface{}{
			"variant_id": id,
		})
		return err
	}

	logger.Debug("Weight variant deleted", map[string]interface{}{
		"variant_id": id,
	})
	return nil
}
