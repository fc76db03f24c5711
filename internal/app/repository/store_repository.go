package repository

import (
	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreFilter struct {
	ActiveOnly bool
	Search     string
}

type StoreRepository interface {
	Create(store *model.Store) error
	FindAll(filter StoreFilter) ([]model.Store, error)
	FindByID(id uint, includeProducts bool) (*model.Store, error)
	FindBySlug(slug string) (*model.Store, error)
	Update(store *model.Store) error
	Delete(id uint) error
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name": store.Name,
		"slug": store.Slug,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name": store.Name,
			"slug": store.Slug,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return nil
}

func (r *storeRepository) FindAll(filter StoreFilter) ([]model.Store, error) {
	logger.Debug("Finding stores", map[string]interface{}{
		"active_only": filter.ActiveOnly,
		"search":      filter.Search,
	})

	query := r.db.Model(&model.Store{}).Order("name ASC")
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR address LIKE ?", like, like)
	}

	var stores []model.Store
	if err := query.Find(&stores).Error; err != nil {
		logger.Error("Failed to find stores", err, map[string]interface{}{
			"active_only": filter.ActiveOnly,
		})
		return nil, err
	}

	logger.Debug("Stores found", map[string]interface{}{
		"count": len(stores),
	})
	return stores, nil
}

func (r *storeRepository) FindByID(id uint, includeProducts bool) (*model.Store, error) {
	logger.Debug("Finding store by ID", map[string]interface{}{
		"store_id":         id,
		"include_products": includeProducts,
	})

	query := r.db
	if includeProducts {
		query = query.Preload("Products").Preload("Products.Variants")
	}

	var store model.Store
	if err := query.First(&store, id).Error; err != nil {
		logger.Error("Failed to find store", err, map[string]interface{}{
			"store_id": id,
		})
		return nil, err
	}

	logger.Debug("Store found", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return &store, nil
}

func (r *storeRepository) FindBySlug(slug string) (*model.Store, error) {
	logger.Debug("Finding store by slug", map[string]interface{}{
		"slug": slug,
	})

	var store model.Store
	if err := r.db.Where("slug = ?", slug).First(&store).Error; err != nil {
		logger.Error("Failed to find store by slug", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}

	logger.Debug("Store found by slug", map[string]interface{}{
		"store_id": store.ID,
		"slug":     slug,
	})
	return &store, nil
}

func (r *storeRepository) Update(store *model.Store) error {
	logger.Debug("Updating store in database", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})

	if err := r.db.Save(store).Error; err != nil {
		logger.Error("Failed to update store in database", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return err
	}

	logger.Debug("Store updated in database", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return nil
}

func (r *storeRepository) Delete(id uint) error {
	logger.Debug("Deleting store from database", map[string]interface{}{
		"store_id": id,
	})

	if err := r.db.Delete(&model.Store{}, id).Error; err != nil {
		logger.Error("Failed to delete store from database", err, map[string]interface{}{
			"store_id": id,
		})
		return err
	}

	logger.Debug("Store deleted from database", map[string]interface{}{
		"store_id": id,
	})
	return nil
}
