package service

import (
	"errors"

	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrStoreNotFound = errors.New("store not found")

type StoreService interface {
	ListStores(activeOnly bool, search string) ([]model.Store, error)
	GetStoreByID(id uint, includeProducts bool) (*model.Store, error)
	GetStoreBySlug(slug string) (*model.Store, error)
	CreateStore(store *model.Store) error
	UpdateStore(store *model.Store) error
	DeleteStore(id uint) error
}

type storeService struct {
	storeRepo repository.StoreRepository
}

func NewStoreService(storeRepo repository.StoreRepository) StoreService {
	return &storeService{storeRepo: storeRepo}
}

func (s *storeService) ListStores(activeOnly bool, search string) ([]model.Store, error) {
	logger.Debug("Listing stores", map[string]interface{}{
		"active_only": activeOnly,
		"search":      search,
	})

	stores, err := s.storeRepo.FindAll(repository.StoreFilter{
		ActiveOnly: activeOnly,
		Search:     search,
	})
	if err != nil {
		logger.Error("Failed to list stores", err, nil)
		return nil, err
	}
	return stores, nil
}

func (s *storeService) GetStoreByID(id uint, includeProducts bool) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id, includeProducts)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		logger.Error("Failed to fetch store", err, map[string]interface{}{
			"store_id": id,
		})
		return nil, err
	}
	return store, nil
}

func (s *storeService) GetStoreBySlug(slug string) (*model.Store, error) {
	store, err := s.storeRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		logger.Error("Failed to fetch store by slug", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return store, nil
}

func (s *storeService) CreateStore(store *model.Store) error {
	if store.Slug == "" {
		store.Slug = slugify(store.Name)
	}

	logger.Info("Creating store", map[string]interface{}{
		"name": store.Name,
		"slug": store.Slug,
	})

	if err := s.storeRepo.Create(store); err != nil {
		logger.Error("Failed to create store", err, map[string]interface{}{
			"name": store.Name,
		})
		return err
	}
	return nil
}

func (s *storeService) UpdateStore(store *model.Store) error {
	logger.Info("Updating store", map[string]interface{}{
		"store_id": store.ID,
	})

	if _, err := s.storeRepo.FindByID(store.ID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreNotFound
		}
		return err
	}

	if err := s.storeRepo.Update(store); err != nil {
		logger.Error("Failed to update store", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return err
	}
	return nil
}

func (s *storeService) DeleteStore(id uint) error {
	logger.Info("Deleting store", map[string]interface{}{
		"store_id": id,
	})

	if _, err := s.storeRepo.FindByID(id, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreNotFound
		}
		return err
	}

	if err := s.storeRepo.Delete(id); err != nil {
		logger.Error("Failed to delete store", err, map[string]interface{}{
			"store_id": id,
		})
		return err
	}
	return nil
}
