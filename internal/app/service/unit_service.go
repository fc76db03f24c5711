package service

import (
	"errors"

	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrUnitNotFound = errors.New("unit not found")

type UnitService interface {
	ListUnits() ([]model.Unit, error)
	GetUnitByID(id uint) (*model.Unit, error)
	CreateUnit(unit *model.Unit) error
	UpdateUnit(unit *model.Unit) error
	DeleteUnit(id uint) error
}

type unitService struct {
	unitRepo repository.UnitRepository
}

func NewUnitService(unitRepo repository.UnitRepository) UnitService {
	return &unitService{unitRepo: unitRepo}
}

func (s *unitService) ListUnits() ([]model.Unit, error) {
	units, err := s.unitRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list units", err, nil)
		return nil, err
	}
	return units, nil
}

func (s *unitService) GetUnitByID(id uint) (*model.Unit, error) {
	unit, err := s.unitRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		logger.Error("Failed to fetch unit", err, map[string]interface{}{
			"unit_id": id,
		})
		return nil, err
	}
	return unit, nil
}

func (s *unitService) CreateUnit(unit *model.Unit) error {
	logger.Info("Creating unit", map[string]interface{}{
		"name": unit.Name,
	})

	if err := s.unitRepo.Create(unit); err != nil {
		logger.Error("Failed to create unit", err, map[string]interface{}{
			"name": unit.Name,
		})
		return err
	}
	return nil
}

func (s *unitService) UpdateUnit(unit *model.Unit) error {
	logger.Info("Updating unit", map[string]interface{}{
		"unit_id": unit.ID,
	})

	if _, err := s.unitRepo.FindByID(unit.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnitNotFound
		}
		return err
	}

	if err := s.unitRepo.Update(unit); err != nil {
		logger.Error("Failed to update unit", err, map[string]interface{}{
			"unit_id": unit.ID,
		})
		return err
	}
	return nil
}

func (s *unitService) DeleteUnit(id uint) error {
	logger.Info("Deleting unit", map[string]interface{}{
		"unit_id": id,
	})

	if _, err := s.unitRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnitNotFound
		}
		return err
	}

	if err := s.unitRepo.Delete(id); err != nil {
		logger.Error("Failed to delete unit", err, map[string]interface{}{
			"unit_id": id,
		})
		return err
	}
	return nil
}
