package repository

import (
	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/pkg/logger"
	"gorm.io/gorm"
)

type UnitRepository interface {
	Create(unit *model.Unit) error
	FindAll() ([]model.Unit, error)
	FindByID(id uint) (*model.Unit, error)
	Update(unit *model.Unit) error
	Delete(id uint) error
}

type unitRepository struct {
	db *gorm.DB
}

func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) Create(unit *model.Unit) error {
	logger.Debug("Creating unit in database", map[string]interface{}{
		"name": unit.Name,
	})

	if err := r.db.Create(unit).Error; err != nil {
		logger.Error("Failed to create unit in database", err, map[string]interface{}{
			"name": unit.Name,
		})
		return err
	}

	logger.Debug("Unit created in database", map[string]interface{}{
		"unit_id": unit.ID,
		"name":    unit.Name,
	})
	return nil
}

func (r *unitRepository) FindAll() ([]model.Unit, error) {
	logger.Debug("Finding all units in database", nil)

	var units []model.Unit
	if err := r.db.Order("name ASC").Find(&units).Error; err != nil {
		logger.Error("Failed to find units in database", err, nil)
		return nil, err
	}

	logger.Debug("Units found in database", map[string]interface{}{
		"count": len(units),
	})
	return units, nil
}

func (r *unitRepository) FindByID(id uint) (*model.Unit, error) {
	logger.Debug("Finding unit by ID in database", map[string]interface{}{
		"unit_id": id,
	})

	var unit model.Unit
	if err := r.db.First(&unit, id).Error; err != nil {
		logger.Error("Failed to find unit by ID in database", err, map[string]interface{}{
			"unit_id": id,
		})
		return nil, err
	}

	logger.Debug("Unit found by ID in database", map[string]interface{}{
		"unit_id": unit.ID,
		"name":    unit.Name,
	})
	return &unit, nil
}

func (r *unitRepository) Update(unit *model.Unit) error {
	logger.Debug("Updating unit in database", map[string]interface{}{
		"unit_id": unit.ID,
		"name":    unit.Name,
	})

	if err := r.db.Save(unit).Error; err != nil {
		logger.Error("Failed to update unit in database", err, map[string]interface{}{
			"unit_id": unit.ID,
		})
		return err
	}

	logger.Debug("Unit updated in database", map[string]interface{}{
		"unit_id": unit.ID,
	})
	return nil
}

func (r *unitRepository) Delete(id uint) error {
	logger.Debug("Deleting unit from database", map[string]interface{}{
		"unit_id": id,
	})

	if err := r.db.Delete(&model.Unit{}, id).Error; err != nil {
		logger.Error("Failed to delete unit from database", err, map[string]interface{}{
			"unit_id": id,
		})
		return err
	}

	logger.Debug("Unit deleted from database", map[string]interface{}{
		"unit_id": id,
	})
	return nil
}
