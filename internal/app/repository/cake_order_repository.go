package repository

import (
	"time"

	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/pkg/logger"
	"gorm.io/gorm"
)

type CakeOrderFilter struct {
	Status        *model.CakeOrderStatus
	EventDateFrom *time.Time
	EventDateTo   *time.Time
	Limit         int
	Offset        int
}

type CakeOrderRepository interface {
	Create(cakeOrder *model.CakeOrder) error
	FindByID(id uint) (*model.CakeOrder, error)
	FindWithFilter(filter CakeOrderFilter) ([]model.CakeOrder, error)
	Update(cakeOrder *model.CakeOrder) error
	UpdateStatus(id uint, status model.CakeOrderStatus) error
}

type cakeOrderRepository struct {
	db *gorm.DB
}

func NewCakeOrderRepository(db *gorm.DB) CakeOrderRepository {
	return &cakeOrderRepository{db: db}
}

func (r *cakeOrderRepository) Create(cakeOrder *model.CakeOrder) error {
	logger.Debug("Creating cake order in database", map[string]interface{}{
		"customer_name": cakeOrder.CustomerName,
		"event_date":    cakeOrder.EventDate,
		"servings":      cakeOrder.Servings,
	})

	if err := r.db.Create(cakeOrder).Error; err != nil {
		logger.Error("Failed to create cake order in database", err, map[string]interface{}{
			"customer_name": cakeOrder.CustomerName,
		})
		return err
	}

	logger.Debug("Cake order created in database", map[string]interface{}{
		"cake_order_id": cakeOrder.ID,
		"customer_name": cakeOrder.CustomerName,
	})
	return nil
}

func (r *cakeOrderRepository) FindByID(id uint) (*model.CakeOrder, error) {
	logger.Debug("Finding cake order by ID in database", map[string]interface{}{
		"cake_order_id": id,
	})

	var cakeOrder model.CakeOrder
	if err := r.db.Preload("Flavor").First(&cakeOrder, id).Error; err != nil {
		logger.Error("Failed to find cake order by ID in database", err, map[string]interface{}{
			"cake_order_id": id,
		})
		return nil, err
	}

	logger.Debug("Cake order found by ID in database", map[string]interface{}{
		"cake_order_id": cakeOrder.ID,
		"status":        cakeOrder.Status,
	})
	return &cakeOrder, nil
}

func (r *cakeOrderRepository) FindWithFilter(filter CakeOrderFilter) ([]model.CakeOrder, error) {
	logger.Debug("Finding cake orders with filter", map[string]interface{}{
		"status":          filter.Status,
		"event_date_from": filter.EventDateFrom,
		"event_date_to":   filter.EventDateTo,
		"limit":           filter.Limit,
		"offset":          filter.Offset,
	})

	query := r.db.Preload("Flavor").Order("event_date ASC")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.EventDateFrom != nil {
		query = query.Where("event_date >= ?", *filter.EventDateFrom)
	}
	if filter.EventDateTo != nil {
		query = query.Where("event_date < ?", *filter.EventDateTo)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var cakeOrders []model.CakeOrder
	if err := query.Find(&cakeOrders).Error; err != nil {
		logger.Error("Failed to find cake orders with filter", err, map[string]interface{}{
			"status": filter.Status,
		})
		return nil, err
	}

	logger.Debug("Cake orders found with filter", map[string]interface{}{
		"count": len(cakeOrders),
	})
	return cakeOrders, nil
}

func (r *cakeOrderRepository) Update(cakeOrder *model.CakeOrder) error {
	logger.Debug("Updating cake order in database", map[string]interface{}{
		"cake_order_id": cakeOrder.ID,
		"status":        cakeOrder.Status,
	})

	if err := r.db.Save(cakeOrder).Error; err != nil {
		logger.Error("Failed to update cake order in database", err, map[string]interface{}{
			"cake_order_id": cakeOrder.ID,
		})
		return err
	}

	logger.Debug("Cake order updated in database", map[string]interface{}{
		"cake_order_id": cakeOrder.ID,
	})
	return nil
}

func (r *cakeOrderRepository) UpdateStatus(id uint, status model.CakeOrderStatus) error {
	logger.Debug("Updating cake order status in database", map[string]interface{}{
		"cake_order_id": id,
		"status":        status,
	})

	if err := r.db.Model(&model.CakeOrder{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		logger.Error("Failed to update cake order status in database", err, map[string]interface{}{
			"cake_order_id": id,
			"status":        status,
		})
		return err
	}

	logger.Debug("Cake order status updated in database", map[string]interface{}{
		"cake_order_id": id,
		"status":        status,
	})
	return nil
}
