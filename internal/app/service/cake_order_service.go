package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCakeOrderNotFound      = errors.New("cake order not found")
	ErrInvalidCakeOrder       = errors.New("invalid cake order request")
	ErrInvalidStatusTransition = errors.New("invalid cake order status transition")
)

// cakeStatusTransitions defines which statuses each status may move to.
var cakeStatusTransitions = map[model.CakeOrderStatus][]model.CakeOrderStatus{
	model.CakeOrderReceived:  {model.CakeOrderQuoted, model.CakeOrderCancelled},
	model.CakeOrderQuoted:    {model.CakeOrderConfirmed, model.CakeOrderCancelled},
	model.CakeOrderConfirmed: {model.CakeOrderBaking, model.CakeOrderCancelled},
	model.CakeOrderBaking:    {model.CakeOrderReady, model.CakeOrderCancelled},
	model.CakeOrderReady:     {model.CakeOrderCollected},
	model.CakeOrderCollected: {},
	model.CakeOrderCancelled: {},
}

type CakeOrderRequest struct {
	CustomerName string
	Phone        string
	Email        string
	EventDate    time.Time
	Servings     int
	FlavorID     *uint
	Inscription  string
	Notes        string
	ImageURLs    []string
}

type CakeOrderService interface {
	SubmitCakeOrder(req CakeOrderRequest) (*model.CakeOrder, error)
	GetCakeOrderByID(id uint) (*model.CakeOrder, error)
	ListCakeOrders(filter repository.CakeOrderFilter) ([]model.CakeOrder, error)
	QuoteCakeOrder(id uint, price float64) (*model.CakeOrder, error)
	UpdateCakeOrderStatus(id uint, status model.CakeOrderStatus) error
}

type cakeOrderService struct {
	cakeOrderRepo repository.CakeOrderRepository
	productRepo   repository.ProductRepository
}

func NewCakeOrderService(
	cakeOrderRepo repository.CakeOrderRepository,
	productRepo repository.ProductRepository,
) CakeOrderService {
	return &cakeOrderService{
		cakeOrderRepo: cakeOrderRepo,
		productRepo:   productRepo,
	}
}

func (s *cakeOrderService) SubmitCakeOrder(req CakeOrderRequest) (*model.CakeOrder, error) {
	logger.Info("Submitting cake order", map[string]interface{}{
		"customer_name": req.CustomerName,
		"event_date":    req.EventDate,
		"servings":      req.Servings,
	})

	if req.CustomerName == "" || req.Phone == "" {
		return nil, ErrInvalidCakeOrder
	}
	if req.Servings < 1 {
		return nil, ErrInvalidCakeOrder
	}
	if !req.EventDate.After(time.Now()) {
		logger.Warn("Cake order rejected: event date not in the future", map[string]interface{}{
			"event_date": req.EventDate,
		})
		return nil, ErrInvalidCakeOrder
	}

	if req.FlavorID != nil {
		if _, err := s.productRepo.FindByID(*req.FlavorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to validate cake flavor", err, map[string]interface{}{
				"flavor_id": *req.FlavorID,
			})
			return nil, err
		}
	}

	imageURLs := "[]"
	if len(req.ImageURLs) > 0 {
		raw, err := json.Marshal(req.ImageURLs)
		if err != nil {
			return nil, err
		}
		imageURLs = string(raw)
	}

	cakeOrder := &model.CakeOrder{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Email:        req.Email,
		EventDate:    req.EventDate,
		Servings:     req.Servings,
		FlavorID:     req.FlavorID,
		Inscription:  req.Inscription,
		Notes:        req.Notes,
		ImageURLs:    imageURLs,
		Status:       model.CakeOrderReceived,
	}

	if err := s.cakeOrderRepo.Create(cakeOrder); err != nil {
		logger.Error("Failed to create cake order", err, map[string]interface{}{
			"customer_name": req.CustomerName,
		})
		return nil, err
	}

	logger.Info("Cake order submitted", map[string]interface{}{
		"cake_order_id": cakeOrder.ID,
	})
	return cakeOrder, nil
}

func (s *cakeOrderService) GetCakeOrderByID(id uint) (*model.CakeOrder, error) {
	cakeOrder, err := s.cakeOrderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCakeOrderNotFound
		}
		logger.Error("Failed to fetch cake order", err, map[string]interface{}{
			"cake_order_id": id,
		})
		return nil, err
	}
	return cakeOrder, nil
}

func (s *cakeOrderService) ListCakeOrders(filter repository.CakeOrderFilter) ([]model.CakeOrder, error) {
	cakeOrders, err := s.cakeOrderRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list cake orders", err, nil)
		return nil, err
	}
	return cakeOrders, nil
}

func (s *cakeOrderService) QuoteCakeOrder(id uint, price float64) (*model.CakeOrder, error) {
	logger.Info("Quoting cake order", map[string]interface{}{
		"cake_order_id": id,
		"price":         price,
	})

	if price <= 0 {
		return nil, ErrInvalidCakeOrder
	}

	cakeOrder, err := s.GetCakeOrderByID(id)
	if err != nil {
		return nil, err
	}

	if cakeOrder.Status != model.CakeOrderReceived && cakeOrder.Status != model.CakeOrderQuoted {
		logger.Warn("Cake order cannot be quoted in its current status", map[string]interface{}{
			"cake_order_id": id,
			"status":        cakeOrder.Status,
		})
		return nil, ErrInvalidStatusTransition
	}

	cakeOrder.QuotedPrice = &price
	cakeOrder.Status = model.CakeOrderQuoted

	if err := s.cakeOrderRepo.Update(cakeOrder); err != nil {
		logger.Error("Failed to quote cake order", err, map[string]interface{}{
			"cake_order_id": id,
		})
		return nil, err
	}

	logger.Info("Cake order quoted", map[string]interface{}{
		"cake_order_id": id,
		"price":         price,
	})
	return cakeOrder, nil
}

func (s *cakeOrderService) UpdateCakeOrderStatus(id uint, status model.CakeOrderStatus) error {
	logger.Info("Updating cake order status", map[string]interface{}{
		"cake_order_id": id,
		"new_status":    status,
	})

	cakeOrder, err := s.GetCakeOrderByID(id)
	if err != nil {
		return err
	}

	allowed := false
	for _, next := range cakeStatusTransitions[cakeOrder.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		logger.Warn("Rejected cake order status transition", map[string]interface{}{
			"cake_order_id": id,
			"from":          cakeOrder.Status,
			"to":            status,
		})
		return ErrInvalidStatusTransition
	}

	if err := s.cakeOrderRepo.UpdateStatus(id, status); err != nil {
		logger.Error("Failed to update cake order status", err, map[string]interface{}{
			"cake_order_id": id,
		})
		return err
	}

	logger.Info("Cake order status updated", map[string]interface{}{
		"cake_order_id": id,
		"status":        status,
	})
	return nil
}
