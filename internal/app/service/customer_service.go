package service

import (
	"errors"

	"github.com/avasquez/dulceria-backend/internal/app/model"
	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrCustomerNotFound = errors.New("customer not found")

type CustomerService interface {
	ListCustomers(search string, limit, offset int) ([]model.Customer, error)
	GetCustomerByID(id uint) (*model.Customer, error)
	CreateCustomer(customer *model.Customer) error
	UpdateCustomer(customer *model.Customer) error
	DeleteCustomer(id uint) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) ListCustomers(search string, limit, offset int) ([]model.Customer, error) {
	logger.Debug("Listing customers", map[string]interface{}{
		"search": search,
		"limit":  limit,
		"offset": offset,
	})

	customers, err := s.customerRepo.FindAll(search, limit, offset)
	if err != nil {
		logger.Error("Failed to list customers", err, nil)
		return nil, err
	}
	return customers, nil
}

func (s *customerService) GetCustomerByID(id uint) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		logger.Error("Failed to fetch customer", err, map[string]interface{}{
			"customer_id": id,
		})
		return nil, err
	}
	return customer, nil
}

func (s *customerService) CreateCustomer(customer *model.Customer) error {
	logger.Info("Creating customer", map[string]interface{}{
		"name":  customer.Name,
		"email": customer.Email,
	})

	if err := s.customerRepo.Create(customer); err != nil {
		logger.Error("Failed to create customer", err, map[string]interface{}{
			"name": customer.Name,
		})
		return err
	}
	return nil
}

func (s *customerService) UpdateCustomer(customer *model.Customer) error {
	logger.Info("Updating customer", map[string]interface{}{
		"customer_id": customer.ID,
	})

	if _, err := s.customerRepo.FindByID(customer.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCustomerNotFound
		}
		return err
	}

	if err := s.customerRepo.Update(customer); err != nil {
		logger.Error("Failed to update customer", err, map[string]interface{}{
			"customer_id": customer.ID,
		})
		return err
	}
	return nil
}

func (s *customerService) DeleteCustomer(id uint) error {
	logger.Info("Deleting customer", map[string]interface{}{
		"customer_id": id,
	})

	if _, err := s.customerRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCustomerNotFound
		}
		return err
	}

	if err := s.customerRepo.Delete(id); err != nil {
		logger.Error("Failed to delete customer", err, map[string]interface{}{
			"customer_id": id,
		})
		return err
	}
	return nil
}
