package service

import (
	"errors"
	"fmt"

	"go-pos-receipts/internal/model"
	"go-pos-receipts/internal/repository"
	"go-pos-receipts/internal/ws"
	"go-pos-receipts/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogService interface {
	CreateProduct(req *model.Product) error
	UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	GetProducts() ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	wsHub       *ws.Hub
}

func NewCatalogService(pRepo repository.ProductRepository, hub *ws.Hub) CatalogService {
	return &catalogService{productRepo: pRepo, wsHub: hub}
}

func (s *catalogService) CreateProduct(req *model.Product) error {
	if err := validateStruct(req); err != nil {
		return err
	}

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.publish("product_created", req)
	return nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}

	s.publish("product_updated", existing)
	return existing, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID) error {
	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.publish("product_deleted", map[string]interface{}{"id": id})
	return nil
}

func (s *catalogService) GetProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) publish(event string, data interface{}) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.Publish(event, data)
}

// validateStruct runs validator tags and converts the first failure into a
// ValidationError carrying the offending field.
func validateStruct(data interface{}) error {
	if errs := validator.ValidateStruct(data); len(errs) > 0 {
		first := errs[0]
		return &ValidationError{
			Field:   first.FailedField,
			Message: fmt.Sprintf("failed on '%s'", first.Tag),
		}
	}
	return nil
}
