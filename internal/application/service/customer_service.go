package service

import (
	"context"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/entity"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/repository"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/apperror"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	CreatedByID uuid.UUID
	Name        string
	Email       *string
	Phone       *string
	Company     *string
	Address     *string
	Country     *string
}

// CreateCustomer creates a new customer. Email, when given, must be unique.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if input.Name == "" {
		return nil, apperror.NewValidationError("Name is required",
			apperror.FieldError{Field: "name", Message: "Name is required"})
	}

	if input.Email != nil && *input.Email != "" {
		existing, err := s.customerRepo.GetByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Customer email already exists")
		}
	}

	customer := &entity.Customer{
		CreatedByID: input.CreatedByID,
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Company:     input.Company,
		Address:     input.Address,
		Country:     input.Country,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers with search and pagination
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	CustomerID uuid.UUID
	Name       *string
	Email      *string
	Phone      *string
	Company    *string
	Address    *string
	Country    *string
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Email != nil && *input.Email != "" {
		if customer.Email == nil || *customer.Email != *input.Email {
			existing, err := s.customerRepo.GetByEmail(ctx, *input.Email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != customer.ID {
				return nil, apperror.NewConflictError("Customer email already exists")
			}
		}
		customer.Email = input.Email
	}

	if input.Name != nil && *input.Name != "" {
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Company != nil {
		customer.Company = input.Company
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.Country != nil {
		customer.Country = input.Country
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer soft-removes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	return s.customerRepo.Delete(ctx, id)
}
