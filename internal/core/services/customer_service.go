package services

import (
	"context"
	"errors"
	"fmt"

	"creditline/internal/adapters/persistence/models"
	"creditline/internal/adapters/persistence/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Customer service errors
var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrInvalidCreditLimit = errors.New("credit limit must be greater than zero")
)

// CustomerService handles customer and credit line business logic
type CustomerService struct {
	customerRepo    repositories.CustomerRepository
	transactionRepo repositories.TransactionRepository
	transactor      repositories.Transactor
	validate        *validator.Validate
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo repositories.CustomerRepository,
	transactionRepo repositories.TransactionRepository,
	transactor repositories.Transactor,
) *CustomerService {
	return &CustomerService{
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		transactor:      transactor,
		validate:        validator.New(),
	}
}

// CreateCustomerInput represents create customer input
type CreateCustomerInput struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Surname     string          `json:"surname" validate:"required,max=100"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// Create creates a new customer with an empty credit usage
func (s *CustomerService) Create(ctx context.Context, input *CreateCustomerInput) (*models.Customer, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if input.CreditLimit.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidCreditLimit
	}

	customer := &models.Customer{
		Name:            input.Name,
		Surname:         input.Surname,
		CreditLimit:     input.CreditLimit,
		UsedCreditLimit: decimal.Zero,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"customer_id":  customer.ID,
		"credit_limit": customer.CreditLimit,
	}).Info("customer created")

	return customer, nil
}

// GetByID gets a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

// UpdateCreditLimit replaces a customer's credit limit.
//
// A new limit below the current used credit is accepted: the ledger keeps
// its committed usage and AvailableCredit simply goes negative until loans
// are paid down.
func (s *CustomerService) UpdateCreditLimit(ctx context.Context, customerID uint, newLimit decimal.Decimal) (*models.Customer, error) {
	if newLimit.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidCreditLimit
	}

	var customer *models.Customer
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		customer, err = s.customerRepo.GetByID(ctx, customerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		oldLimit := customer.CreditLimit
		customer.CreditLimit = newLimit
		if err := s.customerRepo.Update(ctx, customer); err != nil {
			return err
		}

		amount := newLimit
		return s.transactionRepo.Create(ctx, &models.LoanTransaction{
			Reference:       uuid.NewString(),
			TransactionType: models.TxTypeLimitUpdate,
			CustomerID:      customer.ID,
			Amount:          &amount,
			Description:     fmt.Sprintf("credit limit changed from %s to %s", oldLimit, newLimit),
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"customer_id": customerID,
		"new_limit":   newLimit,
	}).Info("credit limit updated")

	return customer, nil
}
