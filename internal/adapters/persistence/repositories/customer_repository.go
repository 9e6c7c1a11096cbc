package repositories

import (
	"context"

	"creditline/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// GormCustomerRepository handles customer data access
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Create creates a new customer
func (r *GormCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return conn(ctx, r.db).Create(customer).Error
}

// GetByID gets a customer by ID
func (r *GormCustomerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := conn(ctx, r.db).First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Update updates a customer
func (r *GormCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	return conn(ctx, r.db).Save(customer).Error
}
