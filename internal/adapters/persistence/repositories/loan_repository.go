package repositories

import (
	"context"

	"creditline/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// GormLoanRepository handles loan data access
type GormLoanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// Create creates a new loan
func (r *GormLoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return conn(ctx, r.db).Create(loan).Error
}

// GetByID gets a loan by ID with customer and installments preloaded
func (r *GormLoanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := conn(ctx, r.db).
		Preload("Customer").
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date ASC")
		}).
		First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// Update updates a loan
func (r *GormLoanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return conn(ctx, r.db).Save(loan).Error
}

// ListByCustomer lists loans of a customer, newest first
func (r *GormLoanRepository) ListByCustomer(ctx context.Context, customerID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := conn(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

// ListByCustomerWithFilters lists loans of a customer with optional
// is-paid and installment-count filters
func (r *GormLoanRepository) ListByCustomerWithFilters(ctx context.Context, customerID uint, isPaid *bool, numberOfInstallments *int) ([]*models.Loan, error) {
	q := conn(ctx, r.db).Where("customer_id = ?", customerID)

	if isPaid != nil {
		q = q.Where("is_paid = ?", *isPaid)
	}
	if numberOfInstallments != nil {
		q = q.Where("number_of_installments = ?", *numberOfInstallments)
	}

	var loans []*models.Loan
	err := q.Order("created_at DESC").Find(&loans).Error
	return loans, err
}

// GormTransactionRepository handles loan transaction history data access
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create creates a new loan transaction record
func (r *GormTransactionRepository) Create(ctx context.Context, tx *models.LoanTransaction) error {
	return conn(ctx, r.db).Create(tx).Error
}

// ListByLoan lists transaction history of a loan, newest first
func (r *GormTransactionRepository) ListByLoan(ctx context.Context, loanID uint) ([]*models.LoanTransaction, error) {
	var txs []*models.LoanTransaction
	err := conn(ctx, r.db).
		Where("loan_id = ?", loanID).
		Order("created_at DESC").
		Find(&txs).Error
	return txs, err
}
