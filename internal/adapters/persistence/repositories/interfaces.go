package repositories

import (
	"context"
	"time"

	"creditline/internal/adapters/persistence/models"
)

// Transactor runs a function inside a single database transaction. Every
// repository call made with the context it passes to fn joins that
// transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CustomerRepository defines customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
}

// LoanRepository defines loan data access
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	Update(ctx context.Context, loan *models.Loan) error
	ListByCustomer(ctx context.Context, customerID uint) ([]*models.Loan, error)
	ListByCustomerWithFilters(ctx context.Context, customerID uint, isPaid *bool, numberOfInstallments *int) ([]*models.Loan, error)
}

// InstallmentRepository defines loan installment data access
type InstallmentRepository interface {
	CreateBatch(ctx context.Context, installments []models.LoanInstallment) error
	Update(ctx context.Context, installment *models.LoanInstallment) error
	ListByLoanOrderedByDueDate(ctx context.Context, loanID uint) ([]models.LoanInstallment, error)
	ListUnpaidByLoanOrderedByDueDate(ctx context.Context, loanID uint) ([]models.LoanInstallment, error)
	FindEarliestUnpaid(ctx context.Context, loanID uint) (*models.LoanInstallment, error)
	ListOverdue(ctx context.Context, before time.Time) ([]models.LoanInstallment, error)
	ListOverdueByLoan(ctx context.Context, loanID uint, before time.Time) ([]models.LoanInstallment, error)
}

// TransactionRepository defines loan transaction history data access
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.LoanTransaction) error
	ListByLoan(ctx context.Context, loanID uint) ([]*models.LoanTransaction, error)
}

// UserRepository defines user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
