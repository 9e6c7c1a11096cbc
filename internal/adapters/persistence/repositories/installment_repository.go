package repositories

import (
	"context"
	"time"

	"creditline/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// GormInstallmentRepository handles loan installment data access
type GormInstallmentRepository struct {
	db *gorm.DB
}

// NewInstallmentRepository creates a new installment repository
func NewInstallmentRepository(db *gorm.DB) *GormInstallmentRepository {
	return &GormInstallmentRepository{db: db}
}

// CreateBatch inserts a generated schedule in one statement
func (r *GormInstallmentRepository) CreateBatch(ctx context.Context, installments []models.LoanInstallment) error {
	if len(installments) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&installments).Error
}

// Update updates an installment
func (r *GormInstallmentRepository) Update(ctx context.Context, installment *models.LoanInstallment) error {
	return conn(ctx, r.db).Save(installment).Error
}

// ListByLoanOrderedByDueDate lists all installments of a loan in due-date order.
// Ties are broken by installment number.
func (r *GormInstallmentRepository) ListByLoanOrderedByDueDate(ctx context.Context, loanID uint) ([]models.LoanInstallment, error) {
	var installments []models.LoanInstallment
	err := conn(ctx, r.db).
		Where("loan_id = ?", loanID).
		Order("due_date ASC, installment_number ASC").
		Find(&installments).Error
	return installments, err
}

// ListUnpaidByLoanOrderedByDueDate lists unpaid installments of a loan in due-date order
func (r *GormInstallmentRepository) ListUnpaidByLoanOrderedByDueDate(ctx context.Context, loanID uint) ([]models.LoanInstallment, error) {
	var installments []models.LoanInstallment
	err := conn(ctx, r.db).
		Where("loan_id = ? AND is_paid = ?", loanID, false).
		Order("due_date ASC, installment_number ASC").
		Find(&installments).Error
	return installments, err
}

// FindEarliestUnpaid returns the unpaid installment with the earliest due date,
// or gorm.ErrRecordNotFound when every installment is paid
func (r *GormInstallmentRepository) FindEarliestUnpaid(ctx context.Context, loanID uint) (*models.LoanInstallment, error) {
	var installment models.LoanInstallment
	err := conn(ctx, r.db).
		Where("loan_id = ? AND is_paid = ?", loanID, false).
		Order("due_date ASC, installment_number ASC").
		First(&installment).Error
	if err != nil {
		return nil, err
	}
	return &installment, nil
}

// ListOverdue lists unpaid installments across all loans due before the given date
func (r *GormInstallmentRepository) ListOverdue(ctx context.Context, before time.Time) ([]models.LoanInstallment, error) {
	var installments []models.LoanInstallment
	err := conn(ctx, r.db).
		Preload("Loan").
		Where("is_paid = ? AND due_date < ?", false, before).
		Order("due_date ASC").
		Find(&installments).Error
	return installments, err
}

// ListOverdueByLoan lists unpaid installments of a loan due before the given date
func (r *GormInstallmentRepository) ListOverdueByLoan(ctx context.Context, loanID uint, before time.Time) ([]models.LoanInstallment, error) {
	var installments []models.LoanInstallment
	err := conn(ctx, r.db).
		Where("loan_id = ? AND is_paid = ? AND due_date < ?", loanID, false, before).
		Order("due_date ASC").
		Find(&installments).Error
	return installments, err
}
