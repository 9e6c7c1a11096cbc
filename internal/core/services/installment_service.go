package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creditline/internal/adapters/persistence/models"
	"creditline/internal/adapters/persistence/repositories"
	"creditline/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Installment service errors
var (
	ErrNoUnpaidInstallments = errors.New("no unpaid installments found")
	ErrInsufficientPayment  = errors.New("installment must be paid in full")
)

// InstallmentService handles single-installment payments and installment queries
type InstallmentService struct {
	installmentRepo repositories.InstallmentRepository
	loanRepo        repositories.LoanRepository
	transactionRepo repositories.TransactionRepository
	transactor      repositories.Transactor
	annuity         ScheduleGenerator
	notifyService   *NotificationService
}

// NewInstallmentService creates a new installment service
func NewInstallmentService(
	installmentRepo repositories.InstallmentRepository,
	loanRepo repositories.LoanRepository,
	transactionRepo repositories.TransactionRepository,
	transactor repositories.Transactor,
	notifyService *NotificationService,
) *InstallmentService {
	return &InstallmentService{
		installmentRepo: installmentRepo,
		loanRepo:        loanRepo,
		transactionRepo: transactionRepo,
		transactor:      transactor,
		annuity:         AnnuitySchedule{},
		notifyService:   notifyService,
	}
}

// PayInstallmentResult represents the outcome of a single installment payment
type PayInstallmentResult struct {
	NumberOfInstallmentsPaid int             `json:"number_of_installments_paid"`
	TotalAmountSpent         decimal.Decimal `json:"total_amount_spent"`
	LoanFullyPaid            bool            `json:"loan_fully_paid"`
}

// PayInstallment pays the earliest-due unpaid installment of a loan. The
// payment must cover the installment amount; paying more than the nominal
// amount is accepted and recorded as paid, not clamped.
func (s *InstallmentService) PayInstallment(ctx context.Context, loanID uint, amount decimal.Decimal) (*PayInstallmentResult, error) {
	if !money.IsPositive(amount) {
		return nil, ErrInvalidAmount
	}

	var result *PayInstallmentResult
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		loan, err := s.loanRepo.GetByID(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLoanNotFound
			}
			return err
		}
		if loan.IsPaid {
			return ErrLoanAlreadyPaid
		}

		installment, err := s.installmentRepo.FindEarliestUnpaid(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoUnpaidInstallments
			}
			return err
		}

		if amount.LessThan(installment.Amount) {
			return ErrInsufficientPayment
		}

		today := time.Now()
		installment.PaidAmount = amount
		installment.IsPaid = true
		installment.PaymentDate = &today
		if err := s.installmentRepo.Update(ctx, installment); err != nil {
			return err
		}

		all, err := s.installmentRepo.ListByLoanOrderedByDueDate(ctx, loanID)
		if err != nil {
			return err
		}

		paidCount := 0
		fullyPaid := true
		for i := range all {
			if all[i].IsPaid {
				paidCount++
			} else {
				fullyPaid = false
			}
		}

		if fullyPaid {
			loan.IsPaid = true
			if err := s.loanRepo.Update(ctx, loan); err != nil {
				return err
			}
		}

		txAmount := amount
		count := 1
		if err := s.transactionRepo.Create(ctx, &models.LoanTransaction{
			Reference:        uuid.NewString(),
			TransactionType:  models.TxTypePayInstallment,
			CustomerID:       loan.CustomerID,
			LoanID:           &loan.ID,
			Amount:           &txAmount,
			InstallmentsPaid: &count,
			Description:      fmt.Sprintf("installment %d paid", installment.InstallmentNumber),
		}); err != nil {
			return err
		}

		result = &PayInstallmentResult{
			NumberOfInstallmentsPaid: paidCount,
			TotalAmountSpent:         models.TotalPaid(all),
			LoanFullyPaid:            fullyPaid,
		}

		if fullyPaid && s.notifyService != nil {
			s.notifyService.NotifyLoanPaidOff(loan)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"loan_id":    loanID,
		"paid_count": result.NumberOfInstallmentsPaid,
		"fully_paid": result.LoanFullyPaid,
	}).Info("installment payment processed")

	return result, nil
}

// GetInstallmentsByLoan lists all installments of a loan in due-date order
func (s *InstallmentService) GetInstallmentsByLoan(ctx context.Context, loanID uint) ([]models.LoanInstallment, error) {
	if err := s.assertLoanExists(ctx, loanID); err != nil {
		return nil, err
	}
	return s.installmentRepo.ListByLoanOrderedByDueDate(ctx, loanID)
}

// GetOverdueInstallments lists unpaid installments of a loan due before today
func (s *InstallmentService) GetOverdueInstallments(ctx context.Context, loanID uint) ([]models.LoanInstallment, error) {
	if err := s.assertLoanExists(ctx, loanID); err != nil {
		return nil, err
	}
	return s.installmentRepo.ListOverdueByLoan(ctx, loanID, time.Now())
}

// PreviewAnnuitySchedule regenerates a loan's schedule with the annuity
// strategy. Nothing is persisted; the preview exists because the two
// strategies yield observably different payment totals.
func (s *InstallmentService) PreviewAnnuitySchedule(ctx context.Context, loanID uint) ([]models.LoanInstallment, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return s.annuity.Generate(loan, loan.CreateDate), nil
}

func (s *InstallmentService) assertLoanExists(ctx context.Context, loanID uint) error {
	if _, err := s.loanRepo.GetByID(ctx, loanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLoanNotFound
		}
		return err
	}
	return nil
}
