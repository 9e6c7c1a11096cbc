package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"creditline/internal/adapters/persistence/models"
	"creditline/internal/adapters/persistence/repositories"
	"creditline/internal/pkg/money"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Loan service errors
var (
	ErrLoanNotFound           = errors.New("loan not found")
	ErrLoanAlreadyPaid        = errors.New("loan is already fully paid")
	ErrInvalidInstallmentCount = errors.New("invalid number of installments, valid options are 6, 9, 12, 24")
	ErrInvalidInterestRate    = errors.New("interest rate must be between 0.1 and 0.5")
	ErrCreditLimitExceeded    = errors.New("requested amount exceeds available credit limit")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrInvalidInput           = errors.New("invalid input")
)

// installmentOptions is the fixed set of accepted loan terms.
var installmentOptions = []int{6, 9, 12, 24}

var (
	minInterestRate = decimal.NewFromFloat(0.1)
	maxInterestRate = decimal.NewFromFloat(0.5)
)

// LoanService handles loan lifecycle and bulk payment business logic
type LoanService struct {
	loanRepo        repositories.LoanRepository
	customerRepo    repositories.CustomerRepository
	installmentRepo repositories.InstallmentRepository
	transactionRepo repositories.TransactionRepository
	transactor      repositories.Transactor
	schedule        ScheduleGenerator
	notifyService   *NotificationService
	validate        *validator.Validate
}

// NewLoanService creates a new loan service. The schedule generator is the
// authoritative flat-rate strategy.
func NewLoanService(
	loanRepo repositories.LoanRepository,
	customerRepo repositories.CustomerRepository,
	installmentRepo repositories.InstallmentRepository,
	transactionRepo repositories.TransactionRepository,
	transactor repositories.Transactor,
	notifyService *NotificationService,
) *LoanService {
	return &LoanService{
		loanRepo:        loanRepo,
		customerRepo:    customerRepo,
		installmentRepo: installmentRepo,
		transactionRepo: transactionRepo,
		transactor:      transactor,
		schedule:        FlatRateSchedule{},
		notifyService:   notifyService,
		validate:        validator.New(),
	}
}

// CreateLoanInput represents create loan input. NumberOfInstallments arrives
// as a string and is validated against the enumerated options.
type CreateLoanInput struct {
	CustomerID           uint            `json:"customer_id" validate:"required"`
	Amount               decimal.Decimal `json:"amount"`
	InterestRate         decimal.Decimal `json:"interest_rate"`
	NumberOfInstallments string          `json:"number_of_installments" validate:"required"`
}

// CreateLoan validates the request against the customer's available credit,
// computes the total payable amount, generates the installment schedule and
// reserves the credit. Loan, installments and ledger update commit in one
// transaction.
func (s *LoanService) CreateLoan(ctx context.Context, input *CreateLoanInput) (*models.Loan, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !money.IsPositive(input.Amount) {
		return nil, ErrInvalidAmount
	}

	var loan *models.Loan
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		numInstallments, err := strconv.Atoi(input.NumberOfInstallments)
		if err != nil || !isValidInstallmentCount(numInstallments) {
			return ErrInvalidInstallmentCount
		}

		// Re-asserted here even though the request boundary validates it.
		if input.InterestRate.LessThan(minInterestRate) || input.InterestRate.GreaterThan(maxInterestRate) {
			return ErrInvalidInterestRate
		}

		// Flat surcharge: totalPayable = principal * (1 + rate).
		totalPayable := money.Round2(input.Amount.Mul(decimal.NewFromInt(1).Add(input.InterestRate)))

		// Credit check happens strictly before any write.
		if totalPayable.GreaterThan(customer.AvailableCredit()) {
			return ErrCreditLimitExceeded
		}

		now := time.Now()
		loan = &models.Loan{
			CustomerID:           customer.ID,
			LoanAmount:           totalPayable,
			NumberOfInstallments: numInstallments,
			InterestRate:         input.InterestRate,
			CreateDate:           now,
			IsPaid:               false,
		}
		if err := s.loanRepo.Create(ctx, loan); err != nil {
			return err
		}

		installments := s.schedule.Generate(loan, now)
		if err := s.installmentRepo.CreateBatch(ctx, installments); err != nil {
			return err
		}
		loan.Installments = installments

		customer.UsedCreditLimit = customer.UsedCreditLimit.Add(totalPayable)
		if err := s.customerRepo.Update(ctx, customer); err != nil {
			return err
		}
		loan.Customer = customer

		loanID := loan.ID
		amount := totalPayable
		return s.transactionRepo.Create(ctx, &models.LoanTransaction{
			Reference:       uuid.NewString(),
			TransactionType: models.TxTypeLoanCreate,
			CustomerID:      customer.ID,
			LoanID:          &loanID,
			Amount:          &amount,
			Description:     fmt.Sprintf("loan created over %d installments", numInstallments),
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"loan_id":      loan.ID,
		"customer_id":  loan.CustomerID,
		"loan_amount":  loan.LoanAmount,
		"installments": loan.NumberOfInstallments,
	}).Info("loan created")

	if s.notifyService != nil {
		s.notifyService.NotifyLoanCreated(loan)
	}

	return loan, nil
}

// GetLoanDetails gets a loan with its installments
func (s *LoanService) GetLoanDetails(ctx context.Context, loanID uint) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// GetLoansByCustomer lists a customer's loans. An empty result is reported
// as not found rather than an empty list.
func (s *LoanService) GetLoansByCustomer(ctx context.Context, customerID uint) ([]*models.Loan, error) {
	loans, err := s.loanRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return nil, ErrLoanNotFound
	}
	return loans, nil
}

// GetLoansByCustomerWithFilters lists a customer's loans with optional
// is-paid and installment-count filters. Same empty-result policy as
// GetLoansByCustomer.
func (s *LoanService) GetLoansByCustomerWithFilters(ctx context.Context, customerID uint, isPaid *bool, numberOfInstallments *int) ([]*models.Loan, error) {
	loans, err := s.loanRepo.ListByCustomerWithFilters(ctx, customerID, isPaid, numberOfInstallments)
	if err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return nil, ErrLoanNotFound
	}
	return loans, nil
}

// GetHistory lists the transaction history of a loan
func (s *LoanService) GetHistory(ctx context.Context, loanID uint) ([]*models.LoanTransaction, error) {
	if _, err := s.GetLoanDetails(ctx, loanID); err != nil {
		return nil, err
	}
	return s.transactionRepo.ListByLoan(ctx, loanID)
}

// PaymentResult represents the outcome of a bulk loan payment
type PaymentResult struct {
	InstallmentsPaid int             `json:"installments_paid"`
	TotalAmountSpent decimal.Decimal `json:"total_amount_spent"`
	LoanFullyPaid    bool            `json:"loan_fully_paid"`
}

// PayLoan allocates a payment amount across unpaid installments in due-date
// order. An installment is either covered in full or left untouched, and
// allocation stops at the first installment the remaining amount cannot
// cover. Leftover amount is discarded.
//
// The fully-paid flag only counts installments paid in this call, so a loan
// settled across several bulk payments is never flagged fully paid here.
// That mirrors the system this one replaces; see DESIGN.md.
func (s *LoanService) PayLoan(ctx context.Context, loanID uint, amount decimal.Decimal) (*PaymentResult, error) {
	if !money.IsPositive(amount) {
		return nil, ErrInvalidAmount
	}

	var result *PaymentResult
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

		unpaid, err := s.installmentRepo.ListUnpaidByLoanOrderedByDueDate(ctx, loanID)
		if err != nil {
			return err
		}

		today := time.Now()
		remaining := amount
		totalSpent := decimal.Zero
		paidCount := 0

		for i := range unpaid {
			installment := &unpaid[i]
			if remaining.LessThan(installment.Amount) {
				break
			}

			installment.IsPaid = true
			installment.PaidAmount = installment.Amount
			installment.PaymentDate = &today
			if err := s.installmentRepo.Update(ctx, installment); err != nil {
				return err
			}

			remaining = remaining.Sub(installment.Amount)
			totalSpent = totalSpent.Add(installment.Amount)
			paidCount++
		}

		fullyPaid := paidCount == loan.NumberOfInstallments
		if fullyPaid {
			loan.IsPaid = true
			if err := s.loanRepo.Update(ctx, loan); err != nil {
				return err
			}
		}

		spent := money.Round2(totalSpent)
		txAmount := spent
		count := paidCount
		if err := s.transactionRepo.Create(ctx, &models.LoanTransaction{
			Reference:        uuid.NewString(),
			TransactionType:  models.TxTypePayLoan,
			CustomerID:       loan.CustomerID,
			LoanID:           &loan.ID,
			Amount:           &txAmount,
			InstallmentsPaid: &count,
			Description:      fmt.Sprintf("bulk payment covered %d installments", paidCount),
		}); err != nil {
			return err
		}

		result = &PaymentResult{
			InstallmentsPaid: paidCount,
			TotalAmountSpent: spent,
			LoanFullyPaid:    fullyPaid,
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
		"loan_id":           loanID,
		"installments_paid": result.InstallmentsPaid,
		"total_spent":       result.TotalAmountSpent,
		"fully_paid":        result.LoanFullyPaid,
	}).Info("bulk loan payment processed")

	return result, nil
}

func isValidInstallmentCount(n int) bool {
	for _, option := range installmentOptions {
		if option == n {
			return true
		}
	}
	return false
}
