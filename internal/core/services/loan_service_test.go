package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditline/internal/adapters/persistence/models"
	"creditline/internal/core/services"
)

type fixture struct {
	customers    *fakeCustomerRepo
	loans        *fakeLoanRepo
	installments *fakeInstallmentRepo
	transactions *fakeTransactionRepo

	customerService    *services.CustomerService
	loanService        *services.LoanService
	installmentService *services.InstallmentService
}

func newFixture() *fixture {
	f := &fixture{
		customers:    newFakeCustomerRepo(),
		loans:        newFakeLoanRepo(),
		installments: newFakeInstallmentRepo(),
		transactions: &fakeTransactionRepo{},
	}
	f.customerService = services.NewCustomerService(f.customers, f.transactions, fakeTransactor{})
	f.loanService = services.NewLoanService(f.loans, f.customers, f.installments, f.transactions, fakeTransactor{}, nil)
	f.installmentService = services.NewInstallmentService(f.installments, f.loans, f.transactions, fakeTransactor{}, nil)
	return f
}

func (f *fixture) addCustomer(t *testing.T, limit string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		Name:            "John",
		Surname:         "Doe",
		CreditLimit:     decimal.RequireFromString(limit),
		UsedCreditLimit: decimal.Zero,
	}
	require.NoError(t, f.customers.Create(context.Background(), customer))
	return customer
}

// seedLoan stores a loan with n installments of the given amount, due
// monthly starting one month from base.
func (f *fixture) seedLoan(t *testing.T, customerID uint, n int, each string) *models.Loan {
	t.Helper()
	amount := decimal.RequireFromString(each)
	// due dates start one month out so nothing is overdue up front
	base := time.Now()

	loan := &models.Loan{
		CustomerID:           customerID,
		LoanAmount:           amount.Mul(decimal.NewFromInt(int64(n))),
		NumberOfInstallments: n,
		InterestRate:         decimal.RequireFromString("0.2"),
		CreateDate:           base,
	}
	require.NoError(t, f.loans.Create(context.Background(), loan))

	installments := make([]models.LoanInstallment, 0, n)
	for i := 1; i <= n; i++ {
		installments = append(installments, models.LoanInstallment{
			LoanID:            loan.ID,
			InstallmentNumber: i,
			Amount:            amount,
			PaidAmount:        decimal.Zero,
			DueDate:           base.AddDate(0, i, 0),
		})
	}
	require.NoError(t, f.installments.CreateBatch(context.Background(), installments))
	return loan
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLoanService_CreateLoan(t *testing.T) {
	t.Run("creates loan with flat surcharge and even schedule", func(t *testing.T) {
		f := newFixture()
		customer := f.addCustomer(t, "20000")

		loan, err := f.loanService.CreateLoan(context.Background(), &services.CreateLoanInput{
			CustomerID:           customer.ID,
			Amount:               dec("10000"),
			InterestRate:         dec("0.1"),
			NumberOfInstallments: "12",
		})

		require.NoError(t, err)
		assert.True(t, dec("11000").Equal(loan.LoanAmount), "total payable is principal * 1.1")
		assert.Equal(t, 12, loan.NumberOfInstallments)
		assert.False(t, loan.IsPaid)

		installments, err := f.installments.ListByLoanOrderedByDueDate(context.Background(), loan.ID)
		require.NoError(t, err)
		require.Len(t, installments, 12)
		for i, installment := range installments {
			assert.True(t, dec("916.67").Equal(installment.Amount), "installment %d", i+1)
			assert.False(t, installment.IsPaid)
		}

		// exactly one calendar month per step regardless of the start day;
		// month-end clamping itself is pinned in the schedule tests
		now := time.Now()
		startMonths := now.Year()*12 + int(now.Month())
		for i, installment := range installments {
			months := installment.DueDate.Year()*12 + int(installment.DueDate.Month())
			assert.Equal(t, startMonths+i+1, months, "installment %d", i+1)
		}

		stored, err := f.customers.GetByID(context.Background(), customer.ID)
		require.NoError(t, err)
		assert.True(t, dec("11000").Equal(stored.UsedCreditLimit))

		require.Len(t, f.transactions.transactions, 1)
		tx := f.transactions.transactions[0]
		assert.Equal(t, models.TxTypeLoanCreate, tx.TransactionType)
		assert.Len(t, tx.Reference, 36)
		assert.True(t, dec("11000").Equal(*tx.Amount))
	})

	t.Run("rejects loan whose total payable exceeds available credit", func(t *testing.T) {
		f := newFixture()
		customer := f.addCustomer(t, "12000")

		// 11000 * 1.1 = 12100 > 12000
		_, err := f.loanService.CreateLoan(context.Background(), &services.CreateLoanInput{
			CustomerID:           customer.ID,
			Amount:               dec("11000"),
			InterestRate:         dec("0.1"),
			NumberOfInstallments: "12",
		})
		require.ErrorIs(t, err, services.ErrCreditLimitExceeded)

		stored, _ := f.customers.GetByID(context.Background(), customer.ID)
		assert.True(t, stored.UsedCreditLimit.IsZero(), "failed request must not reserve credit")
		assert.Empty(t, f.transactions.transactions)

		// 10000 * 1.2 = 12000 fits exactly
		loan, err := f.loanService.CreateLoan(context.Background(), &services.CreateLoanInput{
			CustomerID:           customer.ID,
			Amount:               dec("10000"),
			InterestRate:         dec("0.2"),
			NumberOfInstallments: "12",
		})
		require.NoError(t, err)
		assert.True(t, dec("12000").Equal(loan.LoanAmount))
	})

	t.Run("counts existing loans against the limit", func(t *testing.T) {
		f := newFixture()
		customer := f.addCustomer(t, "20000")

		_, err := f.loanService.CreateLoan(context.Background(), &services.CreateLoanInput{
			CustomerID:           customer.ID,
			Amount:               dec("10000"),
			InterestRate:         dec("0.1"),
			NumberOfInstallments: "12",
		})
		require.NoError(t, err)

		// 9000 * 1.1 = 9900 > 20000 - 11000
		_, err = f.loanService.CreateLoan(context.Background(), &services.CreateLoanInput{
			CustomerID:           customer.ID,
			Amount:               dec("9000"),
			InterestRate:         dec("0.1"),
			NumberOfInstallments: "6",
		})
		require.ErrorIs(t, err, services.ErrCreditLimitExceeded)
	})

	t.Run("rejects installment counts outside the enumerated options", func(t *testing.T) {
		f := newFixture()
		customer := f.addCustomer(t, "20000")

		for _, count := range []string{"7", "0", "-6", "13", "abc", ""} {
			_, err := f.loanService.CreateLoan(context.Background(), &services.CreateLoanInput{
				CustomerID:           customer.ID,
				Amount:               dec("1000"),
				InterestRate:         dec("0.1"),
				NumberOfInstallments: count,
			})
			require.Error(t, err, "count %q", count)
		}

		for _, count := range []string{"6", "9", "12", "24"} {
			_, err := f.loanService.CreateLoan(context.Background(), &services.CreateLoanInput{
				CustomerID:           customer.ID,
				Amount:               dec("100"),
				InterestRate:         dec("0.1"),
				NumberOfInstallments: count,
			})
			require.NoError(t, err, "count %q", count)
		}
	})

	t.Run("rejects interest rates outside 0.1-0.5", func(t *testing.T) {
		f := newFixture()
		customer := f.addCustomer(t, "20000")

		for _, rate := range []string{"0.05", "0.51", "0", "-0.1"} {
			_, err := f.loanService.CreateLoan(context.Background(), &services.CreateLoanInput{
				CustomerID:           customer.ID,
				Amount:               dec("1000"),
				InterestRate:         dec(rate),
				NumberOfInstallments: "12",
			})
			require.ErrorIs(t, err, services.ErrInvalidInterestRate, "rate %s", rate)
		}

		for _, rate := range []string{"0.1", "0.5", "0.3"} {
			_, err := f.loanService.CreateLoan(context.Background(), &services.CreateLoanInput{
				CustomerID:           customer.ID,
				Amount:               dec("100"),
				InterestRate:         dec(rate),
				NumberOfInstallments: "6",
			})
			require.NoError(t, err, "rate %s", rate)
		}
	})

	t.Run("fails when customer does not exist", func(t *testing.T) {
		f := newFixture()

		_, err := f.loanService.CreateLoan(context.Background(), &services.CreateLoanInput{
			CustomerID:           99,
			Amount:               dec("1000"),
			InterestRate:         dec("0.1"),
			NumberOfInstallments: "12",
		})
		require.ErrorIs(t, err, services.ErrCustomerNotFound)
	})

	t.Run("fails on non-positive amount", func(t *testing.T) {
		f := newFixture()
		customer := f.addCustomer(t, "20000")

		for _, amount := range []string{"0", "-500"} {
			_, err := f.loanService.CreateLoan(context.Background(), &services.CreateLoanInput{
				CustomerID:           customer.ID,
				Amount:               dec(amount),
				InterestRate:         dec("0.1"),
				NumberOfInstallments: "12",
			})
			require.ErrorIs(t, err, services.ErrInvalidAmount)
		}
	})
}

func TestLoanService_PayLoan(t *testing.T) {
	t.Run("pays whole installments in due date order", func(t *testing.T) {
		f := newFixture()
		customer := f.addCustomer(t, "20000")
		loan := f.seedLoan(t, customer.ID, 12, "850")

		result, err := f.loanService.PayLoan(context.Background(), loan.ID, dec("2550"))

		require.NoError(t, err)
		assert.Equal(t, 3, result.InstallmentsPaid)
		assert.True(t, dec("2550").Equal(result.TotalAmountSpent))
		assert.False(t, result.LoanFullyPaid)

		installments, _ := f.installments.ListByLoanOrderedByDueDate(context.Background(), loan.ID)
		for i, installment := range installments {
			if i < 3 {
				assert.True(t, installment.IsPaid, "installment %d", i+1)
				assert.True(t, dec("850").Equal(installment.PaidAmount))
				assert.NotNil(t, installment.PaymentDate)
			} else {
				assert.False(t, installment.IsPaid, "installment %d", i+1)
			}
		}
	})

	t.Run("discards leftover that cannot cover a full installment", func(t *testing.T) {
		f := newFixture()
		customer := f.addCustomer(t, "20000")
		loan := f.seedLoan(t, customer.ID, 12, "850")

		result, err := f.loanService.PayLoan(context.Background(), loan.ID, dec("2600"))

		require.NoError(t, err)
		assert.Equal(t, 3, result.InstallmentsPaid)
		assert.True(t, dec("2550").Equal(result.TotalAmountSpent), "leftover 50 is not allocated")
	})

	t.Run("pays nothing when the amount is below one installment", func(t *testing.T) {
		f := newFixture()
		customer := f.addCustomer(t, "20000")
		loan := f.seedLoan(t, customer.ID, 6, "850")

		result, err := f.loanService.PayLoan(context.Background(), loan.ID, dec("800"))

		require.NoError(t, err)
		assert.Equal(t, 0, result.InstallmentsPaid)
		assert.True(t, result.TotalAmountSpent.IsZero())
		assert.False(t, result.LoanFullyPaid)
	})

	t.Run("marks loan paid when one payment covers every installment", func(t *testing.T) {
		f := newFixture()
		customer := f.addCustomer(t, "20000")
		loan := f.seedLoan(t, customer.ID, 12, "850")

		result, err := f.loanService.PayLoan(context.Background(), loan.ID, dec("10200"))

		require.NoError(t, err)
		assert.Equal(t, 12, result.InstallmentsPaid)
		assert.True(t, result.LoanFullyPaid)

		stored, _ := f.loans.GetByID(context.Background(), loan.ID)
		assert.True(t, stored.IsPaid)
	})

	t.Run("fully paid flag counts only installments paid in the same call", func(t *testing.T) {
		f := newFixture()
		customer := f.addCustomer(t, "20000")
		loan := f.seedLoan(t, customer.ID, 12, "850")

		_, err := f.loanService.PayLoan(context.Background(), loan.ID, dec("2550"))
		require.NoError(t, err)

		result, err := f.loanService.PayLoan(context.Background(), loan.ID, dec("7650"))
		require.NoError(t, err)
		assert.Equal(t, 9, result.InstallmentsPaid)
		assert.False(t, result.LoanFullyPaid, "9 paid this call, loan term is 12")

		stored, _ := f.loans.GetByID(context.Background(), loan.ID)
		assert.False(t, stored.IsPaid)
	})

	t.Run("records a ledger transaction per payment", func(t *testing.T) {
		f := newFixture()
		customer := f.addCustomer(t, "20000")
		loan := f.seedLoan(t, customer.ID, 6, "850")

		_, err := f.loanService.PayLoan(context.Background(), loan.ID, dec("1700"))
		require.NoError(t, err)

		history, err := f.loanService.GetHistory(context.Background(), loan.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, models.TxTypePayLoan, history[0].TransactionType)
		assert.Equal(t, 2, *history[0].InstallmentsPaid)
		assert.True(t, dec("1700").Equal(*history[0].Amount))
	})

	t.Run("rejects payment on a settled loan", func(t *testing.T) {
		f := newFixture()
		customer := f.addCustomer(t, "20000")
		loan := f.seedLoan(t, customer.ID, 6, "850")
		loan.IsPaid = true
		require.NoError(t, f.loans.Update(context.Background(), loan))

		_, err := f.loanService.PayLoan(context.Background(), loan.ID, dec("850"))
		require.ErrorIs(t, err, services.ErrLoanAlreadyPaid)
	})

	t.Run("fails for unknown loan", func(t *testing.T) {
		f := newFixture()
		_, err := f.loanService.PayLoan(context.Background(), 42, dec("850"))
		require.ErrorIs(t, err, services.ErrLoanNotFound)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		f := newFixture()
		_, err := f.loanService.PayLoan(context.Background(), 1, dec("0"))
		require.ErrorIs(t, err, services.ErrInvalidAmount)
	})
}

func TestLoanService_GetLoanDetails(t *testing.T) {
	t.Run("returns the loan and leaves nothing changed", func(t *testing.T) {
		f := newFixture()
		customer := f.addCustomer(t, "20000")
		loan := f.seedLoan(t, customer.ID, 6, "850")

		first, err := f.loanService.GetLoanDetails(context.Background(), loan.ID)
		require.NoError(t, err)
		second, err := f.loanService.GetLoanDetails(context.Background(), loan.ID)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.True(t, first.LoanAmount.Equal(second.LoanAmount))
		assert.False(t, second.IsPaid)
		assert.Empty(t, f.transactions.transactions, "reads must not write the ledger")
	})

	t.Run("fails for unknown loan", func(t *testing.T) {
		f := newFixture()
		_, err := f.loanService.GetLoanDetails(context.Background(), 42)
		require.ErrorIs(t, err, services.ErrLoanNotFound)
	})
}

func TestLoanService_GetLoansByCustomer(t *testing.T) {
	t.Run("lists loans with filters", func(t *testing.T) {
		f := newFixture()
		customer := f.addCustomer(t, "20000")
		f.seedLoan(t, customer.ID, 6, "100")
		paid := f.seedLoan(t, customer.ID, 12, "100")
		paid.IsPaid = true
		require.NoError(t, f.loans.Update(context.Background(), paid))

		loans, err := f.loanService.GetLoansByCustomer(context.Background(), customer.ID)
		require.NoError(t, err)
		assert.Len(t, loans, 2)

		isPaid := true
		loans, err = f.loanService.GetLoansByCustomerWithFilters(context.Background(), customer.ID, &isPaid, nil)
		require.NoError(t, err)
		require.Len(t, loans, 1)
		assert.Equal(t, paid.ID, loans[0].ID)

		n := 6
		loans, err = f.loanService.GetLoansByCustomerWithFilters(context.Background(), customer.ID, nil, &n)
		require.NoError(t, err)
		require.Len(t, loans, 1)
		assert.Equal(t, 6, loans[0].NumberOfInstallments)
	})

	t.Run("empty result is reported as not found", func(t *testing.T) {
		f := newFixture()
		customer := f.addCustomer(t, "20000")

		_, err := f.loanService.GetLoansByCustomer(context.Background(), customer.ID)
		require.ErrorIs(t, err, services.ErrLoanNotFound)

		isPaid := true
		_, err = f.loanService.GetLoansByCustomerWithFilters(context.Background(), customer.ID, &isPaid, nil)
		require.ErrorIs(t, err, services.ErrLoanNotFound)
	})
}
