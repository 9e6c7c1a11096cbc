package services

import (
	"math"
	"time"

	"creditline/internal/adapters/persistence/models"
	"creditline/internal/pkg/money"

	"github.com/shopspring/decimal"
)

// ScheduleGenerator builds the installment schedule for a loan. Two
// strategies exist with observably different math: the flat-rate split used
// at loan creation, and the annuity formula used for schedule previews.
type ScheduleGenerator interface {
	Generate(loan *models.Loan, start time.Time) []models.LoanInstallment
}

// FlatRateSchedule splits the loan's total payable amount evenly across the
// term. This is the authoritative strategy: CreateLoan persists its output.
//
// Each installment amount is loanAmount / n rounded to 2 decimals
// independently, so the schedule sum may drift from loanAmount by at most
// n * 0.005 currency units. The drift is accepted, not absorbed into the
// last installment.
type FlatRateSchedule struct{}

// Generate builds the schedule. Due dates begin one month after start and
// step by exactly one month.
func (FlatRateSchedule) Generate(loan *models.Loan, start time.Time) []models.LoanInstallment {
	n := loan.NumberOfInstallments
	if n <= 0 {
		return nil
	}

	amount := money.Round2(loan.LoanAmount.Div(decimal.NewFromInt(int64(n))))

	installments := make([]models.LoanInstallment, 0, n)
	for i := 1; i <= n; i++ {
		installments = append(installments, models.LoanInstallment{
			LoanID:            loan.ID,
			InstallmentNumber: i,
			Amount:            amount,
			PaidAmount:        decimal.Zero,
			DueDate:           addMonths(start, i),
			IsPaid:            false,
		})
	}

	return installments
}

// addMonths advances t by m calendar months, clamping the day to the last
// day of the target month. time.AddDate normalizes instead (Jan 31 + 1 month
// = Mar 3), which would skip February and put two due dates in March; every
// month must carry exactly one installment.
func addMonths(t time.Time, m int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(m), 1, 0, 0, 0, 0, t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()

	day := t.Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// AnnuitySchedule computes a level monthly payment with the standard
// amortization formula
//
//	payment = P * r / (1 - (1+r)^-n)
//
// where r is the monthly rate derived from the loan's annual percentage
// rate. Every installment carries the same rounded payment amount. Used for
// the schedule preview endpoint; it intentionally yields a different total
// than the flat-rate strategy.
type AnnuitySchedule struct{}

// Generate builds the schedule. Due dates begin one month after start.
func (AnnuitySchedule) Generate(loan *models.Loan, start time.Time) []models.LoanInstallment {
	n := loan.NumberOfInstallments
	if n <= 0 {
		return nil
	}

	// The power term does not terminate in decimal arithmetic; compute it in
	// float64 and round once, at the point the payment amount is fixed.
	monthlyRate := loan.InterestRate.InexactFloat64() / 12 / 100

	var payment decimal.Decimal
	if monthlyRate == 0 {
		payment = money.Round2(loan.LoanAmount.Div(decimal.NewFromInt(int64(n))))
	} else {
		principal := loan.LoanAmount.InexactFloat64()
		raw := principal * monthlyRate / (1 - math.Pow(1+monthlyRate, float64(-n)))
		payment = money.Round2(decimal.NewFromFloat(raw))
	}

	installments := make([]models.LoanInstallment, 0, n)
	for i := 1; i <= n; i++ {
		installments = append(installments, models.LoanInstallment{
			LoanID:            loan.ID,
			InstallmentNumber: i,
			Amount:            payment,
			PaidAmount:        decimal.Zero,
			DueDate:           addMonths(start, i),
			IsPaid:            false,
		})
	}

	return installments
}
