package services_test

import (
	"context"
	"sort"
	"time"

	"creditline/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// In-memory repository fakes. They share no state with each other unless
// wired through the same fixture.

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCustomerRepo struct {
	customers map[uint]*models.Customer
	nextID    uint
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uint]*models.Customer), nextID: 1}
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	customer.ID = r.nextID
	r.nextID++
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, customer *models.Customer) error {
	if _, ok := r.customers[customer.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.customers[customer.ID] = customer
	return nil
}

type fakeLoanRepo struct {
	loans  map[uint]*models.Loan
	nextID uint
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{loans: make(map[uint]*models.Loan), nextID: 1}
}

func (r *fakeLoanRepo) Create(ctx context.Context, loan *models.Loan) error {
	loan.ID = r.nextID
	r.nextID++
	r.loans[loan.ID] = loan
	return nil
}

func (r *fakeLoanRepo) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	loan, ok := r.loans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return loan, nil
}

func (r *fakeLoanRepo) Update(ctx context.Context, loan *models.Loan) error {
	if _, ok := r.loans[loan.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.loans[loan.ID] = loan
	return nil
}

func (r *fakeLoanRepo) ListByCustomer(ctx context.Context, customerID uint) ([]*models.Loan, error) {
	var out []*models.Loan
	for _, loan := range r.loans {
		if loan.CustomerID == customerID {
			out = append(out, loan)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeLoanRepo) ListByCustomerWithFilters(ctx context.Context, customerID uint, isPaid *bool, numberOfInstallments *int) ([]*models.Loan, error) {
	all, _ := r.ListByCustomer(ctx, customerID)
	var out []*models.Loan
	for _, loan := range all {
		if isPaid != nil && loan.IsPaid != *isPaid {
			continue
		}
		if numberOfInstallments != nil && loan.NumberOfInstallments != *numberOfInstallments {
			continue
		}
		out = append(out, loan)
	}
	return out, nil
}

type fakeInstallmentRepo struct {
	installments []models.LoanInstallment
	nextID       uint
}

func newFakeInstallmentRepo() *fakeInstallmentRepo {
	return &fakeInstallmentRepo{nextID: 1}
}

func (r *fakeInstallmentRepo) CreateBatch(ctx context.Context, installments []models.LoanInstallment) error {
	for i := range installments {
		installments[i].ID = r.nextID
		r.nextID++
		r.installments = append(r.installments, installments[i])
	}
	return nil
}

func (r *fakeInstallmentRepo) Update(ctx context.Context, installment *models.LoanInstallment) error {
	for i := range r.installments {
		if r.installments[i].ID == installment.ID {
			r.installments[i] = *installment
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeInstallmentRepo) byLoan(loanID uint) []models.LoanInstallment {
	var out []models.LoanInstallment
	for _, installment := range r.installments {
		if installment.LoanID == loanID {
			out = append(out, installment)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].InstallmentNumber < out[j].InstallmentNumber
	})
	return out
}

func (r *fakeInstallmentRepo) ListByLoanOrderedByDueDate(ctx context.Context, loanID uint) ([]models.LoanInstallment, error) {
	return r.byLoan(loanID), nil
}

func (r *fakeInstallmentRepo) ListUnpaidByLoanOrderedByDueDate(ctx context.Context, loanID uint) ([]models.LoanInstallment, error) {
	var out []models.LoanInstallment
	for _, installment := range r.byLoan(loanID) {
		if !installment.IsPaid {
			out = append(out, installment)
		}
	}
	return out, nil
}

func (r *fakeInstallmentRepo) FindEarliestUnpaid(ctx context.Context, loanID uint) (*models.LoanInstallment, error) {
	for _, installment := range r.byLoan(loanID) {
		if !installment.IsPaid {
			found := installment
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeInstallmentRepo) ListOverdue(ctx context.Context, before time.Time) ([]models.LoanInstallment, error) {
	var out []models.LoanInstallment
	for _, installment := range r.installments {
		if !installment.IsPaid && installment.DueDate.Before(before) {
			out = append(out, installment)
		}
	}
	return out, nil
}

func (r *fakeInstallmentRepo) ListOverdueByLoan(ctx context.Context, loanID uint, before time.Time) ([]models.LoanInstallment, error) {
	var out []models.LoanInstallment
	for _, installment := range r.byLoan(loanID) {
		if !installment.IsPaid && installment.DueDate.Before(before) {
			out = append(out, installment)
		}
	}
	return out, nil
}

type fakeTransactionRepo struct {
	transactions []*models.LoanTransaction
}

func (r *fakeTransactionRepo) Create(ctx context.Context, tx *models.LoanTransaction) error {
	tx.ID = uint(len(r.transactions) + 1)
	r.transactions = append(r.transactions, tx)
	return nil
}

func (r *fakeTransactionRepo) ListByLoan(ctx context.Context, loanID uint) ([]*models.LoanTransaction, error) {
	var out []*models.LoanTransaction
	for _, tx := range r.transactions {
		if tx.LoanID != nil && *tx.LoanID == loanID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = uint(len(r.users) + 1)
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}
