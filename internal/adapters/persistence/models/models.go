package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"creditline/internal/pkg/money"
)

// ============================================================
// Auth Tables
// ============================================================

// User represents users table (API operators)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'ADMIN'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// ============================================================
// Credit Tables
// ============================================================

// Customer represents customers table. UsedCreditLimit is only ever
// increased by loan creation; there is no loan-cancellation path.
type Customer struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"size:100;not null" json:"name"`
	Surname         string          `gorm:"size:100;not null" json:"surname"`
	CreditLimit     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"credit_limit"`
	UsedCreditLimit decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"used_credit_limit"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	Loans []Loan `gorm:"foreignKey:CustomerID" json:"loans,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}

// AvailableCredit returns creditLimit - usedCreditLimit.
func (c *Customer) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.UsedCreditLimit)
}

// CustomerResponse DTO
type CustomerResponse struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name"`
	Surname         string          `json:"surname"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	UsedCreditLimit decimal.Decimal `json:"used_credit_limit"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (c *Customer) ToResponse() *CustomerResponse {
	return &CustomerResponse{
		ID:              c.ID,
		Name:            c.Name,
		Surname:         c.Surname,
		CreditLimit:     c.CreditLimit,
		UsedCreditLimit: c.UsedCreditLimit,
		AvailableCredit: c.AvailableCredit(),
		CreatedAt:       c.CreatedAt,
	}
}

// Loan represents loans table. LoanAmount is the total payable figure
// (principal grossed up by interest), not the principal alone.
type Loan struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	CustomerID           uint            `gorm:"not null;index" json:"customer_id"`
	LoanAmount           decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"loan_amount"`
	NumberOfInstallments int             `gorm:"not null" json:"number_of_installments"`
	InterestRate         decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	CreateDate           time.Time       `gorm:"type:date;not null" json:"create_date"`
	IsPaid               bool            `gorm:"not null;default:false" json:"is_paid"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt            gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relations
	Customer     *Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Installments []LoanInstallment `gorm:"foreignKey:LoanID" json:"installments,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// LoanResponse DTO
type LoanResponse struct {
	ID                   uint                  `json:"id"`
	CustomerID           uint                  `json:"customer_id"`
	CustomerName         string                `json:"customer_name,omitempty"`
	LoanAmount           decimal.Decimal       `json:"loan_amount"`
	NumberOfInstallments int                   `json:"number_of_installments"`
	InterestRate         decimal.Decimal       `json:"interest_rate"`
	CreateDate           string                `json:"create_date"`
	IsPaid               bool                  `json:"is_paid"`
	Installments         []InstallmentResponse `json:"installments,omitempty"`
}

func (l *Loan) ToResponse() *LoanResponse {
	resp := &LoanResponse{
		ID:                   l.ID,
		CustomerID:           l.CustomerID,
		LoanAmount:           l.LoanAmount,
		NumberOfInstallments: l.NumberOfInstallments,
		InterestRate:         l.InterestRate,
		CreateDate:           l.CreateDate.Format("2006-01-02"),
		IsPaid:               l.IsPaid,
	}

	if l.Customer != nil {
		resp.CustomerName = l.Customer.Name + " " + l.Customer.Surname
	}

	for i := range l.Installments {
		resp.Installments = append(resp.Installments, *l.Installments[i].ToResponse())
	}

	return resp
}

// LoanInstallment represents loan_installments table. DueDate order is the
// authoritative payment order; InstallmentNumber is informational.
type LoanInstallment struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	LoanID            uint            `gorm:"not null;index" json:"loan_id"`
	InstallmentNumber int             `gorm:"not null" json:"installment_number"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaidAmount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"paid_amount"`
	DueDate           time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	PaymentDate       *time.Time      `gorm:"type:date" json:"payment_date"`
	IsPaid            bool            `gorm:"not null;default:false" json:"is_paid"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Loan *Loan `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
}

func (LoanInstallment) TableName() string {
	return "loan_installments"
}

// InstallmentResponse DTO
type InstallmentResponse struct {
	ID                uint            `json:"id"`
	LoanID            uint            `json:"loan_id"`
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	DueDate           string          `json:"due_date"`
	PaymentDate       *string         `json:"payment_date"`
	IsPaid            bool            `json:"is_paid"`
}

func (i *LoanInstallment) ToResponse() *InstallmentResponse {
	resp := &InstallmentResponse{
		ID:                i.ID,
		LoanID:            i.LoanID,
		InstallmentNumber: i.InstallmentNumber,
		Amount:            i.Amount,
		PaidAmount:        i.PaidAmount,
		DueDate:           i.DueDate.Format("2006-01-02"),
		IsPaid:            i.IsPaid,
	}

	if i.PaymentDate != nil {
		d := i.PaymentDate.Format("2006-01-02")
		resp.PaymentDate = &d
	}

	return resp
}

// TotalPaid sums PaidAmount across installments, rounded to 2 decimals.
func TotalPaid(installments []LoanInstallment) decimal.Decimal {
	total := decimal.Zero
	for i := range installments {
		total = total.Add(installments[i].PaidAmount)
	}
	return money.Round2(total)
}

// ============================================================
// History Tables
// ============================================================

// LoanTransaction records every mutation of a loan or customer credit line.
type LoanTransaction struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	Reference        string           `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	TransactionType  string           `gorm:"size:30;not null" json:"transaction_type"`
	CustomerID       uint             `gorm:"not null;index" json:"customer_id"`
	LoanID           *uint            `gorm:"index" json:"loan_id"`
	Amount           *decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount"`
	InstallmentsPaid *int             `json:"installments_paid"`
	Description      string           `gorm:"type:text" json:"description"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Loan     *Loan     `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
}

func (LoanTransaction) TableName() string {
	return "loan_transactions"
}

// Transaction Types
const (
	TxTypeLoanCreate     = "LOAN_CREATE"
	TxTypePayInstallment = "PAY_INSTALLMENT"
	TxTypePayLoan        = "PAY_LOAN"
	TxTypeLimitUpdate    = "LIMIT_UPDATE"
)

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates the schema for all tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Customer{},
		&Loan{},
		&LoanInstallment{},
		&LoanTransaction{},
	)
}
