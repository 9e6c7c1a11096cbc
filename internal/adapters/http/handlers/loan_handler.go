package handlers

import (
	"errors"
	"strconv"

	"creditline/internal/adapters/persistence/models"
	"creditline/internal/core/services"
	"creditline/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

// CreateLoanRequest represents create loan request body
type CreateLoanRequest struct {
	CustomerID           uint            `json:"customer_id"`
	Amount               decimal.Decimal `json:"amount"`
	InterestRate         decimal.Decimal `json:"interest_rate"`
	NumberOfInstallments string          `json:"number_of_installments"`
}

// PayRequest represents payment request body
type PayRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Create creates a new loan against a customer's credit line
// @Summary Create loan
// @Description Create a new loan, generate its installment schedule and reserve credit
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateLoanRequest true "Loan data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Create(c *fiber.Ctx) error {
	var req CreateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.CreateLoan(c.Context(), &services.CreateLoanInput{
		CustomerID:           req.CustomerID,
		Amount:               req.Amount,
		InterestRate:         req.InterestRate,
		NumberOfInstallments: req.NumberOfInstallments,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCustomerNotFound):
			return response.NotFound(c, "Customer not found")
		case errors.Is(err, services.ErrCreditLimitExceeded):
			return response.Conflict(c, err.Error())
		case errors.Is(err, services.ErrInvalidInstallmentCount),
			errors.Is(err, services.ErrInvalidInterestRate),
			errors.Is(err, services.ErrInvalidAmount),
			errors.Is(err, services.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create loan")
		}
	}

	return response.Created(c, "Loan created successfully", loan.ToResponse())
}

// List returns the loans of a customer, optionally filtered
// @Summary List loans
// @Description List loans of a customer, filterable by payment status and number of installments
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param customer_id query int true "Customer ID"
// @Param is_paid query bool false "Filter by payment status"
// @Param number_of_installments query int false "Filter by number of installments"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	customerID, err := strconv.Atoi(c.Query("customer_id"))
	if err != nil || customerID <= 0 {
		return response.BadRequest(c, "Invalid customer ID")
	}

	var isPaid *bool
	if v := c.Query("is_paid"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return response.BadRequest(c, "Invalid is_paid filter")
		}
		isPaid = &b
	}

	var numberOfInstallments *int
	if v := c.Query("number_of_installments"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return response.BadRequest(c, "Invalid number_of_installments filter")
		}
		numberOfInstallments = &n
	}

	var loans []*models.Loan
	if isPaid == nil && numberOfInstallments == nil {
		loans, err = h.loanService.GetLoansByCustomer(c.Context(), uint(customerID))
	} else {
		loans, err = h.loanService.GetLoansByCustomerWithFilters(c.Context(), uint(customerID), isPaid, numberOfInstallments)
	}
	if err != nil {
		if errors.Is(err, services.ErrLoanNotFound) {
			return response.NotFound(c, "No loans found for this customer")
		}
		return response.InternalServerError(c, "Failed to list loans")
	}

	resp := make([]*models.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		resp = append(resp, loan.ToResponse())
	}

	return response.Success(c, "Loans retrieved successfully", resp)
}

// GetByID returns a loan with its installment schedule
// @Summary Get loan
// @Description Get loan details including the installment schedule
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.GetLoanDetails(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to get loan")
	}

	return response.Success(c, "Loan retrieved successfully", loan.ToResponse())
}

// Pay allocates a payment amount across unpaid installments
// @Summary Pay loan
// @Description Pay whole installments of a loan in due-date order until the amount runs out
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body PayRequest true "Payment amount"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/pay [post]
func (h *LoanHandler) Pay(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req PayRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.loanService.PayLoan(c.Context(), uint(id), req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, services.ErrLoanAlreadyPaid):
			return response.Conflict(c, err.Error())
		case errors.Is(err, services.ErrInvalidAmount):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to pay loan")
		}
	}

	return response.Success(c, "Payment processed successfully", result)
}

// History returns the transaction history of a loan
// @Summary Loan history
// @Description List the ledger transactions recorded for a loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/history [get]
func (h *LoanHandler) History(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	history, err := h.loanService.GetHistory(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to get loan history")
	}

	return response.Success(c, "Loan history retrieved successfully", history)
}
