package handlers

import (
	"errors"

	"creditline/internal/core/services"
	"creditline/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	customerService *services.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// CreateCustomerRequest represents create customer request body
type CreateCustomerRequest struct {
	Name        string          `json:"name"`
	Surname     string          `json:"surname"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// UpdateCreditLimitRequest represents credit limit update request body
type UpdateCreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// Create creates a new customer
// @Summary Create customer
// @Description Create a new customer with a credit limit
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCustomerRequest true "Customer data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var req CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	customer, err := h.customerService.Create(c.Context(), &services.CreateCustomerInput{
		Name:        req.Name,
		Surname:     req.Surname,
		CreditLimit: req.CreditLimit,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCreditLimit), errors.Is(err, services.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create customer")
		}
	}

	return response.Created(c, "Customer created successfully", customer.ToResponse())
}

// GetByID returns a customer with its credit usage
// @Summary Get customer
// @Description Get customer details including available credit
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid customer ID")
	}

	customer, err := h.customerService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return response.NotFound(c, "Customer not found")
		}
		return response.InternalServerError(c, "Failed to get customer")
	}

	return response.Success(c, "Customer retrieved successfully", customer.ToResponse())
}

// UpdateCreditLimit changes a customer's credit limit
// @Summary Update credit limit
// @Description Update the credit limit of a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Param body body UpdateCreditLimitRequest true "New credit limit"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers/{id}/credit-limit [patch]
func (h *CustomerHandler) UpdateCreditLimit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid customer ID")
	}

	var req UpdateCreditLimitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	customer, err := h.customerService.UpdateCreditLimit(c.Context(), uint(id), req.CreditLimit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCustomerNotFound):
			return response.NotFound(c, "Customer not found")
		case errors.Is(err, services.ErrInvalidCreditLimit):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to update credit limit")
		}
	}

	return response.Success(c, "Credit limit updated successfully", customer.ToResponse())
}
