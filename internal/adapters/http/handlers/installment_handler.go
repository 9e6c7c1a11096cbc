package handlers

import (
	"errors"

	"creditline/internal/adapters/persistence/models"
	"creditline/internal/core/services"
	"creditline/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// InstallmentHandler handles installment endpoints
type InstallmentHandler struct {
	installmentService *services.InstallmentService
}

// NewInstallmentHandler creates a new installment handler
func NewInstallmentHandler(installmentService *services.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{
		installmentService: installmentService,
	}
}

// List returns the installment schedule of a loan
// @Summary List installments
// @Description List the installments of a loan in due-date order
// @Tags Installments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/installments [get]
func (h *InstallmentHandler) List(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	installments, err := h.installmentService.GetInstallmentsByLoan(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to list installments")
	}

	return response.Success(c, "Installments retrieved successfully", toInstallmentResponses(installments))
}

// Pay pays the earliest-due unpaid installment of a loan
// @Summary Pay installment
// @Description Pay the next due installment; the amount must cover it in full
// @Tags Installments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body PayRequest true "Payment amount"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/installments/pay [post]
func (h *InstallmentHandler) Pay(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req PayRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.installmentService.PayInstallment(c.Context(), uint(id), req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, services.ErrLoanAlreadyPaid):
			return response.Conflict(c, err.Error())
		case errors.Is(err, services.ErrNoUnpaidInstallments):
			return response.Conflict(c, err.Error())
		case errors.Is(err, services.ErrInsufficientPayment),
			errors.Is(err, services.ErrInvalidAmount):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to pay installment")
		}
	}

	return response.Success(c, "Installment paid successfully", result)
}

// Overdue returns the overdue unpaid installments of a loan
// @Summary List overdue installments
// @Description List unpaid installments whose due date has passed
// @Tags Installments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/installments/overdue [get]
func (h *InstallmentHandler) Overdue(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	installments, err := h.installmentService.GetOverdueInstallments(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to list overdue installments")
	}

	return response.Success(c, "Overdue installments retrieved successfully", toInstallmentResponses(installments))
}

// AnnuityPreview returns an annuity view of a loan's schedule
// @Summary Annuity schedule preview
// @Description Compute an annuity-style schedule for a loan without persisting it
// @Tags Installments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/annuity-preview [get]
func (h *InstallmentHandler) AnnuityPreview(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	installments, err := h.installmentService.PreviewAnnuitySchedule(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to compute annuity preview")
	}

	return response.Success(c, "Annuity preview computed successfully", toInstallmentResponses(installments))
}

func toInstallmentResponses(installments []models.LoanInstallment) []models.InstallmentResponse {
	resp := make([]models.InstallmentResponse, 0, len(installments))
	for i := range installments {
		resp = append(resp, *installments[i].ToResponse())
	}
	return resp
}
