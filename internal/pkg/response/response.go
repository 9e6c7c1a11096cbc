package response

import "github.com/gofiber/fiber/v2"

// Response is the envelope every endpoint returns. Successful calls carry
// Message and Data; failures carry Error and nothing else.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func fail(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

// Success sends a 200 with the given payload
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 with the stored entity as payload
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// BadRequest sends a 400 for malformed or invalid input
func BadRequest(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 for missing or rejected credentials
func Unauthorized(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 when the operator's role does not allow the call
func Forbidden(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 for a missing customer, loan or installment
func NotFound(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusNotFound, message)
}

// Conflict sends a 409 when the operation clashes with current state, such
// as an exhausted credit line or a loan that is already settled
func Conflict(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusConflict, message)
}

// InternalServerError sends a 500 with a generic message; internals never
// leak into the envelope
func InternalServerError(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusInternalServerError, message)
}
