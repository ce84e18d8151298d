package response

import (
	"github.com/gofiber/fiber/v2"
)

// Response is the standard API envelope. Every user-facing message is in
// Spanish; the success flag is the machine-readable signal.
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Count   *int         `json:"count,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError describes a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Success returns a 200 response with data.
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMessage returns a 200 response with a message and data.
func SuccessWithMessage(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SuccessList returns a 200 response for list endpoints, carrying the number
// of returned rows.
func SuccessList(c *fiber.Ctx, data interface{}, count int) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Data:    data,
		Count:   &count,
	})
}

// Created returns a 201 response with a message and the created row.
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error returns a failure response with the given status.
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Message: message,
	})
}

// BadRequest returns a 400 response.
func BadRequest(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Solicitud inválida"
	}
	return Error(c, fiber.StatusBadRequest, message)
}

// ValidationFailed returns a 400 response with per-field errors. No mutation
// has been performed when this is emitted.
func ValidationFailed(c *fiber.Ctx, errors []FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(Response{
		Success: false,
		Message: "Errores de validación",
		Errors:  errors,
	})
}

// Unauthorized returns a 401 response.
func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Acceso denegado. Token requerido."
	}
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden returns a 403 response.
func Forbidden(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Permisos insuficientes"
	}
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound returns a 404 response.
func NotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Recurso no encontrado"
	}
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict returns a 409 response.
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

// TooManyRequests returns a 429 response.
func TooManyRequests(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Demasiadas solicitudes, intenta de nuevo más tarde"
	}
	return Error(c, fiber.StatusTooManyRequests, message)
}

// InternalServerError returns a 500 response. The underlying error is logged
// server-side by the caller, never echoed to the client.
func InternalServerError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Error interno del servidor"
	}
	return Error(c, fiber.StatusInternalServerError, message)
}
