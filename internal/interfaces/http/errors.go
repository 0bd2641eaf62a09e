package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/vouchers-api/internal/application/dto"
	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/domain/genealogy"
)

// localError guarda el error de un 500 para que Observe lo registre.
const localError = "http_error"

// errorMapping asocia un error de dominio con su respuesta HTTP.
type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: los errores más específicos van primero.
var errorMappings = []errorMapping{
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrLoginAlreadyExists, fiber.StatusConflict, "LOGIN_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInvalidInvitation, fiber.StatusBadRequest, "INVALID_INVITATION"},
	{domain.ErrUnknownVoucherType, fiber.StatusBadRequest, "UNKNOWN_VOUCHER_TYPE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnsupportedFile, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_FILE"},
	{domain.ErrNoValidRows, fiber.StatusUnprocessableEntity, "NO_VALID_ROWS"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// CycleErrorResponse cuerpo de 409 cuando la genealogía tiene ciclos.
type CycleErrorResponse struct {
	dto.ErrorResponse
	IDs []int64 `json:"ids"`
}

// writeError traduce err a la respuesta HTTP correspondiente. Lo no mapeado es 500.
func writeError(c *fiber.Ctx, err error) error {
	var cycle *genealogy.CycleError
	if errors.As(err, &cycle) {
		return c.Status(fiber.StatusConflict).JSON(CycleErrorResponse{
			ErrorResponse: dto.ErrorResponse{Code: "HIERARCHY_CYCLE", Message: err.Error()},
			IDs:           cycle.IDs,
		})
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	c.Locals(localError, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
