package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/application/stock"
	"github.com/jhoicas/eboutique-api/internal/domain"
	"github.com/jhoicas/eboutique-api/pkg/logger"
)

// errorLog logger de errores internos de los handlers (Nop hasta que el router lo configure).
var errorLog = logger.Nop()

// errorMapping código HTTP y código de error para un sentinel de dominio.
type errorMapping struct {
	target error
	status int
	code   string
}

// Orden: los más específicos primero.
var errorMappings = []errorMapping{
	{domain.ErrInsufficientStock, fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
	{domain.ErrNoShopsInRadius, fiber.StatusNotFound, "NO_SHOPS_IN_RADIUS"},
	{domain.ErrNoStockInRadius, fiber.StatusNotFound, "NO_STOCK_IN_RADIUS"},
	{domain.ErrAddressNotFound, fiber.StatusBadRequest, "ADDRESS_NOT_FOUND"},
	{domain.ErrNoShopAssociation, fiber.StatusBadRequest, "NO_SHOP_ASSOCIATION"},
	{domain.ErrNoResponsibleParty, fiber.StatusBadRequest, "NO_RESPONSIBLE_PARTY"},
	{domain.ErrAlreadyPending, fiber.StatusConflict, "ALREADY_PENDING"},
	{domain.ErrNotPending, fiber.StatusConflict, "NOT_PENDING"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrNotAuthorized, fiber.StatusForbidden, "NOT_AUTHORIZED"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{stock.ErrReportUnavailable, fiber.StatusServiceUnavailable, "REPORT_UNAVAILABLE"},
}

// writeError traduce un error de aplicación a la respuesta HTTP.
// Los ValidationErrors llevan el detalle por campo (y línea en importaciones).
func writeError(c *fiber.Ctx, err error) error {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
			Code: "VALIDATION", Message: domain.ErrInvalidInput.Error(), Errors: verrs,
		})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.target.Error()})
		}
	}
	errorLog.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// badBody respuesta estándar para un cuerpo que no se pudo parsear.
func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
