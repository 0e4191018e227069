package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/consignado-api/internal/application/dto"
	"github.com/tu-usuario/consignado-api/internal/domain"
)

// respondError traduce errores de dominio a respuestas HTTP. Los errores
// estructurados (stock, tope de devolución, desglose, rollback) exponen sus
// campos en Details para que el cliente arme mensajes accionables.
func respondError(c *fiber.Ctx, err error) error {
	var stockErr *domain.StockInsuficienteError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: stockErr.Error(),
			Details: map[string]any{
				"disponible": stockErr.Disponible,
				"solicitado": stockErr.Solicitado,
			},
		})
	}
	var limErr *domain.LimiteDevolucionError
	if errors.As(err, &limErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "RETURN_LIMIT_EXCEEDED",
			Message: limErr.Error(),
			Details: map[string]any{
				"limite":      limErr.Limite,
				"ya_devuelto": limErr.YaDevuelto,
				"solicitado":  limErr.Solicitado,
			},
		})
	}
	var desErr *domain.DesgloseVentaError
	if errors.As(err, &desErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "MISMATCHED_SALE_BREAKDOWN",
			Message: desErr.Error(),
			Details: map[string]any{
				"producto_id": desErr.ProductoID,
				"esperado":    desErr.Esperado,
				"recibido":    desErr.Recibido,
			},
		})
	}
	var rbErr *domain.RollbackCriticoError
	if errors.As(err, &rbErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:    "CRITICAL_ROLLBACK_FAILURE",
			Message: rbErr.Error(),
			Details: map[string]any{
				"condicional_id": rbErr.CondicionalID,
				"productos":      rbErr.Productos,
			},
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrCantidadInvalida):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrStockInsuficiente), errors.Is(err, domain.ErrReservaInsuficiente):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrCondicionalInactiva):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INACTIVE_CONSIGNMENT", Message: err.Error()})
	case errors.Is(err, domain.ErrProductoConCondicion):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PRODUCT_IN_CONSIGNMENT", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
