package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
)

// respondError traduce errores de dominio a respuestas HTTP. Un widget fallido no pasa
// por aquí: es una vista con status "failed" y se responde 200.
func respondError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrWidgetNotFound):
		status, code = fiber.StatusNotFound, "WIDGET_NOT_FOUND"
	case errors.Is(err, domain.ErrBoardNotFound):
		status, code = fiber.StatusNotFound, "BOARD_NOT_FOUND"
	case errors.Is(err, domain.ErrBoardClosed):
		status, code = fiber.StatusGone, "BOARD_CLOSED"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "INVALID_INPUT"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func invalidBody(c *fiber.Ctx) error {
	return respondError(c, fmt.Errorf("%w: cuerpo JSON inválido", domain.ErrInvalidInput))
}
