package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// HeaderRequestID cabecera de correlación que se propaga en la respuesta.
const HeaderRequestID = "X-Request-ID"

const localRequestID = "request_id"

// RequestID asigna un uuid a cada petición salvo que el cliente ya envíe uno.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     HeaderRequestID,
		Generator:  uuid.NewString,
		ContextKey: localRequestID,
	})
}

// GetRequestID id de la petición en curso.
func GetRequestID(c *fiber.Ctx) string { return localString(c, localRequestID) }

// RequestLogger registra método, ruta, estado y duración de cada petición, con el
// usuario y la empresa cuando la API exige token.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("request_id", GetRequestID(c)).
			Str("user_id", GetUserID(c)).
			Str("company_id", GetCompanyID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("petición HTTP")
		return err
	}
}
