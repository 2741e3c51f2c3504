package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Inventario-dashboard/internal/application/analytics"
)

// DashboardHandler maneja el resumen del Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen con todos los widgets
// @Description  Carga en paralelo todos los widgets del catálogo con los mismos filtros.
// @Description  Un widget fallido aparece con status "failed" sin afectar a los demás.
// @Tags         dashboard
// @Produce      json
// @Param        warehouse  query  string  false  "Bodega"
// @Param        date_from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        date_to    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), paramsFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
