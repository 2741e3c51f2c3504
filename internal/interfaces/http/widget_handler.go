package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Inventario-dashboard/internal/application/analytics"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
)

// WidgetHandler carga puntual de widgets.
type WidgetHandler struct {
	uc *appanalytics.WidgetUseCase
}

// NewWidgetHandler construye el handler.
func NewWidgetHandler(uc *appanalytics.WidgetUseCase) *WidgetHandler {
	return &WidgetHandler{uc: uc}
}

// paramsFromQuery filtros reconocidos del query string; el resto se ignora.
func paramsFromQuery(c *fiber.Ctx) widget.Params {
	return widget.NewParams(c.Queries())
}

// List godoc
// @Summary      Catálogo de widgets
// @Tags         widgets
// @Produce      json
// @Success      200  {array}  dto.WidgetDefinitionDTO
// @Router       /api/widgets [get]
func (h *WidgetHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.uc.List())
}

// Get godoc
// @Summary      Carga un widget con los filtros del query string
// @Description  Un fallo del backend no es error HTTP: se responde 200 con status "failed".
// @Tags         widgets
// @Produce      json
// @Param        id         path   string  true   "Id del widget"
// @Param        warehouse  query  string  false  "Bodega"
// @Param        date_from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        date_to    query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        status     query  string  false  "Estado"
// @Param        group_by   query  string  false  "Agrupación (day, week, month)"
// @Param        page       query  int     false  "Página"
// @Param        per_page   query  int     false  "Tamaño de página"
// @Param        search     query  string  false  "Texto de búsqueda"
// @Success      200  {object}  dto.WidgetViewDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/widgets/{id} [get]
func (h *WidgetHandler) Get(c *fiber.Ctx) error {
	view, err := h.uc.Load(c.UserContext(), c.Params("id"), paramsFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// ExportPDF godoc
// @Summary      Exporta el widget a PDF
// @Tags         widgets
// @Produce      application/pdf
// @Param        id  path  string  true  "Id del widget"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/widgets/{id}/export.pdf [get]
func (h *WidgetHandler) ExportPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	doc, err := h.uc.ExportPDF(c.UserContext(), id, paramsFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+id+`.pdf"`)
	return c.Send(doc)
}
