package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Inventario-dashboard/internal/application/analytics"
	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
)

// BoardHandler tableros con estado: la página se monta con POST y se desmonta con
// DELETE; entre medio el navegador consulta el estado de cada widget.
type BoardHandler struct {
	uc *appanalytics.BoardUseCase
}

// NewBoardHandler construye el handler.
func NewBoardHandler(uc *appanalytics.BoardUseCase) *BoardHandler {
	return &BoardHandler{uc: uc}
}

// Create godoc
// @Summary      Monta un tablero
// @Description  Sin widgets se montan todos los del catálogo. Cada widget empieza en loading.
// @Tags         boards
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBoardRequest  false  "Widgets y filtros iniciales"
// @Success      201  {object}  dto.BoardDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boards [post]
func (h *BoardHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateBoardRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
	}
	board, err := h.uc.Create(c.UserContext(), req.Widgets, widget.NewParams(req.Params))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(board)
}

// Get godoc
// @Summary      Estado de todos los widgets del tablero
// @Tags         boards
// @Produce      json
// @Param        id  path  string  true  "Id del tablero"
// @Success      200  {object}  dto.BoardDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boards/{id} [get]
func (h *BoardHandler) Get(c *fiber.Ctx) error {
	board, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(board)
}

// Delete godoc
// @Summary      Desmonta el tablero
// @Tags         boards
// @Param        id  path  string  true  "Id del tablero"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boards/{id} [delete]
func (h *BoardHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetWidget godoc
// @Summary      Estado de un widget del tablero
// @Tags         boards
// @Produce      json
// @Param        id      path  string  true  "Id del tablero"
// @Param        widget  path  string  true  "Id del widget"
// @Success      200  {object}  dto.WidgetViewDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boards/{id}/widgets/{widget} [get]
func (h *BoardHandler) GetWidget(c *fiber.Ctx) error {
	view, err := h.uc.View(c.UserContext(), c.Params("id"), c.Params("widget"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// SetParams godoc
// @Summary      Cambia los filtros de un widget y lo recarga
// @Tags         boards
// @Accept       json
// @Produce      json
// @Param        id      path  string                   true  "Id del tablero"
// @Param        widget  path  string                   true  "Id del widget"
// @Param        body    body  dto.UpdateParamsRequest  true  "Filtros"
// @Success      202  {object}  dto.WidgetViewDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boards/{id}/widgets/{widget}/params [put]
func (h *BoardHandler) SetParams(c *fiber.Ctx) error {
	var req dto.UpdateParamsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	view, err := h.uc.SetParams(c.UserContext(), c.Params("id"), c.Params("widget"), req.Params, req.Merge)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(view)
}

// Search godoc
// @Summary      Texto de búsqueda del widget (con debounce)
// @Description  La recarga se hace cuando se deja de escribir durante la ventana de debounce,
// @Description  o de inmediato con immediate=true.
// @Tags         boards
// @Accept       json
// @Produce      json
// @Param        id      path  string             true  "Id del tablero"
// @Param        widget  path  string             true  "Id del widget"
// @Param        body    body  dto.SearchRequest  true  "Texto"
// @Success      202  {object}  dto.WidgetViewDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boards/{id}/widgets/{widget}/search [post]
func (h *BoardHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	view, err := h.uc.Search(c.UserContext(), c.Params("id"), c.Params("widget"), req.Text, req.Immediate)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(view)
}
