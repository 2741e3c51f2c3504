package analytics

import (
	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
)

// Kind forma en que el navegador pinta el widget.
type Kind string

const (
	KindChart    Kind = "chart"
	KindTable    Kind = "table"
	KindTimeline Kind = "timeline"
)

// Definition describe un widget: qué endpoint del backend consulta y cómo se
// convierten sus filas en series.
type Definition struct {
	ID       string
	Title    string
	Kind     Kind
	Endpoint string
	Mapping  widget.Mapping
	Defaults widget.Params // filtros que se aplican si la página no los fija
}

// Catalog conjunto ordenado de definiciones.
type Catalog struct {
	defs  []Definition
	index map[string]int
}

// NewCatalog construye un catálogo; un id repetido reemplaza al anterior.
func NewCatalog(defs ...Definition) *Catalog {
	c := &Catalog{index: map[string]int{}}
	for _, d := range defs {
		if i, ok := c.index[d.ID]; ok {
			c.defs[i] = d
			continue
		}
		c.index[d.ID] = len(c.defs)
		c.defs = append(c.defs, d)
	}
	return c
}

// Get busca una definición por id.
func (c *Catalog) Get(id string) (Definition, error) {
	i, ok := c.index[id]
	if !ok {
		return Definition{}, domain.ErrWidgetNotFound
	}
	return c.defs[i], nil
}

// All definiciones en orden de registro.
func (c *Catalog) All() []Definition {
	return append([]Definition(nil), c.defs...)
}

// IDs ids en orden de registro.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.defs))
	for _, d := range c.defs {
		ids = append(ids, d.ID)
	}
	return ids
}

// DTO listado para GET /api/widgets.
func (c *Catalog) DTO() []dto.WidgetDefinitionDTO {
	out := make([]dto.WidgetDefinitionDTO, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, dto.WidgetDefinitionDTO{
			ID:       d.ID,
			Title:    d.Title,
			Kind:     string(d.Kind),
			Endpoint: d.Endpoint,
			Category: d.Mapping.Category,
			Series:   append([]string(nil), d.Mapping.Series...),
		})
	}
	return out
}

// DefaultCatalog widgets de operación de bodega contra la API de inventario.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Definition{
			ID:       "stock_levels",
			Title:    "Niveles de stock por bodega",
			Kind:     KindChart,
			Endpoint: "/api/inventory/stock-levels",
			Mapping: widget.Mapping{
				Category: "warehouse",
				Series:   []string{"on_hand", "allocated", "available"},
				Labels: map[string]string{
					"on_hand":   "Existencia",
					"allocated": "Comprometido",
					"available": "Disponible",
				},
			},
		},
		Definition{
			ID:       "low_stock",
			Title:    "Productos bajo punto de reorden",
			Kind:     KindTable,
			Endpoint: "/api/inventory/low-stock",
			Mapping: widget.Mapping{
				Category: "sku",
				Series:   []string{"on_hand", "reorder_point"},
				Labels: map[string]string{
					"on_hand":       "Existencia",
					"reorder_point": "Punto de reorden",
				},
			},
		},
		Definition{
			ID:       "delivery_performance",
			Title:    "Desempeño de entregas",
			Kind:     KindChart,
			Endpoint: "/api/analytics/delivery-performance",
			Mapping: widget.Mapping{
				Category: "period",
				Series:   []string{"on_time", "late"},
				Labels: map[string]string{
					"on_time": "A tiempo",
					"late":    "Con retraso",
				},
			},
			Defaults: widget.NewParams(map[string]string{widget.ParamGroupBy: "week"}),
		},
		Definition{
			ID:       "order_fulfillment",
			Title:    "Cumplimiento de pedidos",
			Kind:     KindChart,
			Endpoint: "/api/analytics/order-fulfillment",
			Mapping: widget.Mapping{
				Category: "status",
				Series:   []string{"orders"},
				Labels:   map[string]string{"orders": "Pedidos"},
			},
		},
		Definition{
			ID:       "stock_movements",
			Title:    "Movimientos de inventario",
			Kind:     KindTable,
			Endpoint: "/api/inventory/movements",
			Mapping: widget.Mapping{
				Category: "date",
				Series:   []string{"inbound", "outbound"},
				Labels: map[string]string{
					"inbound":  "Entradas",
					"outbound": "Salidas",
				},
			},
			Defaults: widget.NewParams(map[string]string{widget.ParamPage: "1", widget.ParamPerPage: "20"}),
		},
		Definition{
			ID:       "order_timeline",
			Title:    "Línea de tiempo de pedidos",
			Kind:     KindTimeline,
			Endpoint: "/api/orders/timeline",
		},
	)
}
