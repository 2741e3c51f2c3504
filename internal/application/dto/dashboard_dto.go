package dto

import "time"

// WidgetDefinitionDTO entrada del catálogo de widgets (GET /api/widgets).
type WidgetDefinitionDTO struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Kind     string   `json:"kind"` // chart | table | timeline
	Endpoint string   `json:"endpoint"`
	Category string   `json:"category,omitempty"`
	Series   []string `json:"series,omitempty"`
}

// SeriesDTO valores de una serie, paralelos a ChartDTO.Categories.
type SeriesDTO struct {
	Field  string    `json:"field"`
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// ChartDTO arrays paralelos listos para la librería de gráficos del navegador.
type ChartDTO struct {
	Categories []string    `json:"categories"`
	Series     []SeriesDTO `json:"series"`
}

// TimelineBarDTO barra del diagrama Gantt de pedidos.
type TimelineBarDTO struct {
	OrderID       string    `json:"order_id"`
	Label         string    `json:"label"`
	Status        string    `json:"status,omitempty"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	OffsetHours   float64   `json:"offset_hours"`   // desde TimelineDTO.Start
	DurationHours float64   `json:"duration_hours"` // End - Start
}

// TimelineDTO diagrama Gantt. Status "pending" mientras el renderizador no está disponible.
type TimelineDTO struct {
	Status  string           `json:"status"` // ready | pending | failed
	Message string           `json:"message,omitempty"`
	Start   *time.Time       `json:"start,omitempty"`
	End     *time.Time       `json:"end,omitempty"`
	Bars    []TimelineBarDTO `json:"bars,omitempty"`
	Skipped int              `json:"skipped,omitempty"` // filas con fechas inválidas
}

// WidgetViewDTO estado de un widget tal como lo pinta el navegador.
//
// Un widget fallido NO es un error HTTP: se responde 200 con status "failed" y el
// mensaje para el recuadro de error del widget.
type WidgetViewDTO struct {
	WidgetID   string            `json:"widget_id"`
	Title      string            `json:"title"`
	Kind       string            `json:"kind"`
	Status     string            `json:"status"` // loading | failed | ready
	Message    string            `json:"message,omitempty"`
	Empty      bool              `json:"empty"`
	Params     map[string]string `json:"params"`
	Sequence   uint64            `json:"sequence"`
	Rows       []map[string]any  `json:"rows,omitempty"`
	Chart      *ChartDTO         `json:"chart,omitempty"`
	Timeline   *TimelineDTO      `json:"timeline,omitempty"`
	Pagination map[string]any    `json:"pagination,omitempty"`
	Summary    map[string]any    `json:"summary,omitempty"`
}

// BoardDTO tablero abierto (una página del dashboard con sus widgets).
type BoardDTO struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Widgets   []WidgetViewDTO `json:"widgets"`
}

// CreateBoardRequest cuerpo de POST /api/boards. Sin widgets se abren todos los del catálogo.
type CreateBoardRequest struct {
	Widgets []string          `json:"widgets"`
	Params  map[string]string `json:"params"`
}

// UpdateParamsRequest cuerpo de PUT /api/boards/:id/widgets/:widget/params.
// Con Merge los filtros se superponen a los actuales; si no, los reemplazan.
type UpdateParamsRequest struct {
	Params map[string]string `json:"params"`
	Merge  bool              `json:"merge"`
}

// SearchRequest cuerpo de POST /api/boards/:id/widgets/:widget/search.
type SearchRequest struct {
	Text      string `json:"text"`
	Immediate bool   `json:"immediate"` // confirma sin esperar la ventana de debounce
}

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary: todos los widgets
// cargados en paralelo con los mismos filtros.
type DashboardSummaryDTO struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Params      map[string]string `json:"params"`
	Ready       int               `json:"ready"`
	Failed      int               `json:"failed"`
	Empty       int               `json:"empty"`
	Widgets     []WidgetViewDTO   `json:"widgets"`
}
