package analytics

import (
	"context"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
)

// TimelineCapability nombre con el que se publica el renderizador Gantt en el registro
// de capacidades.
const TimelineCapability = "gantt"

// TimelineRenderer capacidad opcional que convierte filas de pedidos en un diagrama
// Gantt. Puede no estar disponible al arrancar; el widget de línea de tiempo la
// resuelve en cada vista.
type TimelineRenderer interface {
	RenderTimeline(rows []widget.Row) (*dto.TimelineDTO, error)
}

// ReportGenerator genera el PDF exportable de un widget a partir de su vista.
type ReportGenerator interface {
	GenerateWidgetPDF(ctx context.Context, view dto.WidgetViewDTO) ([]byte, error)
}
