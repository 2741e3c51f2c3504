package analytics

import (
	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
)

const (
	emptyMessage           = "sin datos para los filtros seleccionados"
	timelinePendingMessage = "renderizador de línea de tiempo aún no disponible"
)

// BuildView convierte el estado de un widget en lo que pinta el navegador: series para
// gráficos y tablas, diagrama Gantt para la línea de tiempo, o el mensaje de error o
// de vacío.
func BuildView(def Definition, st widget.State, caps *widget.Registry) dto.WidgetViewDTO {
	v := dto.WidgetViewDTO{
		WidgetID: def.ID,
		Title:    def.Title,
		Kind:     string(def.Kind),
		Status:   string(st.Status),
		Params:   st.Params.Map(),
		Sequence: st.Sequence,
	}

	switch st.Status {
	case widget.StatusFailed:
		v.Message = st.Message
		return v
	case widget.StatusLoading:
		return v
	}

	rows := st.Rows()
	v.Pagination = st.Payload.Pagination
	v.Summary = st.Payload.Summary
	if len(rows) == 0 {
		// Items vacíos o con forma inesperada: "sin datos", no error.
		v.Empty = true
		v.Message = emptyMessage
		return v
	}

	v.Rows = make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		v.Rows = append(v.Rows, map[string]any(r))
	}

	switch def.Kind {
	case KindTimeline:
		v.Timeline = renderTimeline(caps, rows)
	default:
		v.Chart = chartDTO(widget.DeriveSeries(rows, def.Mapping))
	}
	return v
}

func chartDTO(s widget.Series) *dto.ChartDTO {
	out := &dto.ChartDTO{
		Categories: s.Categories,
		Series:     make([]dto.SeriesDTO, 0, len(s.Series)),
	}
	for _, sv := range s.Series {
		out.Series = append(out.Series, dto.SeriesDTO{Field: sv.Field, Label: sv.Label, Values: sv.Values})
	}
	return out
}

func renderTimeline(caps *widget.Registry, rows []widget.Row) *dto.TimelineDTO {
	renderer, ok := widget.Resolve[TimelineRenderer](caps, TimelineCapability)
	if !ok {
		return &dto.TimelineDTO{Status: "pending", Message: timelinePendingMessage}
	}
	tl, err := renderer.RenderTimeline(rows)
	if err != nil {
		return &dto.TimelineDTO{Status: "failed", Message: err.Error()}
	}
	return tl
}
