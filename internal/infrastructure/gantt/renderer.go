// Package gantt convierte las filas del widget de línea de tiempo en barras de un
// diagrama Gantt. Se publica en el registro de capacidades como "gantt".
package gantt

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
)

// Campos esperados en cada fila.
const (
	FieldOrderID = "order_id"
	FieldLabel   = "label"
	FieldStart   = "start"
	FieldEnd     = "end"
	FieldStatus  = "status"
)

var layouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// Renderer implementa analytics.TimelineRenderer.
type Renderer struct {
	loc *time.Location
}

// NewRenderer construye el renderizador. Las fechas sin zona se interpretan en loc
// (UTC si es nil).
func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{loc: loc}
}

// RenderTimeline genera las barras ordenadas por inicio. Las filas con fechas
// ilegibles o con fin anterior al inicio se omiten y se cuentan en Skipped. Si no
// queda ninguna barra válida devuelve error.
func (r *Renderer) RenderTimeline(rows []widget.Row) (*dto.TimelineDTO, error) {
	bars := make([]dto.TimelineBarDTO, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		start, okStart := r.parseTime(row[FieldStart])
		end, okEnd := r.parseTime(row[FieldEnd])
		if !okStart || !okEnd || end.Before(start) {
			skipped++
			continue
		}
		id := widget.ToText(row[FieldOrderID])
		label := widget.ToText(row[FieldLabel])
		if label == "" {
			label = id
		}
		bars = append(bars, dto.TimelineBarDTO{
			OrderID: id,
			Label:   label,
			Status:  widget.ToText(row[FieldStatus]),
			Start:   start,
			End:     end,
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("ninguna fila con fechas válidas (%d omitidas)", skipped)
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Start.Before(bars[j].Start) })

	first := bars[0].Start
	last := bars[0].End
	for i := range bars {
		if bars[i].End.After(last) {
			last = bars[i].End
		}
		bars[i].OffsetHours = hours(bars[i].Start.Sub(first))
		bars[i].DurationHours = hours(bars[i].End.Sub(bars[i].Start))
	}

	return &dto.TimelineDTO{
		Status:  "ready",
		Start:   &first,
		End:     &last,
		Bars:    bars,
		Skipped: skipped,
	}, nil
}

func (r *Renderer) parseTime(v any) (time.Time, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case json.Number:
		// Epoch en segundos.
		sec, err := t.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(sec, 0).In(r.loc), true
	default:
		return time.Time{}, false
	}
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if ts, err := time.ParseInLocation(layout, s, r.loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// hours redondeado a dos decimales.
func hours(d time.Duration) float64 {
	return decimal.NewFromFloat(d.Hours()).Round(2).InexactFloat64()
}
