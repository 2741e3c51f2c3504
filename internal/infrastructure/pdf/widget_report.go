// Package pdf genera el PDF exportable de un widget del dashboard.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del widget     │  Fecha de generación        │
//	│  Filtros aplicados                                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: categoría | serie 1 | serie 2 ...   (gráficos)      │
//	│         columnas de las filas                (tablas)       │
//	│         pedido | inicio | fin | horas        (línea tiempo) │
//	│  o AVISO: error / sin datos                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: paginación / filas omitidas                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorError   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

const (
	maxColumns = 6
	maxRows    = 500
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa analytics.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	printer *message.Printer
	now     func() time.Time
}

// NewMarotoReportGenerator construye el generador. Los números se formatean según
// lang (español si es vacío o inválido).
func NewMarotoReportGenerator(lang string) *MarotoReportGenerator {
	tag, err := language.Parse(lang)
	if err != nil || lang == "" {
		tag = language.Spanish
	}
	return &MarotoReportGenerator{printer: message.NewPrinter(tag), now: time.Now}
}

// GenerateWidgetPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateWidgetPDF(_ context.Context, view dto.WidgetViewDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(view.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(view))
	m.AddRows(paramsRow(view.Params))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	switch {
	case view.Status == string(widget.StatusFailed):
		m.AddRows(noticeRow("No se pudieron obtener los datos: "+view.Message, colorError))
	case view.Status == string(widget.StatusLoading):
		m.AddRows(noticeRow("El widget aún se está cargando.", colorGray))
	case view.Empty:
		m.AddRows(noticeRow(nonEmpty(view.Message, "Sin datos para los filtros seleccionados."), colorGray))
	case view.Timeline != nil && view.Timeline.Status == "ready":
		m.AddRows(g.timelineRows(view.Timeline)...)
	case view.Chart != nil:
		m.AddRows(g.chartRows(view.Chart)...)
	default:
		m.AddRows(g.tableRows(view.Rows)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRow(view))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del widget (izq) y fecha de generación (der).
func (g *MarotoReportGenerator) headerRow(view dto.WidgetViewDTO) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(view.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Widget: "+view.WidgetID, props.Text{
				Size: 8, Top: 8, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+g.now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// paramsRow: filtros aplicados en orden alfabético.
func paramsRow(params map[string]string) core.Row {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	return row.New(7).Add(col.New(12).Add(
		text.New("Filtros: "+nonEmpty(strings.Join(parts, "   |   "), "ninguno"), props.Text{
			Size: 8, Top: 1, Color: colorGray,
		}),
	))
}

func noticeRow(msg string, color *props.Color) core.Row {
	return row.New(12).Add(col.New(12).Add(
		text.New(msg, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Center, Top: 4, Color: color,
		}),
	))
}

// chartRows: una fila por categoría y una columna por serie.
func (g *MarotoReportGenerator) chartRows(chart *dto.ChartDTO) []core.Row {
	series := chart.Series
	if len(series) > maxColumns-1 {
		series = series[:maxColumns-1]
	}
	header := []string{""}
	for _, s := range series {
		header = append(header, s.Label)
	}

	out := []core.Row{headerCells(header)}
	for i, cat := range chart.Categories {
		if i >= maxRows {
			break
		}
		cells := []string{cat}
		for _, s := range series {
			var v float64
			if i < len(s.Values) {
				v = s.Values[i]
			}
			cells = append(cells, g.number(v))
		}
		out = append(out, bodyCells(cells))
	}
	return out
}

// tableRows: columnas tomadas de las claves de las filas.
func (g *MarotoReportGenerator) tableRows(rows []map[string]any) []core.Row {
	cols := columnsOf(rows)
	out := []core.Row{headerCells(cols)}
	for i, r := range rows {
		if i >= maxRows {
			break
		}
		cells := make([]string, 0, len(cols))
		for _, c := range cols {
			cells = append(cells, g.cell(r[c]))
		}
		out = append(out, bodyCells(cells))
	}
	return out
}

func (g *MarotoReportGenerator) timelineRows(tl *dto.TimelineDTO) []core.Row {
	out := []core.Row{headerCells([]string{"Pedido", "Estado", "Inicio", "Fin", "Horas"})}
	for i, b := range tl.Bars {
		if i >= maxRows {
			break
		}
		out = append(out, bodyCells([]string{
			b.Label,
			b.Status,
			b.Start.Format("02/01/2006 15:04"),
			b.End.Format("02/01/2006 15:04"),
			g.number(b.DurationHours),
		}))
	}
	return out
}

func (g *MarotoReportGenerator) footerRow(view dto.WidgetViewDTO) core.Row {
	var notes []string
	if total, ok := view.Pagination["total"]; ok {
		notes = append(notes, "Total de registros: "+g.cell(total))
	}
	if page, ok := view.Pagination["page"]; ok {
		notes = append(notes, "Página: "+g.cell(page))
	}
	if view.Timeline != nil && view.Timeline.Skipped > 0 {
		notes = append(notes, g.printer.Sprintf("Filas con fechas inválidas omitidas: %d", view.Timeline.Skipped))
	}
	if len(view.Rows) > maxRows {
		notes = append(notes, g.printer.Sprintf("Se muestran %d de %d filas", maxRows, len(view.Rows)))
	}
	return row.New(6).Add(col.New(12).Add(
		text.New(strings.Join(notes, "   |   "), props.Text{Size: 7, Top: 1, Color: colorGray}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func headerCells(labels []string) core.Row {
	size := colSize(len(labels))
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		a := align.Right
		if i == 0 {
			a = align.Left
		}
		cols = append(cols, col.New(size).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

func bodyCells(cells []string) core.Row {
	size := colSize(len(cells))
	cols := make([]core.Col, 0, len(cells))
	for i, c := range cells {
		a := align.Right
		if i == 0 {
			a = align.Left
		}
		cols = append(cols, col.New(size).Add(text.New(c, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

func colSize(n int) int {
	if n <= 0 {
		return 12
	}
	return 12 / n
}

// columnsOf claves de todas las filas, ordenadas, hasta maxColumns.
func columnsOf(rows []map[string]any) []string {
	seen := map[string]bool{}
	var cols []string
	for _, r := range rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	if len(cols) > maxColumns {
		cols = cols[:maxColumns]
	}
	return cols
}

func (g *MarotoReportGenerator) cell(v any) string {
	switch t := v.(type) {
	case nil:
		return "—"
	case string:
		return t
	case bool:
		if t {
			return "sí"
		}
		return "no"
	case map[string]any, []any:
		return "…"
	default:
		return g.number(widget.ToNumber(v))
	}
}

// number formatea con separadores del idioma; hasta dos decimales.
func (g *MarotoReportGenerator) number(v float64) string {
	if v == float64(int64(v)) {
		return g.printer.Sprintf("%d", int64(v))
	}
	return g.printer.Sprintf("%.2f", v)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
