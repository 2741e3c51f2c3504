package widget

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Mapping describe qué campo de cada fila es la categoría del gráfico y qué campos
// numéricos se convierten en series.
type Mapping struct {
	Category string
	Series   []string
	Labels   map[string]string // campo -> etiqueta visible; opcional
}

// SeriesValues valores de una serie, paralelos a Series.Categories.
type SeriesValues struct {
	Field  string    `json:"field"`
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Series arrays paralelos listos para el gráfico.
type Series struct {
	Categories []string       `json:"categories"`
	Series     []SeriesValues `json:"series"`
}

// Empty indica que no hay categorías.
func (s Series) Empty() bool {
	return len(s.Categories) == 0
}

// Values devuelve los valores de un campo (nil si no es una serie del mapping).
func (s Series) Values(field string) []float64 {
	for _, sv := range s.Series {
		if sv.Field == field {
			return sv.Values
		}
	}
	return nil
}

// DeriveSeries convierte filas normalizadas en arrays paralelos. Es pura: no modifica
// rows. Con rows vacío devuelve arrays vacíos (no nil); pintar el estado vacío es
// responsabilidad de quien llama.
func DeriveSeries(rows []Row, m Mapping) Series {
	out := Series{
		Categories: make([]string, 0, len(rows)),
		Series:     make([]SeriesValues, 0, len(m.Series)),
	}
	for _, field := range m.Series {
		label := field
		if l, ok := m.Labels[field]; ok && l != "" {
			label = l
		}
		out.Series = append(out.Series, SeriesValues{
			Field:  field,
			Label:  label,
			Values: make([]float64, 0, len(rows)),
		})
	}

	for _, r := range rows {
		out.Categories = append(out.Categories, ToText(r[m.Category]))
		for i, field := range m.Series {
			out.Series[i].Values = append(out.Series[i].Values, ToNumber(r[field]))
		}
	}
	return out
}

// ToNumber conversión numérica permisiva: acepta números o strings numéricos;
// cualquier otra cosa (incluido un string inválido) vale 0.
func ToNumber(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case json.Number:
		return parseDecimal(t.String())
	case decimal.Decimal:
		return t.InexactFloat64()
	case string:
		return parseDecimal(t)
	default:
		return 0
	}
}

func parseDecimal(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// ToText representación textual de una categoría.
func ToText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return decimal.NewFromFloat(t).String()
	default:
		return fmt.Sprint(t)
	}
}
