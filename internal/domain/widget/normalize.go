package widget

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelopeKey clave bajo la que el backend envuelve el payload real.
const envelopeKey = "data"

// Row registro plano de un widget (almacén, cantidad disponible, etc.).
type Row map[string]any

// Payload resultado normalizado de una respuesta del backend.
//
// Items conserva los elementos tal cual llegaron (objetos, números o strings) con
// los números como json.Number. Pagination y Summary solo existen si la respuesta
// venía envuelta y los traía.
type Payload struct {
	Items      []any          `json:"items"`
	Pagination map[string]any `json:"pagination,omitempty"`
	Summary    map[string]any `json:"summary,omitempty"`
}

// Empty indica que no hay datos que mostrar.
func (p Payload) Empty() bool {
	return len(p.Items) == 0
}

// Rows devuelve los items que son objetos; el resto se descarta.
func (p Payload) Rows() []Row {
	rows := make([]Row, 0, len(p.Items))
	for _, it := range p.Items {
		if m, ok := it.(map[string]any); ok {
			rows = append(rows, Row(m))
		}
	}
	return rows
}

// Normalize extrae el payload de una respuesta sin importar su forma:
//
//	[...]                         -> items
//	{...}                         -> un item (si no trae "data")
//	{"data": [...], ...metadata}  -> items + metadata
//	{"data": {...}, ...metadata}  -> un item + metadata
//
// Un cuerpo vacío, null, un escalar, un objeto vacío o un "data" nulo/escalar dan un
// payload vacío (sin datos, no error). Solo un JSON inválido devuelve error.
func Normalize(body []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Payload{Items: []any{}}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Payload{}, fmt.Errorf("respuesta JSON inválida: %w", err)
	}
	if dec.More() {
		return Payload{}, fmt.Errorf("respuesta JSON inválida: contenido adicional tras el documento")
	}

	switch v := raw.(type) {
	case []any:
		return Payload{Items: v}, nil
	case map[string]any:
		inner, enveloped := v[envelopeKey]
		if !enveloped {
			if len(v) == 0 {
				return Payload{Items: []any{}}, nil
			}
			return Payload{Items: []any{v}}, nil
		}
		p := Payload{
			Items:      itemsOf(inner),
			Pagination: objectOf(v["pagination"]),
			Summary:    objectOf(v["summary"]),
		}
		return p, nil
	default:
		return Payload{Items: []any{}}, nil
	}
}

func itemsOf(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		if len(t) == 0 {
			return []any{}
		}
		return []any{t}
	default:
		return []any{}
	}
}

func objectOf(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m
}
