package widget

import (
	"net/url"
	"strconv"
	"strings"
)

// Claves de filtro reconocidas. Cualquier otra se ignora.
const (
	ParamWarehouse = "warehouse"
	ParamDateFrom  = "date_from"
	ParamDateTo    = "date_to"
	ParamStatus    = "status"
	ParamGroupBy   = "group_by"
	ParamPage      = "page"
	ParamPerPage   = "per_page"
	ParamSearch    = "search"
)

var recognized = map[string]bool{
	ParamWarehouse: true,
	ParamDateFrom:  true,
	ParamDateTo:    true,
	ParamStatus:    true,
	ParamGroupBy:   true,
	ParamPage:      true,
	ParamPerPage:   true,
	ParamSearch:    true,
}

// Params conjunto inmutable de filtros que determina qué datos pide un widget.
// El valor cero es un conjunto vacío válido.
type Params struct {
	values map[string]string
}

// NewParams construye un conjunto a partir de un mapa arbitrario: descarta claves no
// reconocidas, valores vacíos y paginación que no sea un entero positivo.
func NewParams(in map[string]string) Params {
	out := make(map[string]string, len(in))
	for k, v := range in {
		if accepted, ok := accept(k, v); ok {
			out[k] = accepted
		}
	}
	return Params{values: out}
}

func accept(key, value string) (string, bool) {
	if !recognized[key] {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if key == ParamPage || key == ParamPerPage {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return "", false
		}
		return strconv.Itoa(n), true
	}
	return value, true
}

// Get devuelve el valor de una clave ("" si no está).
func (p Params) Get(key string) string {
	return p.values[key]
}

// With devuelve un conjunto nuevo con key=value. Un valor vacío elimina la clave.
// El receptor no se modifica.
func (p Params) With(key, value string) Params {
	out := make(map[string]string, len(p.values)+1)
	for k, v := range p.values {
		out[k] = v
	}
	delete(out, key)
	if accepted, ok := accept(key, value); ok {
		out[key] = accepted
	}
	return Params{values: out}
}

// Merge devuelve p con las claves de other superpuestas.
func (p Params) Merge(other Params) Params {
	out := p
	for k, v := range other.values {
		out = out.With(k, v)
	}
	return out
}

// Apply superpone un mapa crudo de filtros con la semántica de With: un valor vacío
// quita el filtro. Las claves no reconocidas se ignoran.
func (p Params) Apply(raw map[string]string) Params {
	out := p
	for k, v := range raw {
		if recognized[k] {
			out = out.With(k, v)
		}
	}
	return out
}

// Map copia de los valores.
func (p Params) Map() map[string]string {
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Encode serializa como query string con claves ordenadas.
func (p Params) Encode() string {
	q := url.Values{}
	for k, v := range p.values {
		q.Set(k, v)
	}
	return q.Encode()
}

// Equal compara dos conjuntos de filtros.
func (p Params) Equal(other Params) bool {
	if len(p.values) != len(other.values) {
		return false
	}
	for k, v := range p.values {
		if ov, ok := other.values[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// String igual que Encode; útil en logs.
func (p Params) String() string {
	return p.Encode()
}
