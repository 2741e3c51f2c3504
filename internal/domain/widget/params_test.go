package widget_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
)

func TestNewParams_IgnoraClavesDesconocidas(t *testing.T) {
	p := widget.NewParams(map[string]string{
		"warehouse": "Central",
		"date_from": "2026-01-01",
		"color":     "rojo",
		"status":    "  ",
	})

	assert.Len(t, p.Map(), 2)
	assert.Equal(t, "Central", p.Get("warehouse"))
	assert.Equal(t, "", p.Get("color"))
	assert.Equal(t, "", p.Get("status"), "valores vacíos se descartan")
}

func TestNewParams_PaginacionDebeSerEnteroPositivo(t *testing.T) {
	p := widget.NewParams(map[string]string{"page": "0", "per_page": "abc"})
	assert.Empty(t, p.Map())

	p = widget.NewParams(map[string]string{"page": "03", "per_page": "50"})
	assert.Equal(t, "3", p.Get("page"))
	assert.Equal(t, "50", p.Get("per_page"))
}

func TestParams_WithEsInmutable(t *testing.T) {
	base := widget.NewParams(map[string]string{"warehouse": "A"})
	next := base.With("warehouse", "B").With("search", "tornillo")

	assert.Equal(t, "A", base.Get("warehouse"))
	assert.Len(t, base.Map(), 1)
	assert.Equal(t, "B", next.Get("warehouse"))
	assert.Equal(t, "tornillo", next.Get("search"))

	cleared := next.With("search", "")
	assert.Len(t, cleared.Map(), 1)
	assert.False(t, cleared.Equal(next))
}

func TestParams_EncodeOrdenado(t *testing.T) {
	p := widget.NewParams(map[string]string{
		"warehouse": "Bodega Norte",
		"date_to":   "2026-02-01",
		"page":      "2",
	})
	assert.Equal(t, "date_to=2026-02-01&page=2&warehouse=Bodega+Norte", p.Encode())
	assert.Equal(t, "", widget.Params{}.Encode())
}

func TestParams_MergeYEqual(t *testing.T) {
	a := widget.NewParams(map[string]string{"warehouse": "A", "status": "pending"})
	b := widget.NewParams(map[string]string{"status": "shipped"})

	merged := a.Merge(b)
	assert.Equal(t, "shipped", merged.Get("status"))
	assert.Equal(t, "A", merged.Get("warehouse"))
	assert.True(t, merged.Equal(widget.NewParams(map[string]string{"warehouse": "A", "status": "shipped"})))
	assert.True(t, widget.Params{}.Equal(widget.NewParams(nil)))
}

func TestParams_ApplyValorVacioQuitaElFiltro(t *testing.T) {
	base := widget.NewParams(map[string]string{"warehouse": "A", "status": "pending"})

	next := base.Apply(map[string]string{"warehouse": "", "search": "perno", "color": "rojo", "page": "x"})

	assert.Equal(t, map[string]string{"status": "pending", "search": "perno"}, next.Map())
	assert.Equal(t, "A", base.Get("warehouse"), "el receptor no cambia")
}
