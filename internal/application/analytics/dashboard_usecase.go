// Package analytics contiene los casos de uso del Dashboard de operación de bodega:
// carga puntual de widgets, tableros con estado y resumen de todos los widgets.
package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
)

const summaryParallelism = 4 // peticiones simultáneas al backend por resumen

// DashboardUseCase genera el resumen con todos los widgets del catálogo.
//
// Cada widget se carga de forma independiente: que uno falle no afecta a los demás
// ni al resumen, que siempre se devuelve completo.
type DashboardUseCase struct {
	catalog *Catalog
	widgets *WidgetUseCase
	now     func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(catalog *Catalog, widgets *WidgetUseCase) *DashboardUseCase {
	return &DashboardUseCase{catalog: catalog, widgets: widgets, now: time.Now}
}

// GetSummary carga en paralelo todos los widgets con los mismos filtros.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, params widget.Params) (*dto.DashboardSummaryDTO, error) {
	defs := uc.catalog.All()
	views := make([]dto.WidgetViewDTO, len(defs))

	var g errgroup.Group
	g.SetLimit(summaryParallelism)
	for i, def := range defs {
		i, def := i, def
		g.Go(func() error {
			// Cada goroutine escribe en su propia posición; no hace falta mutex.
			views[i] = uc.widgets.load(ctx, def, params)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DashboardSummaryDTO{
		GeneratedAt: uc.now(),
		Params:      params.Map(),
		Widgets:     views,
	}
	for _, v := range views {
		switch {
		case v.Status == string(widget.StatusFailed):
			out.Failed++
		case v.Empty:
			out.Empty++
			out.Ready++
		default:
			out.Ready++
		}
	}
	return out, nil
}
