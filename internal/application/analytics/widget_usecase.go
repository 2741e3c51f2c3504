package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
)

var errReportsDisabled = errors.New("analytics: exportación PDF no configurada")

// WidgetUseCase carga puntual de un widget: un load + derivación de series, sin estado
// entre peticiones.
type WidgetUseCase struct {
	catalog  *Catalog
	fetcher  widget.Fetcher
	caps     *widget.Registry
	observer widget.Observer
	reports  ReportGenerator
}

// NewWidgetUseCase construye el caso de uso. reports puede ser nil si no se exporta PDF.
func NewWidgetUseCase(
	catalog *Catalog,
	fetcher widget.Fetcher,
	caps *widget.Registry,
	observer widget.Observer,
	reports ReportGenerator,
) *WidgetUseCase {
	return &WidgetUseCase{
		catalog:  catalog,
		fetcher:  fetcher,
		caps:     caps,
		observer: observer,
		reports:  reports,
	}
}

// List catálogo de widgets disponibles.
func (uc *WidgetUseCase) List() []dto.WidgetDefinitionDTO {
	return uc.catalog.DTO()
}

// Load carga el widget id con params (sobre sus filtros por defecto) y devuelve su vista
// terminal. Un fallo del backend no es error: la vista queda en status "failed".
func (uc *WidgetUseCase) Load(ctx context.Context, id string, params widget.Params) (*dto.WidgetViewDTO, error) {
	def, err := uc.catalog.Get(id)
	if err != nil {
		return nil, err
	}
	v := uc.load(ctx, def, params)
	return &v, nil
}

func (uc *WidgetUseCase) load(ctx context.Context, def Definition, params widget.Params) dto.WidgetViewDTO {
	w := widget.New(def.ID, def.Endpoint, uc.fetcher, widget.WithObserver(uc.observer))
	st := w.Load(ctx, def.Defaults.Merge(params))
	return BuildView(def, st, uc.caps)
}

// ExportPDF carga el widget y genera su PDF.
func (uc *WidgetUseCase) ExportPDF(ctx context.Context, id string, params widget.Params) ([]byte, error) {
	if uc.reports == nil {
		return nil, errReportsDisabled
	}
	view, err := uc.Load(ctx, id, params)
	if err != nil {
		return nil, err
	}
	return uc.RenderPDF(ctx, *view)
}

// RenderPDF genera el PDF de una vista ya cargada, sin volver a consultar el backend.
func (uc *WidgetUseCase) RenderPDF(ctx context.Context, view dto.WidgetViewDTO) ([]byte, error) {
	if uc.reports == nil {
		return nil, errReportsDisabled
	}
	pdf, err := uc.reports.GenerateWidgetPDF(ctx, view)
	if err != nil {
		return nil, fmt.Errorf("analytics: exportar %s: %w", view.WidgetID, err)
	}
	return pdf, nil
}
