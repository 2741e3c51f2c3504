package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
)

type widgetFlags struct {
	warehouse string
	dateFrom  string
	dateTo    string
	status    string
	groupBy   string
	page      int
	perPage   int
	search    string
	pdf       string
}

func (f widgetFlags) params() widget.Params {
	m := map[string]string{
		widget.ParamWarehouse: f.warehouse,
		widget.ParamDateFrom:  f.dateFrom,
		widget.ParamDateTo:    f.dateTo,
		widget.ParamStatus:    f.status,
		widget.ParamGroupBy:   f.groupBy,
		widget.ParamSearch:    f.search,
	}
	if f.page > 0 {
		m[widget.ParamPage] = strconv.Itoa(f.page)
	}
	if f.perPage > 0 {
		m[widget.ParamPerPage] = strconv.Itoa(f.perPage)
	}
	return widget.NewParams(m)
}

func newWidgetCmd() *cobra.Command {
	var f widgetFlags
	cmd := &cobra.Command{
		Use:   "widget <id>",
		Short: "Carga un widget una vez e imprime su vista como JSON",
		Long: "Carga un widget contra la API de inventario con los filtros indicados e imprime\n" +
			"la vista en stdout. Un widget fallido no es error: la vista sale con status \"failed\".\n" +
			"Con --pdf se escribe además el reporte en el archivo indicado.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(os.Stderr)
			if err != nil {
				return err
			}
			c.provideTimeline()

			ctx := cmd.Context()
			view, err := c.widgets.Load(ctx, args[0], f.params())
			if err != nil {
				return err
			}

			if f.pdf != "" {
				doc, err := c.widgets.RenderPDF(ctx, *view)
				if err != nil {
					return err
				}
				if err := os.WriteFile(f.pdf, doc, 0o644); err != nil {
					return fmt.Errorf("escribir %s: %w", f.pdf, err)
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.warehouse, "warehouse", "", "bodega")
	fl.StringVar(&f.dateFrom, "date-from", "", "desde (YYYY-MM-DD)")
	fl.StringVar(&f.dateTo, "date-to", "", "hasta (YYYY-MM-DD)")
	fl.StringVar(&f.status, "status", "", "estado")
	fl.StringVar(&f.groupBy, "group-by", "", "agrupación (day, week, month)")
	fl.IntVar(&f.page, "page", 0, "página")
	fl.IntVar(&f.perPage, "per-page", 0, "tamaño de página")
	fl.StringVar(&f.search, "search", "", "texto de búsqueda")
	fl.StringVar(&f.pdf, "pdf", "", "archivo donde escribir el reporte PDF")
	return cmd
}
