package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/metrics"
)

var _ widget.Observer = (*metrics.Collector)(nil)

func TestCollector_CuentaCargasYDescartes(t *testing.T) {
	c := metrics.New(func() int { return 3 })

	c.Settled("stock_levels", widget.StatusReady, 120*time.Millisecond)
	c.Settled("stock_levels", widget.StatusReady, 80*time.Millisecond)
	c.Settled("low_stock", widget.StatusFailed, time.Second)
	c.Discarded("stock_levels")

	expected := `
# HELP dashboard_widget_loads_total Cargas de widget aplicadas, por widget y resultado.
# TYPE dashboard_widget_loads_total counter
dashboard_widget_loads_total{status="failed",widget="low_stock"} 1
dashboard_widget_loads_total{status="ready",widget="stock_levels"} 2
# HELP dashboard_widget_stale_responses_total Respuestas descartadas porque llegó una carga más reciente.
# TYPE dashboard_widget_stale_responses_total counter
dashboard_widget_stale_responses_total{widget="stock_levels"} 1
# HELP dashboard_open_boards Tableros montados actualmente.
# TYPE dashboard_open_boards gauge
dashboard_open_boards 3
`
	err := testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected),
		"dashboard_widget_loads_total", "dashboard_widget_stale_responses_total", "dashboard_open_boards")
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(c.Registry(), "dashboard_widget_load_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCollector_Handler(t *testing.T) {
	c := metrics.New(nil)
	c.Settled("order_timeline", widget.StatusReady, 10*time.Millisecond)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `dashboard_widget_loads_total{status="ready",widget="order_timeline"} 1`)
	assert.NotContains(t, string(body), "dashboard_open_boards")
}
