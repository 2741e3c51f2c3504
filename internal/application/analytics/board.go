package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// boardWidget un widget montado en un tablero con su caja de búsqueda.
type boardWidget struct {
	def         Definition
	w           *widget.Widget
	search      *widget.SearchInput
	unsubscribe func()
}

// Board página abierta del dashboard. Se crea al montar la página y se destruye al
// desmontarla; sus widgets no comparten estado entre sí.
type Board struct {
	id          string
	owner       string // empresa del llamante que lo montó; "" sin autenticación
	createdAt   time.Time
	loadTimeout time.Duration
	log         *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	wg      sync.WaitGroup
	widgets map[string]*boardWidget
	order   []string
}

// newBoard crea el tablero. Sus cargas viven más que la petición que lo monta, así que
// el contexto parte de cero y solo conserva al llamante.
func newBoard(parent context.Context, id string, createdAt time.Time, loadTimeout time.Duration, log *logger.Logger) *Board {
	base := context.Background()
	owner := ""
	if caller, ok := domain.CallerFrom(parent); ok {
		base = domain.WithCaller(base, caller)
		owner = caller.CompanyID
	}
	ctx, cancel := context.WithCancel(base)
	return &Board{
		id:          id,
		owner:       owner,
		createdAt:   createdAt,
		loadTimeout: loadTimeout,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
		widgets:     map[string]*boardWidget{},
	}
}

// mount agrega un widget al tablero; se llama solo durante la construcción.
func (b *Board) mount(def Definition, fetcher widget.Fetcher, observer widget.Observer, debounce time.Duration) *boardWidget {
	bw := &boardWidget{
		def: def,
		w:   widget.New(def.ID, def.Endpoint, fetcher, widget.WithObserver(observer)),
	}
	bw.search = widget.NewSearchInput(debounce, widget.Params{}, func(p widget.Params) {
		if err := b.load(bw, p); err != nil {
			b.log.Debug().Str("board_id", b.id).Str("widget", def.ID).Err(err).Msg("búsqueda descartada")
		}
	})
	bw.unsubscribe = bw.w.Subscribe(func(st widget.State) {
		b.log.Debug().
			Str("board_id", b.id).
			Str("widget", def.ID).
			Uint64("seq", st.Sequence).
			Str("status", string(st.Status)).
			Str("params", st.Params.String()).
			Msg("estado de widget")
	})
	b.widgets[def.ID] = bw
	b.order = append(b.order, def.ID)
	return bw
}

func (b *Board) widget(id string) (*boardWidget, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, domain.ErrBoardClosed
	}
	bw, ok := b.widgets[id]
	if !ok {
		return nil, domain.ErrWidgetNotFound
	}
	return bw, nil
}

// load deja el widget en Loading ya y ejecuta la petición en segundo plano.
func (b *Board) load(bw *boardWidget, params widget.Params) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return domain.ErrBoardClosed
	}
	b.wg.Add(1)
	b.mu.Unlock()

	req := bw.w.Begin(params)
	bw.search.SetBase(params)

	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(b.ctx, b.loadTimeout)
		defer cancel()

		req.Run(ctx)
	}()
	return nil
}

// close desmonta el tablero: descarta búsquedas pendientes, cancela las peticiones en
// curso y espera a que terminen.
func (b *Board) close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	widgets := make([]*boardWidget, 0, len(b.widgets))
	for _, bw := range b.widgets {
		widgets = append(widgets, bw)
	}
	b.mu.Unlock()

	for _, bw := range widgets {
		bw.search.Stop()
	}
	b.cancel()
	b.wg.Wait()
	for _, bw := range widgets {
		bw.unsubscribe()
	}
}
