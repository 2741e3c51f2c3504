package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/widget"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

const defaultLoadTimeout = 30 * time.Second

// BoardOptions parámetros de los tableros.
type BoardOptions struct {
	SearchDebounce time.Duration // <= 0 usa widget.DefaultSearchDebounce
	LoadTimeout    time.Duration // <= 0 usa 30s
	Observer       widget.Observer
}

// BoardUseCase administra los tableros abiertos: cada uno mantiene el estado de sus
// widgets entre peticiones, recarga al cambiar filtros y aplica debounce a la búsqueda.
type BoardUseCase struct {
	catalog *Catalog
	fetcher widget.Fetcher
	caps    *widget.Registry
	opts    BoardOptions
	log     *logger.Logger
	now     func() time.Time

	mu     sync.RWMutex
	boards map[string]*Board
}

// NewBoardUseCase construye el caso de uso.
func NewBoardUseCase(catalog *Catalog, fetcher widget.Fetcher, caps *widget.Registry, opts BoardOptions, log *logger.Logger) *BoardUseCase {
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = defaultLoadTimeout
	}
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = widget.DefaultSearchDebounce
	}
	if log == nil {
		log = logger.Nop()
	}
	return &BoardUseCase{
		catalog: catalog,
		fetcher: fetcher,
		caps:    caps,
		opts:    opts,
		log:     log.Named("boards"),
		now:     time.Now,
		boards:  map[string]*Board{},
	}
}

// Create monta un tablero con los widgets indicados (todos si ids está vacío) y lanza
// la carga inicial de cada uno con params sobre sus filtros por defecto. El tablero
// queda a nombre de la empresa del llamante de ctx.
func (uc *BoardUseCase) Create(ctx context.Context, ids []string, params widget.Params) (*dto.BoardDTO, error) {
	defs, err := uc.resolve(ids)
	if err != nil {
		return nil, err
	}

	b := newBoard(ctx, uuid.NewString(), uc.now(), uc.opts.LoadTimeout, uc.log)
	mounted := make([]*boardWidget, 0, len(defs))
	for _, def := range defs {
		mounted = append(mounted, b.mount(def, uc.fetcher, uc.opts.Observer, uc.opts.SearchDebounce))
	}

	uc.mu.Lock()
	uc.boards[b.id] = b
	uc.mu.Unlock()

	for _, bw := range mounted {
		if err := b.load(bw, bw.def.Defaults.Merge(params)); err != nil {
			return nil, err
		}
	}

	uc.log.Info().Str("board_id", b.id).Int("widgets", len(mounted)).Msg("tablero montado")
	return uc.boardDTO(b), nil
}

func (uc *BoardUseCase) resolve(ids []string) ([]Definition, error) {
	if len(ids) == 0 {
		return uc.catalog.All(), nil
	}
	seen := make(map[string]bool, len(ids))
	defs := make([]Definition, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		def, err := uc.catalog.Get(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, id)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// board busca el tablero; el de otra empresa no existe para el llamante.
func (uc *BoardUseCase) board(ctx context.Context, id string) (*Board, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	b, ok := uc.boards[id]
	if !ok || b.owner != callerCompany(ctx) {
		return nil, domain.ErrBoardNotFound
	}
	return b, nil
}

func callerCompany(ctx context.Context) string {
	if c, ok := domain.CallerFrom(ctx); ok {
		return c.CompanyID
	}
	return ""
}

// Get estado actual de todos los widgets del tablero. No espera a las cargas en curso.
func (uc *BoardUseCase) Get(ctx context.Context, id string) (*dto.BoardDTO, error) {
	b, err := uc.board(ctx, id)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, domain.ErrBoardClosed
	}
	return uc.boardDTO(b), nil
}

// View estado actual de un widget del tablero.
func (uc *BoardUseCase) View(ctx context.Context, boardID, widgetID string) (*dto.WidgetViewDTO, error) {
	b, err := uc.board(ctx, boardID)
	if err != nil {
		return nil, err
	}
	bw, err := b.widget(widgetID)
	if err != nil {
		return nil, err
	}
	v := BuildView(bw.def, bw.w.State(), uc.caps)
	return &v, nil
}

// SetParams cambia los filtros del widget y lo recarga. Con merge los nuevos filtros se
// combinan con los actuales y un valor vacío quita el filtro; sin merge los reemplazan
// (sobre los filtros por defecto). Devuelve la vista en Loading con la secuencia de la
// nueva carga.
func (uc *BoardUseCase) SetParams(ctx context.Context, boardID, widgetID string, raw map[string]string, merge bool) (*dto.WidgetViewDTO, error) {
	b, err := uc.board(ctx, boardID)
	if err != nil {
		return nil, err
	}
	bw, err := b.widget(widgetID)
	if err != nil {
		return nil, err
	}

	next := bw.def.Defaults.Merge(widget.NewParams(raw))
	if merge {
		next = bw.w.State().Params.Apply(raw)
	}
	if err := b.load(bw, next); err != nil {
		return nil, err
	}
	v := BuildView(bw.def, bw.w.State(), uc.caps)
	return &v, nil
}

// Search registra texto en la caja de búsqueda del widget. Sin immediate la recarga se
// hace cuando el usuario deja de escribir durante la ventana de debounce.
func (uc *BoardUseCase) Search(ctx context.Context, boardID, widgetID, text string, immediate bool) (*dto.WidgetViewDTO, error) {
	b, err := uc.board(ctx, boardID)
	if err != nil {
		return nil, err
	}
	bw, err := b.widget(widgetID)
	if err != nil {
		return nil, err
	}

	bw.search.Type(text)
	if immediate {
		bw.search.Flush()
	}
	v := BuildView(bw.def, bw.w.State(), uc.caps)
	return &v, nil
}

// Delete desmonta el tablero y espera a que terminen sus cargas.
func (uc *BoardUseCase) Delete(ctx context.Context, id string) error {
	uc.mu.Lock()
	b, ok := uc.boards[id]
	if !ok || b.owner != callerCompany(ctx) {
		uc.mu.Unlock()
		return domain.ErrBoardNotFound
	}
	delete(uc.boards, id)
	uc.mu.Unlock()
	b.close()
	uc.log.Info().Str("board_id", id).Msg("tablero desmontado")
	return nil
}

// Count tableros abiertos.
func (uc *BoardUseCase) Count() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.boards)
}

// Close desmonta todos los tableros; se usa al apagar el servidor.
func (uc *BoardUseCase) Close(ctx context.Context) error {
	uc.mu.Lock()
	boards := make([]*Board, 0, len(uc.boards))
	for id, b := range uc.boards {
		boards = append(boards, b)
		delete(uc.boards, id)
	}
	uc.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for _, b := range boards {
			b.close()
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (uc *BoardUseCase) boardDTO(b *Board) *dto.BoardDTO {
	out := &dto.BoardDTO{
		ID:        b.id,
		CreatedAt: b.createdAt,
		Widgets:   make([]dto.WidgetViewDTO, 0, len(b.order)),
	}
	for _, id := range b.order {
		bw := b.widgets[id]
		out.Widgets = append(out.Widgets, BuildView(bw.def, bw.w.State(), uc.caps))
	}
	return out
}
