// Package widget implementa el contrato de carga y normalización que comparten todos
// los widgets del dashboard: estado Loading/Failed/Ready, normalización de la forma de
// la respuesta, derivación de series, debounce de búsqueda y registro de capacidades.
package widget

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// DefaultFailureMessage mensaje cuando el error no trae uno utilizable.
const DefaultFailureMessage = "no se pudieron obtener los datos"

// Fetcher puerto de salida hacia la API del backend. Una llamada = una petición GET
// a endpoint con params como query string; devuelve el cuerpo JSON crudo.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, params Params) ([]byte, error)
}

// FetcherFunc adapta una función a Fetcher.
type FetcherFunc func(ctx context.Context, endpoint string, params Params) ([]byte, error)

// Fetch implementa Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, endpoint string, params Params) ([]byte, error) {
	return f(ctx, endpoint, params)
}

// Observer recibe el resultado de cada carga (métricas, logs).
type Observer interface {
	Settled(widgetID string, status Status, elapsed time.Duration)
	Discarded(widgetID string)
}

type nopObserver struct{}

func (nopObserver) Settled(string, Status, time.Duration) {}
func (nopObserver) Discarded(string)                      {}

// Option configura un Widget.
type Option func(*Widget)

// WithObserver registra un observador de cargas.
func WithObserver(o Observer) Option {
	return func(w *Widget) {
		if o != nil {
			w.observer = o
		}
	}
}

// Widget unidad que carga y mantiene el estado de una métrica.
//
// Cada Load recibe un número de secuencia creciente. Cuando una respuesta llega,
// solo se aplica si su secuencia sigue siendo la última emitida: una respuesta lenta
// de filtros viejos nunca pisa el estado de filtros más nuevos. La petición vieja no
// se cancela; su resultado simplemente se descarta.
type Widget struct {
	id       string
	endpoint string
	fetcher  Fetcher
	observer Observer

	mu    sync.Mutex
	seq   uint64
	state State

	notifyMu  sync.Mutex
	published State
	subs      map[int]func(State)
	nextSub   int
}

// New construye un widget en estado Loading sin datos.
func New(id, endpoint string, f Fetcher, opts ...Option) *Widget {
	w := &Widget{
		id:       id,
		endpoint: endpoint,
		fetcher:  f,
		observer: nopObserver{},
		state:    Loading(Params{}, 0),
		subs:     map[int]func(State){},
	}
	w.published = w.state
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ID identificador del widget.
func (w *Widget) ID() string { return w.id }

// Endpoint ruta del backend que consulta.
func (w *Widget) Endpoint() string { return w.endpoint }

// State copia del estado actual.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Subscribe registra fn para cada cambio de estado aplicado, en orden. fn no debe
// llamar a Subscribe ni al cancelador devuelto. Devuelve la función para darse de baja.
func (w *Widget) Subscribe(fn func(State)) func() {
	w.notifyMu.Lock()
	defer w.notifyMu.Unlock()
	id := w.nextSub
	w.nextSub++
	w.subs[id] = fn
	return func() {
		w.notifyMu.Lock()
		defer w.notifyMu.Unlock()
		delete(w.subs, id)
	}
}

// Load pone el widget en Loading, hace una petición con params y lo deja en Failed o
// Ready. Devuelve el estado terminal de esta petición; si mientras tanto se lanzó otra
// carga, ese estado no se aplica al widget.
func (w *Widget) Load(ctx context.Context, params Params) State {
	return w.Begin(params).Run(ctx)
}

// Request carga ya registrada (el widget está en Loading) pendiente de ejecutar.
type Request struct {
	w      *Widget
	params Params
	seq    uint64
}

// Begin pone el widget en Loading de forma síncrona y devuelve la petición para
// ejecutarla después, normalmente en otra goroutine.
func (w *Widget) Begin(params Params) Request {
	return Request{w: w, params: params, seq: w.begin(params)}
}

// Sequence número de secuencia de la petición.
func (r Request) Sequence() uint64 { return r.seq }

// Run hace la petición y liquida el estado. Debe llamarse una sola vez.
func (r Request) Run(ctx context.Context) State {
	w := r.w
	start := time.Now()

	next := w.fetch(ctx, r.params, r.seq)

	if !w.settle(next) {
		w.observer.Discarded(w.id)
		return next
	}
	w.observer.Settled(w.id, next.Status, time.Since(start))
	return next
}

func (w *Widget) fetch(ctx context.Context, params Params, seq uint64) State {
	body, err := w.fetcher.Fetch(ctx, w.endpoint, params)
	if err != nil {
		return Failed(params, seq, MessageOf(err))
	}
	payload, err := Normalize(body)
	if err != nil {
		return Failed(params, seq, MessageOf(err))
	}
	return Ready(params, seq, payload)
}

func (w *Widget) begin(params Params) uint64 {
	w.mu.Lock()
	w.seq++
	seq := w.seq
	w.state = Loading(params, seq)
	st := w.state
	w.mu.Unlock()

	w.publish(st)
	return seq
}

// settle aplica next si su secuencia sigue siendo la última.
func (w *Widget) settle(next State) bool {
	w.mu.Lock()
	if next.Sequence != w.seq {
		w.mu.Unlock()
		return false
	}
	w.state = next
	w.mu.Unlock()

	w.publish(next)
	return true
}

// publish entrega st a los suscriptores descartando notificaciones que llegan tarde
// respecto a una ya entregada.
func (w *Widget) publish(st State) {
	w.notifyMu.Lock()
	defer w.notifyMu.Unlock()

	last := w.published
	if st.Sequence < last.Sequence || (st.Sequence == last.Sequence && last.Terminal()) {
		return
	}
	w.published = st
	for _, fn := range w.subs {
		fn(st)
	}
}

// userMessenger errores que saben qué mostrar al usuario.
type userMessenger interface {
	UserMessage() string
}

// MessageOf mensaje legible para un error de carga.
func MessageOf(err error) string {
	if err == nil {
		return DefaultFailureMessage
	}
	var um userMessenger
	if errors.As(err, &um) {
		if msg := strings.TrimSpace(um.UserMessage()); msg != "" {
			return msg
		}
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return DefaultFailureMessage
}
