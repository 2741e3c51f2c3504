package widget

import (
	"sync"
	"time"
)

// DefaultSearchDebounce ventana por defecto antes de confirmar el texto de búsqueda.
const DefaultSearchDebounce = 400 * time.Millisecond

// Debouncer ejecuta una función solo cuando deja de recibir llamadas durante duration.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

// NewDebouncer crea un debouncer con la ventana indicada.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Debounce programa fn tras la ventana; cada llamada reinicia el temporizador.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel descarta la llamada pendiente, si la hay.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Immediate cancela lo pendiente y ejecuta fn ya.
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}

// SearchInput caja de búsqueda de un widget. Las pulsaciones rápidas dentro de la
// ventana producen una única confirmación con el último texto.
//
// Al confirmar se llama a commit con los filtros base más search=<texto> y sin page,
// porque una búsqueda nueva vuelve a la primera página.
type SearchInput struct {
	debouncer *Debouncer
	commit    func(Params)

	mu      sync.Mutex
	base    Params
	pending string
	dirty   bool
	value   string
	stopped bool
}

// NewSearchInput crea la caja de búsqueda; window <= 0 usa DefaultSearchDebounce.
func NewSearchInput(window time.Duration, base Params, commit func(Params)) *SearchInput {
	if window <= 0 {
		window = DefaultSearchDebounce
	}
	return &SearchInput{
		debouncer: NewDebouncer(window),
		commit:    commit,
		base:      base,
		value:     base.Get(ParamSearch),
	}
}

// SetBase reemplaza los filtros sobre los que se aplica la búsqueda.
func (s *SearchInput) SetBase(p Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = p
	s.value = p.Get(ParamSearch)
}

// Type registra el texto actual y reinicia la ventana.
func (s *SearchInput) Type(text string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.pending = text
	s.dirty = true
	s.mu.Unlock()

	s.debouncer.Debounce(s.fire)
}

// Flush confirma el texto pendiente sin esperar. Sin texto pendiente no hace nada.
func (s *SearchInput) Flush() {
	s.debouncer.Immediate(s.fire)
}

// Stop descarta lo pendiente; después de Stop no habrá más confirmaciones.
func (s *SearchInput) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.debouncer.Cancel()
}

// Value último texto confirmado.
func (s *SearchInput) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *SearchInput) fire() {
	s.mu.Lock()
	if s.stopped || !s.dirty {
		s.mu.Unlock()
		return
	}
	s.dirty = false
	text := s.pending
	s.value = text
	params := s.base.With(ParamSearch, text).With(ParamPage, "")
	s.base = params
	s.mu.Unlock()

	s.commit(params)
}
