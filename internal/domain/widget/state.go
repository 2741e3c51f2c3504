package widget

// Status etapa del ciclo de vida de una carga.
type Status string

const (
	StatusLoading Status = "loading"
	StatusFailed  Status = "failed"
	StatusReady   Status = "ready"
)

// State resultado de una carga: exactamente uno de Loading, Failed(message) o
// Ready(payload). Se reemplaza entero; nunca se modifica en sitio.
type State struct {
	Status   Status
	Message  string  // solo en Failed
	Payload  Payload // solo en Ready
	Params   Params  // filtros a los que corresponde
	Sequence uint64  // número de petición que produjo este estado; 0 antes de la primera carga
}

// Loading estado inicial de cada carga.
func Loading(p Params, seq uint64) State {
	return State{Status: StatusLoading, Params: p, Sequence: seq}
}

// Failed estado terminal de error.
func Failed(p Params, seq uint64, message string) State {
	return State{Status: StatusFailed, Message: message, Params: p, Sequence: seq}
}

// Ready estado terminal con datos (posiblemente vacíos).
func Ready(p Params, seq uint64, payload Payload) State {
	if payload.Items == nil {
		payload.Items = []any{}
	}
	return State{Status: StatusReady, Payload: payload, Params: p, Sequence: seq}
}

// Terminal indica si la carga ya terminó.
func (s State) Terminal() bool {
	return s.Status == StatusFailed || s.Status == StatusReady
}

// Empty indica un Ready sin datos ("no data", distinto de error).
func (s State) Empty() bool {
	return s.Status == StatusReady && s.Payload.Empty()
}

// Rows filas del payload si el estado es Ready.
func (s State) Rows() []Row {
	if s.Status != StatusReady {
		return nil
	}
	return s.Payload.Rows()
}
