package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrWidgetNotFound = errors.New("widget no encontrado")
	ErrBoardNotFound  = errors.New("tablero no encontrado")
	ErrBoardClosed    = errors.New("tablero cerrado")
	ErrInvalidInput   = errors.New("entrada inválida")
)
