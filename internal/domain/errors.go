package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrStorage           = errors.New("error de almacenamiento")
	ErrDuplicate         = errors.New("recurso duplicado")
	// ErrConflict indica que el compare-and-set sobre la cantidad perdió la carrera.
	// Es interno: el caso de uso reintenta y nunca lo devuelve al caller.
	ErrConflict = errors.New("conflicto con el estado actual")
)
