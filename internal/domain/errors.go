package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrUserNotFound  = errors.New("usuario no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrConflict      = errors.New("conflicto con el estado actual")

	// Disponibilidad
	ErrInvalidRange   = errors.New("rango de fechas inválido: la fecha fin debe ser posterior a la fecha inicio")
	ErrNoRulesDefined = errors.New("no hay reglas de elegibilidad configuradas para la categoría de uso")

	// Reconciliación
	ErrPartialSyncFailure = errors.New("una o más fuentes fallaron durante la sincronización")
	ErrSyncFailed         = errors.New("todas las fuentes fallaron durante la sincronización")
	ErrRecordSkipped      = errors.New("registro externo omitido: ICCID desconocido")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrSourceDisabled     = errors.New("fuente de sincronización deshabilitada")
	ErrUnknownSource      = errors.New("fuente de sincronización no configurada")
)
