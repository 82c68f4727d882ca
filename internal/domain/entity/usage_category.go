package entity

import "time"

// UsageCategory categoría de uso de negocio (p. ej. "物販") a la que se asocian reglas y asignaciones.
// El nombre es inmutable una vez creada; solo se edita la descripción.
type UsageCategory struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
