package entity

import "time"

// SimHistory episodio de asignación de una SIM (append-only, nunca se actualiza).
type SimHistory struct {
	ID                string
	ICCID             string
	ServiceName       string
	CustomerID        *string
	UsageCategoryID   *string
	UsageCategoryName string // solo lectura (join)
	ContractStartDate *time.Time
	ContractEndDate   *time.Time
	ShippedDate       *time.Time
	ArrivedDate       *time.Time
	ReturnedDate      *time.Time
	MSISDNSnapshot    *string // número de la SIM al momento de crear el episodio
	CreatedAt         time.Time
}
