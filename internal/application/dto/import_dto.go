package dto

// ImportRowError error de validación o persistencia de una fila del CSV.
type ImportRowError struct {
	Row   int    `json:"row"`
	ICCID string `json:"iccid"`
	Error string `json:"error"`
}

// ImportSummary totales de la importación.
type ImportSummary struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// ImportResponse resultado de POST /api/sims/import.
type ImportResponse struct {
	Success int              `json:"success"`
	Errors  []ImportRowError `json:"errors"`
	Summary ImportSummary    `json:"summary"`
}
