package dto

import "time"

// AvailabilityRequest parámetros de GET /api/availability.
type AvailabilityRequest struct {
	UsageCategoryID          string
	StartDate                time.Time
	EndDate                  time.Time
	ExcludeCurrentlyAssigned bool
}

// SimRef referencia mínima de una SIM candidata.
type SimRef struct {
	ICCID    string  `json:"iccid"`
	MSISDN   *string `json:"msisdn"`
	Supplier string  `json:"supplier"`
	Plan     *string `json:"plan"`
}

// RequestedPeriod período consultado.
type RequestedPeriod struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// AvailabilityResponse resultado de la evaluación de disponibilidad.
type AvailabilityResponse struct {
	UsageCategoryID     string          `json:"usage_category_id"`
	UsageCategoryName   string          `json:"usage_category_name"`
	RequestedPeriod     RequestedPeriod `json:"requested_period"`
	AvailableCount      int             `json:"available_count"`
	MatchedRuleID       *string         `json:"matched_rule_id"`
	MatchedRulePriority *int            `json:"matched_rule_priority"`
	RulesEvaluated      int             `json:"rules_evaluated"`
	Reason              string          `json:"reason,omitempty"`
	Sims                []SimRef        `json:"sims"`
}
