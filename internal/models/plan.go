package models

import "time"

// Plan is one complete budgeting run for a profile and period. Advice is an
// optional note and has no effect on the numbers.
type Plan struct {
	ID             string                `json:"id"`
	ProfileID      string                `json:"profile_id"`
	Period         BudgetPeriod          `json:"period"`
	Classification IncomeClassification  `json:"classification"`
	Result         *RedistributionResult `json:"result"`
	Validation     ValidationOutcome     `json:"validation"`
	Advice         string                `json:"advice,omitempty"`
	FrozenNew      int                   `json:"frozen_new"`
	CreatedAt      time.Time             `json:"created_at"`
}
