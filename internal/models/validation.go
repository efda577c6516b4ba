package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ViolationCode is a machine-readable safety check failure.
type ViolationCode string

const (
	ViolationNegativeAllocation      ViolationCode = "NEGATIVE_ALLOCATION"
	ViolationOverAllocation          ViolationCode = "OVER_ALLOCATION"
	ViolationCategorySumMismatch     ViolationCode = "CATEGORY_SUM_MISMATCH"
	ViolationDayCountMismatch        ViolationCode = "DAY_COUNT_MISMATCH"
	ViolationDuplicateDate           ViolationCode = "DUPLICATE_DATE"
	ViolationMissingDate             ViolationCode = "MISSING_DATE"
	ViolationDateOutOfOrder          ViolationCode = "DATE_OUT_OF_ORDER"
	ViolationCommitmentsExceedIncome ViolationCode = "COMMITMENTS_EXCEED_INCOME"
)

// Violation describes one failed check. Date is nil for period-wide checks.
type Violation struct {
	Code    ViolationCode    `json:"code"`
	Date    *time.Time       `json:"date,omitempty"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Message string           `json:"message"`
}

// ValidationOutcome is the result of the safety validator.
type ValidationOutcome struct {
	OK         bool        `json:"ok"`
	Violations []Violation `json:"violations"`
}

// Has reports whether a violation with the given code was raised.
func (o ValidationOutcome) Has(code ViolationCode) bool {
	for _, v := range o.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}
