package logging

// Field names shared across the application's log output.
const (
	FieldFile        = "file_path"
	FieldProfile     = "profile"
	FieldPeriod      = "period"
	FieldAsOf        = "as_of"
	FieldTier        = "tier"
	FieldLocality    = "locality"
	FieldMode        = "mode"
	FieldMethodology = "methodology"
	FieldCurrency    = "currency"
	FieldRunID       = "run_id"
	FieldRequestID   = "request_id"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldAmount      = "amount"
	FieldFormat      = "format"
	FieldDelimiter   = "delimiter"
	FieldModel       = "model"
)
