package logging

// Field names shared by all log lines of a report run.
const (
	FieldRunID      = "run_id"
	FieldCampaign   = "campaign"
	FieldFile       = "file_path"
	FieldSheet      = "sheet"
	FieldOutputFile = "output_file"
	FieldCount      = "count"
	FieldExcluded   = "excluded"
	FieldWarnings   = "warnings"
	FieldChunk      = "chunk"
	FieldAccount    = "account"
	FieldStatus     = "status"
	FieldReason     = "reason"
	FieldSource     = "source"
	FieldDuration   = "duration_ms"
)
