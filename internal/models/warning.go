package models

// Warning is a data-quality finding attached to a run result. The row stays in the output.
type Warning struct {
	Line    int
	Account string
	Code    string
	Message string
}

// Warning codes.
const (
	WarnVoluntarySurrenderAmount = "voluntary_surrender_amount"
	WarnZeroOutstanding          = "zero_outstanding_balance"
	WarnMissingDPD               = "missing_dpd"
	WarnUnmappedStatus           = "unmapped_status"
	WarnStatusWithoutBucket      = "no_bucket"
	WarnAllEndorsed              = "all_endorsed"
)
