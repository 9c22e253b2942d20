package classifier

import (
	"time"

	"github.com/shopspring/decimal"

	"spmadrid/collections-reports/internal/models"
)

// EffectiveAmount is the PTP amount when present and non-zero, else the claim-paid amount
// when present and non-zero, else absent.
func EffectiveAmount(ptp, claimPaid decimal.NullDecimal) decimal.NullDecimal {
	switch {
	case models.NonZero(ptp):
		return ptp
	case models.NonZero(claimPaid):
		return claimPaid
	default:
		return decimal.NullDecimal{}
	}
}

// EffectiveDate is the PTP date when present, else the claim-paid date.
// It is computed independently of EffectiveAmount.
func EffectiveDate(ptp, claimPaid time.Time) time.Time {
	if !ptp.IsZero() {
		return ptp
	}
	return claimPaid
}
