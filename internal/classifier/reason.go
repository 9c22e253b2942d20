package classifier

import (
	"regexp"
	"strings"

	"spmadrid/collections-reports/internal/textutils"
)

var (
	explicitReason  = regexp.MustCompile(`RFD:\s*(\S+)$`)
	backslashReason = regexp.MustCompile(`\\\s*(\S+)`)
)

// ExtractReasonCode finds the reason code of a remark and validates it with valid.
// Precedence is strict: a trailing "RFD: <code>" wins over the last backslash token,
// which wins over the last word. Invalid or missing codes report false.
func ExtractReasonCode(remark string, valid func(string) bool) (string, bool) {
	code := candidateReason(remark)
	if code == "" || valid == nil || !valid(code) {
		return "", false
	}
	return code, true
}

func candidateReason(remark string) string {
	s := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(remark), `\`))
	if s == "" {
		return ""
	}
	if m := explicitReason.FindStringSubmatch(s); m != nil {
		return strings.ToUpper(m[1])
	}
	if all := backslashReason.FindAllStringSubmatch(s, -1); len(all) > 0 {
		return strings.ToUpper(all[len(all)-1][1])
	}
	return strings.ToUpper(textutils.LastToken(s))
}

// ReasonDefaults maps a status label to the code used when extraction finds none.
type ReasonDefaults map[string]string

// DefaultReasonDefaults is the usual status-to-code table.
func DefaultReasonDefaults() ReasonDefaults {
	return ReasonDefaults{"PTP": "BUSY", "CALL NO PTP": "NISV", "UNCON": "NABZ"}
}

// For returns the default code of status, matched case-insensitively.
func (d ReasonDefaults) For(status string) (string, bool) {
	key := strings.ToUpper(strings.TrimSpace(status))
	for k, v := range d {
		if strings.ToUpper(k) == key {
			return v, true
		}
	}
	return "", false
}
