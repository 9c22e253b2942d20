package classifier

import (
	"strings"

	"spmadrid/collections-reports/internal/models"
)

// LabelKind groups action labels by the fields they carry.
type LabelKind int

const (
	LabelPTPNew LabelKind = iota
	LabelPTPFollowUp
	LabelCured
)

// ActionLabel is one synthetic action status and the wall clock stamped on its remark date.
type ActionLabel struct {
	Name   string
	Kind   LabelKind
	Hour   int
	Minute int
}

// Cured-list action labels.
var (
	LabelNew       = ActionLabel{Name: "PTP NEW - CALL OUTS_PASTDUE", Kind: LabelPTPNew, Hour: 14, Minute: 40}
	LabelFollowUp  = ActionLabel{Name: "PTP FF UP - CLIENT ANSWERED AND WILL SETTLE", Kind: LabelPTPFollowUp, Hour: 14, Minute: 50}
	LabelCuredPaid = ActionLabel{Name: "PAYMENT - CURED", Kind: LabelCured, Hour: 15}
	LabelGhostNew  = ActionLabel{Name: "PTP NEW - CURED_GHOST", Kind: LabelPTPNew, Hour: 14, Minute: 40}
)

// CascadeInput is one account row offered to the cascade.
type CascadeInput struct {
	Record models.Record
	Status models.CanonicalStatus
	House  bool
}

// CascadeRule expands the inputs it matches into one synthetic row per label.
type CascadeRule struct {
	Name   string
	Match  func(CascadeInput) bool
	Labels []ActionLabel
}

// SyntheticRow is one expanded output row.
type SyntheticRow struct {
	Input CascadeInput
	Label ActionLabel
	Rule  string
}

// Order selects how expanded rows are laid out within a rule.
type Order int

const (
	// OrderLabelMajor writes every matched account for the first label, then for the next one.
	OrderLabelMajor Order = iota
	// OrderAccountMajor writes all labels of one account before the next account.
	OrderAccountMajor
)

// Cascade is an ordered rule table. Each input is taken by the first rule it matches;
// inputs matching no rule produce nothing. Output groups follow rule order.
type Cascade struct {
	Rules []CascadeRule
	Order Order
}

// CuredListCascade is the cured-list table. Regular agents whose status does not mention
// PTP get NEW, FOLLOW UP and CURED, and those whose status does (including "CALL NO PTP")
// get FOLLOW UP and CURED. The house agent gets the ghost NEW and CURED.
func CuredListCascade() Cascade {
	return Cascade{Rules: []CascadeRule{
		{
			Name:   "negotiation",
			Match:  func(in CascadeInput) bool { return !in.House && !in.Status.MentionsPTP() },
			Labels: []ActionLabel{LabelNew, LabelFollowUp, LabelCuredPaid},
		},
		{
			Name:   "promise",
			Match:  func(in CascadeInput) bool { return !in.House && in.Status.MentionsPTP() },
			Labels: []ActionLabel{LabelFollowUp, LabelCuredPaid},
		},
		{
			Name:   "house",
			Match:  func(in CascadeInput) bool { return in.House },
			Labels: []ActionLabel{LabelGhostNew, LabelCuredPaid},
		},
	}}
}

// Expand walks inputs once and returns the synthetic rows.
func (c Cascade) Expand(inputs []CascadeInput) []SyntheticRow {
	groups := make([][]CascadeInput, len(c.Rules))
	for _, in := range inputs {
		for i, rule := range c.Rules {
			if rule.Match(in) {
				groups[i] = append(groups[i], in)
				break
			}
		}
	}

	var out []SyntheticRow
	for i, rule := range c.Rules {
		matched := groups[i]
		switch c.Order {
		case OrderAccountMajor:
			for _, in := range matched {
				for _, l := range rule.Labels {
					out = append(out, SyntheticRow{Input: in, Label: l, Rule: rule.Name})
				}
			}
		default:
			for _, l := range rule.Labels {
				for _, in := range matched {
					out = append(out, SyntheticRow{Input: in, Label: l, Rule: rule.Name})
				}
			}
		}
	}
	return out
}

// IsHouseAgent compares agent ids the way the roster does.
func IsHouseAgent(agent, house string) bool {
	return house != "" && strings.EqualFold(strings.TrimSpace(agent), house)
}
