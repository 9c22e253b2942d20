// Package agency handles the BDO agency daily report command
package agency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"spmadrid/collections-reports/cmd/common"
	"spmadrid/collections-reports/cmd/root"
	"spmadrid/collections-reports/internal/campaign"
	"spmadrid/collections-reports/internal/factory"
)

var (
	input       common.InputFlags
	keptCount   map[string]int
	keptBalance map[string]string
	allocation  map[string]string
)

// Cmd represents the agency command
var Cmd = &cobra.Command{
	Use:   "agency",
	Short: "Build the BDO agency daily report and productivity workbooks per bucket",
	Long: `Route a day of BDO auto remarks to their buckets, keep the last complete promise
per account and write one AGENCY DAILY REPORT and one Daily Productivity workbook
for every bucket part. Kept figures and allocations are given per part label:

  collections-reports agency -i remarks.xlsx --kept-count B5=3 --kept-balance B5=1500.50 --allocation B5=90000`,
	RunE: run,
}

func init() {
	input.Bind(Cmd)
	Cmd.Flags().StringToIntVar(&keptCount, "kept-count", nil, "Kept account count per part, e.g. B5=3")
	Cmd.Flags().StringToStringVar(&keptBalance, "kept-balance", nil, "Kept balance per part, e.g. B5=1500.50")
	Cmd.Flags().StringToStringVar(&allocation, "allocation", nil, "Allocation per part, e.g. B5=90000")
}

// productivity merges the per-part flags. Labels are matched case-insensitively.
func productivity(counts map[string]int, balances, allocations map[string]string) (map[string]campaign.Productivity, error) {
	out := make(map[string]campaign.Productivity)
	for label, n := range counts {
		key := strings.ToUpper(strings.TrimSpace(label))
		p := out[key]
		p.KeptCount = n
		out[key] = p
	}
	for label, raw := range balances {
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid --kept-balance for %s: %q", label, raw)
		}
		key := strings.ToUpper(strings.TrimSpace(label))
		p := out[key]
		p.KeptBalance = d
		out[key] = p
	}
	for label, raw := range allocations {
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid --allocation for %s: %q", label, raw)
		}
		key := strings.ToUpper(strings.TrimSpace(label))
		p := out[key]
		p.Allocation = d
		out[key] = p
	}
	return out, nil
}

func run(cmd *cobra.Command, _ []string) error {
	deps, err := common.FromContainer(root.AppContainer, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	day, err := root.ReportDate()
	if err != nil {
		return err
	}
	prod, err := productivity(keptCount, keptBalance, allocation)
	if err != nil {
		return err
	}
	c, err := root.AppContainer.GetCampaign(factory.Agency, factory.Overrides{})
	if err != nil {
		return err
	}
	in, err := input.RunInput(root.AppConfig.Output.Directory)
	if err != nil {
		return err
	}
	in.Params.ReportDate = day
	in.Params.Productivity = prod
	_, paths, err := common.RunCampaign(root.Context(cmd), deps, c, in)
	if err != nil {
		return err
	}
	common.PrintOutputs(cmd.OutOrStdout(), paths)
	return nil
}
