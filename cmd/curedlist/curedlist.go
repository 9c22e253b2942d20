// Package curedlist handles the BPI cured-list command
package curedlist

import (
	"github.com/spf13/cobra"

	"spmadrid/collections-reports/cmd/common"
	"spmadrid/collections-reports/cmd/root"
	"spmadrid/collections-reports/internal/factory"
)

var (
	input        common.InputFlags
	remarkColumn string
	accountMajor bool
)

// Cmd represents the cured-list command
var Cmd = &cobra.Command{
	Use:   "cured-list",
	Short: "Expand a BPI cured list into the remarks, reshuffle and payment workbooks",
	Long: `Expand every account of a BPI auto-curing cured list into its action-status rows
(UNCON, house PTP, PTP) and write the REMARKS, RESHUFFLE and PAYMENT workbooks.`,
	RunE: run,
}

func init() {
	input.Bind(Cmd)
	Cmd.Flags().StringVar(&remarkColumn, "remark-column", "", "Column holding collector remarks used for reason codes")
	Cmd.Flags().BoolVar(&accountMajor, "account-major", false, "Write all rows of one account before the next")
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
	c, err := root.AppContainer.GetCampaign(factory.CuredList, factory.Overrides{RemarkColumn: remarkColumn, AccountMajor: accountMajor})
	if err != nil {
		return err
	}
	in, err := input.RunInput(root.AppConfig.Output.Directory)
	if err != nil {
		return err
	}
	in.Params.ReportDate = day
	_, paths, err := common.RunCampaign(root.Context(cmd), deps, c, in)
	if err != nil {
		return err
	}
	common.PrintOutputs(cmd.OutOrStdout(), paths)
	return nil
}
