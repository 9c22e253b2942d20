// Package endorse handles the ROB bike new-endorsement command
package endorse

import (
	"github.com/spf13/cobra"

	"spmadrid/collections-reports/cmd/common"
	"spmadrid/collections-reports/cmd/root"
	"spmadrid/collections-reports/internal/factory"
)

var input common.InputFlags

// Cmd represents the endorse command
var Cmd = &cobra.Command{
	Use:   "endorse",
	Short: "Turn a ROB bike endorsement into the BCRM, CMS and reshuffle workbooks",
	Long: `Drop already-endorsed accounts from a ROB bike endorsement, repair missing
balances and DPD, and write the BCRM upload, the CMS new-endorsement sheet and
the round-robin reshuffle tagging.`,
	RunE: run,
}

func init() {
	input.Bind(Cmd)
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
	c, err := root.AppContainer.GetCampaign(factory.Endorse, factory.Overrides{})
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
