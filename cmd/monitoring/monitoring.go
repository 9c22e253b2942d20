// Package monitoring handles the ROB bike daily monitoring command
package monitoring

import (
	"github.com/spf13/cobra"

	"spmadrid/collections-reports/cmd/common"
	"spmadrid/collections-reports/cmd/root"
	"spmadrid/collections-reports/internal/factory"
)

var input common.InputFlags

// Cmd represents the monitoring command
var Cmd = &cobra.Command{
	Use:   "monitoring",
	Short: "Build the ROB bike daily PTP, DEPO and REPO monitoring workbook",
	Long: `Classify a day of ROB bike remarks, keep the newest remark per account and
status, enrich them with endorsement and field-visit data and write the
MONITORING, PTP, REPO, DEPO and EOD sheets.`,
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
	c, err := root.AppContainer.GetCampaign(factory.Monitoring, factory.Overrides{})
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
