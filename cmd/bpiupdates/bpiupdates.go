// Package bpiupdates handles the BPI updates/uploads command
package bpiupdates

import (
	"github.com/spf13/cobra"

	"spmadrid/collections-reports/cmd/common"
	"spmadrid/collections-reports/cmd/root"
	"spmadrid/collections-reports/internal/campaign"
	"spmadrid/collections-reports/internal/factory"
)

var (
	input common.InputFlags
	mode  string
)

// Cmd represents the bpi-updates command
var Cmd = &cobra.Command{
	Use:   "bpi-updates",
	Short: "Reshape a BPI endorsement file into the CMS updates or uploads layout",
	Long: `Reshape a BPI auto-curing endorsement file into the sixteen-column layout used to
update (--mode updates) or upload (--mode uploads) accounts in the CMS.`,
	RunE: run,
}

func init() {
	input.Bind(Cmd)
	Cmd.Flags().StringVarP(&mode, "mode", "m", campaign.ModeUpdates, "Output mode: updates or uploads")
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
	c, err := root.AppContainer.GetCampaign(factory.BPIUpdates, factory.Overrides{})
	if err != nil {
		return err
	}
	in, err := input.RunInput(root.AppConfig.Output.Directory)
	if err != nil {
		return err
	}
	in.Params.ReportDate = day
	in.Params.Mode = mode
	_, paths, err := common.RunCampaign(root.Context(cmd), deps, c, in)
	if err != nil {
		return err
	}
	common.PrintOutputs(cmd.OutOrStdout(), paths)
	return nil
}
