// Package clean handles the generic sheet clean-up command
package clean

import (
	"github.com/spf13/cobra"

	"spmadrid/collections-reports/cmd/common"
	"spmadrid/collections-reports/cmd/root"
	"spmadrid/collections-reports/internal/campaign"
	"spmadrid/collections-reports/internal/factory"
)

var (
	input common.InputFlags
	opts  campaign.CleanOptions
)

// Cmd represents the clean command
var Cmd = &cobra.Command{
	Use:   "clean",
	Short: "Trim, de-duplicate and re-export any sheet",
	Long:  `Re-export any sheet after trimming cells and, optionally, dropping blank or duplicate rows and sanitizing headers.`,
	RunE:  run,
}

func init() {
	input.Bind(Cmd)
	Cmd.Flags().BoolVar(&opts.DropBlankRows, "drop-blank", false, "Drop rows whose cells are all blank")
	Cmd.Flags().BoolVar(&opts.DropDuplicates, "drop-duplicates", false, "Drop exact duplicate rows")
	Cmd.Flags().BoolVar(&opts.SanitizeHeaders, "sanitize-headers", false, "Replace header characters outside [A-Za-z0-9_] with '_'")
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
	c, err := root.AppContainer.GetCampaign(factory.Clean, factory.Overrides{Clean: opts})
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
