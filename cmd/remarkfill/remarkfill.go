// Package remarkfill handles the daily report remark-fill command
package remarkfill

import (
	"fmt"

	"github.com/spf13/cobra"

	"spmadrid/collections-reports/cmd/common"
	"spmadrid/collections-reports/cmd/root"
	"spmadrid/collections-reports/internal/factory"
	"spmadrid/collections-reports/internal/validation"
)

var (
	input         common.InputFlags
	template      string
	templateSheet string
	target        string
)

// Cmd represents the remark-fill command
var Cmd = &cobra.Command{
	Use:   "remark-fill",
	Short: "Write the latest remark of each account into a daily report template",
	Long: `Find the newest remark of every account in a remark export and write it, prefixed
with its date, into the --target column of the daily report --template.`,
	RunE: run,
}

func init() {
	input.Bind(Cmd)
	Cmd.Flags().StringVarP(&template, "template", "t", "", "Daily report workbook to fill")
	Cmd.Flags().StringVar(&templateSheet, "template-sheet", "", "Worksheet of the template (default first)")
	Cmd.Flags().StringVar(&target, "target", "", "Template column receiving the remarks")
	_ = Cmd.MarkFlagRequired("template")
	_ = Cmd.MarkFlagRequired("target")
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
	c, err := root.AppContainer.GetCampaign(factory.RemarkFill, factory.Overrides{})
	if err != nil {
		return err
	}
	in, err := input.RunInput(root.AppConfig.Output.Directory)
	if err != nil {
		return err
	}
	if err := validation.IsValidInput(template); err != nil {
		return fmt.Errorf("template: %w", err)
	}
	in.Template = template
	in.TemplateSheet = templateSheet
	in.Params.ReportDate = day
	in.Params.TargetColumn = target
	_, paths, err := common.RunCampaign(root.Context(cmd), deps, c, in)
	if err != nil {
		return err
	}
	common.PrintOutputs(cmd.OutOrStdout(), paths)
	return nil
}
