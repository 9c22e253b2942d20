package common

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"spmadrid/collections-reports/internal/container"
	"spmadrid/collections-reports/internal/validation"
)

// InputFlags are the input flags every report command takes.
type InputFlags struct {
	Input    string
	Sheet    string
	Password string
}

// Bind registers the flags on cmd and marks --input required.
func (f *InputFlags) Bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Input, "input", "i", "", "Input workbook or CSV")
	cmd.Flags().StringVarP(&f.Sheet, "sheet", "s", "", "Worksheet to read (default first)")
	cmd.Flags().StringVar(&f.Password, "password", "", "Password of an encrypted workbook")
	_ = cmd.MarkFlagRequired("input")
}

// RunInput checks the input file and output directory and returns the run input for
// these flags. A missing output directory is created.
func (f *InputFlags) RunInput(outputDir string) (RunInput, error) {
	if err := validation.IsValidInput(f.Input); err != nil {
		return RunInput{}, err
	}
	if err := validation.EnsureOutputDir(outputDir); err != nil {
		return RunInput{}, err
	}
	return RunInput{Input: f.Input, Sheet: f.Sheet, Password: f.Password, OutputDir: outputDir}, nil
}

// FromContainer builds the run dependencies from the application container.
func FromContainer(c *container.Container, warnings io.Writer) (Deps, error) {
	if c == nil {
		return Deps{}, fmt.Errorf("dependencies not initialized")
	}
	return Deps{
		Reader:   c.GetReader(),
		Loader:   c.GetLoader(),
		Writer:   c.GetWriter(),
		Logger:   c.GetLogger(),
		Warnings: warnings,
	}, nil
}

var okColor = color.New(color.FgGreen)

// PrintOutputs lists the written workbooks.
func PrintOutputs(w io.Writer, paths []string) {
	if len(paths) == 0 {
		_, _ = fmt.Fprintln(w, "No workbooks written.")
		return
	}
	for _, p := range paths {
		_, _ = okColor.Fprintf(w, "  → %s\n", p)
	}
}
