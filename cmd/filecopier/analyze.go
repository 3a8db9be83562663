package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"filecopier/internal/app"
	"filecopier/internal/infra/fs"
	"filecopier/internal/logging"
	"filecopier/internal/presentation"
)

func newAnalyzeCommand(verbose *bool) *cobra.Command {
	var tabbed bool

	cmd := &cobra.Command{
		Use:   "analyze DIR",
		Short: "Print how many files of each type a directory holds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], tabbed, *verbose)
		},
	}
	cmd.Flags().BoolVar(&tabbed, "tabbed", false, "tab-separated output")

	return cmd
}

func runAnalyze(ctx context.Context, out, errOut io.Writer, dir string, tabbed, verbose bool) error {
	analyzer := app.Analyzer{
		FS:     fs.OSFS{},
		Logger: logging.New(errOut, verbose),
	}
	report, err := analyzer.Analyze(ctx, dir)
	if err != nil {
		return err
	}

	printer := presentation.Printer{Writer: out, Verbose: verbose}
	return printer.PrintReport(report, tabbed)
}
