package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"filecopier/internal/app"
	"filecopier/internal/config"
	"filecopier/internal/domain"
	appErrors "filecopier/internal/errors"
	"filecopier/internal/infra/fs"
	"filecopier/internal/logging"
	"filecopier/internal/presentation"
	"filecopier/internal/tui"
)

type rootOptions struct {
	configFile string
	flags      config.Config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "filecopier SOURCE DEST [EXT...]",
		Short: "Copy or move files selected by extension and name keywords",
		Long: `Walks SOURCE recursively and copies (or moves) every file whose extension
is one of EXT and whose name matches the keyword rules into DEST.

Without EXT every extension qualifies. Include keywords require at least one
match in the file name, exclude keywords reject the file on any match.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, args)
			if err != nil {
				return err
			}
			if cfg.ListDir != "" {
				return runAnalyze(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.ListDir, cfg.Tabbed, cfg.Verbose)
			}
			return runTransfer(cmd, cfg)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return appErrors.Wrap(appErrors.InvalidConfig, "flags", "", err)
	})

	f := cmd.Flags()
	f.StringSliceVarP(&opts.flags.Include, config.FlagInclude, "i", nil, "keywords the file name must contain (any)")
	f.StringSliceVarP(&opts.flags.Exclude, config.FlagExclude, "e", nil, "keywords that reject the file name (any)")
	f.StringSliceVar(&opts.flags.Skip, config.FlagSkip, nil, "glob patterns (relative to SOURCE) to leave out of the walk")
	f.BoolVarP(&opts.flags.Move, config.FlagMove, "x", false, "move files instead of copying")
	f.BoolVarP(&opts.flags.KeepStructure, config.FlagKeep, "k", false, "recreate the source folder structure under DEST")
	f.BoolVar(&opts.flags.NoLog, config.FlagNoLog, false, "do not write an operation log into DEST")
	f.BoolVar(&opts.flags.DryRun, config.FlagDryRun, false, "show what would be transferred without doing it")
	f.BoolVarP(&opts.flags.Yes, config.FlagYes, "y", false, "do not ask for confirmation")
	f.BoolVar(&opts.flags.TUI, config.FlagTUI, false, "show progress in an interactive view")
	f.StringVarP(&opts.flags.ListDir, config.FlagList, "l", "", "print the file type breakdown of a directory and exit")
	f.BoolVar(&opts.flags.Tabbed, config.FlagTabbed, false, "tab-separated output for --list")
	f.StringVarP(&opts.configFile, config.FlagConfig, "c", "", "YAML job file")
	cmd.PersistentFlags().BoolVarP(&opts.flags.Verbose, config.FlagVerbose, "v", false, "verbose output")

	cmd.AddCommand(newAnalyzeCommand(&opts.flags.Verbose))

	return cmd
}

// load merges positional arguments and flags over the job file and environment.
func (o *rootOptions) load(cmd *cobra.Command, args []string) (config.Config, error) {
	flags := o.flags
	if len(args) > 0 {
		flags.SourceDir = args[0]
	}
	if len(args) > 1 {
		flags.TargetDir = args[1]
	}
	if len(args) > 2 {
		flags.Extensions = args[2:]
	}

	cfg, err := config.Load(o.configFile, flags, cmd.Flags().Changed)
	if err != nil {
		return config.Config{}, appErrors.Wrap(appErrors.InvalidConfig, "config", o.configFile, err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, appErrors.Wrap(appErrors.InvalidConfig, "config", "", err)
	}
	return cfg, nil
}

func runTransfer(cmd *cobra.Command, cfg config.Config) error {
	ctx := cmd.Context()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	logger := logging.New(errOut, cfg.Verbose)
	filesystem := fs.OSFS{}
	req := cfg.Request()
	printer := presentation.Printer{Writer: out, Verbose: cfg.Verbose}

	if cfg.DryRun {
		planner := app.Planner{FS: filesystem, Logger: logger}
		validated, err := planner.Validate(req)
		if err != nil {
			return err
		}
		plan, err := planner.Plan(ctx, validated)
		if err != nil {
			return err
		}
		printer.PrintDryRun(plan)
		return nil
	}

	if cfg.TUI {
		return runTUI(ctx, filesystem, req, cfg.Verbose)
	}

	if !cfg.Yes {
		printer.PrintRequest(req)
		confirmed, err := confirm(cmd.InOrStdin(), out)
		if err != nil {
			return appErrors.Wrap(appErrors.Internal, "prompt", "", err)
		}
		if !confirmed {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	orchestrator := app.Orchestrator{
		FS:     filesystem,
		Sink:   presentation.ConsoleSink{Writer: out, ErrWriter: errOut},
		Logger: logger,
	}
	summary, err := orchestrator.Run(ctx, req)
	if err != nil {
		return err
	}

	printer.PrintSummary(summary)
	if summary.Failed > 0 {
		return errFilesFailed
	}
	return nil
}

// runTUI drives the batch and the interactive view side by side. The batch
// always runs to completion even if the view is closed early.
func runTUI(ctx context.Context, filesystem fs.OSFS, req domain.TransferRequest, verbose bool) error {
	model := tui.NewModel(tui.Config{
		SourceDir: req.SourceRoot,
		TargetDir: req.DestRoot,
		Mode:      req.Mode,
		Verbose:   verbose,
	})
	program := tea.NewProgram(model)

	var summary domain.Summary
	var g errgroup.Group
	g.Go(func() error {
		orchestrator := app.Orchestrator{
			FS:   filesystem,
			Sink: tui.ProgramSink{Program: program},
		}
		s, err := orchestrator.Run(ctx, req)
		if err != nil {
			program.Send(tui.ErrorMsg{Err: errors.New(appErrors.UserMessage(err))})
			return err
		}
		summary = s
		program.Send(tui.DoneMsg{Summary: s})
		return nil
	})
	g.Go(func() error {
		_, err := program.Run()
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return errFilesFailed
	}
	return nil
}

func confirm(in io.Reader, out io.Writer) (bool, error) {
	reader := bufio.NewReader(in)
	fmt.Fprint(out, "Proceed? [y/N]: ")
	answer, err := reader.ReadString('\n')
	if err != nil && answer == "" {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}
