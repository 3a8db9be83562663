package presentation

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"filecopier/internal/domain"
)

type Printer struct {
	Writer  io.Writer
	Verbose bool
	NoColor bool
}

// PrintRequest echoes what a run is about to do, for confirmation.
func (p Printer) PrintRequest(req domain.TransferRequest) {
	fmt.Fprintf(p.Writer, "About to %s files\n\n", req.Mode)
	fmt.Fprintf(p.Writer, "  Source:          %s\n", req.SourceRoot)
	fmt.Fprintf(p.Writer, "  Destination:     %s\n", req.DestRoot)
	if req.Rule.IsZero() {
		fmt.Fprintf(p.Writer, "  Files:           all\n")
	}
	if len(req.Rule.Extensions) > 0 {
		fmt.Fprintf(p.Writer, "  Extensions:      %s\n", strings.Join(req.Rule.Extensions, ", "))
	}
	if len(req.Rule.Include) > 0 {
		fmt.Fprintf(p.Writer, "  Include:         %s\n", strings.Join(req.Rule.Include, ", "))
	}
	if len(req.Rule.Exclude) > 0 {
		fmt.Fprintf(p.Writer, "  Exclude:         %s\n", strings.Join(req.Rule.Exclude, ", "))
	}
	if len(req.Skip) > 0 {
		fmt.Fprintf(p.Writer, "  Skip:            %s\n", strings.Join(req.Skip, ", "))
	}
	fmt.Fprintf(p.Writer, "  Keep structure:  %s\n", yesNo(req.KeepStructure))
	fmt.Fprintf(p.Writer, "  Log file:        %s\n", yesNo(req.LogEnabled))
	fmt.Fprintln(p.Writer)
}

func (p Printer) PrintDryRun(plan domain.TransferPlan) {
	verb, heading := "Copy", "Copying:"
	if plan.Request.Mode == domain.ModeMove {
		verb, heading = "Move", "Moving:"
	}
	fmt.Fprintln(p.Writer, heading)
	fmt.Fprintln(p.Writer)

	for _, line := range formatPlanLines(verb, plan.Items, p.Verbose) {
		fmt.Fprintln(p.Writer, line)
	}

	fmt.Fprintln(p.Writer)
	fmt.Fprintf(p.Writer, "%d of %d files match.\n", len(plan.Items), plan.Enumerated)
	fmt.Fprintln(p.Writer, "Dry run, nothing was transferred.")
}

func (p Printer) PrintSummary(summary domain.Summary) {
	fmt.Fprintln(p.Writer)
	if summary.NoMatch {
		fmt.Fprintln(p.Writer, "No matching files.")
	} else {
		ok := p.color(color.FgGreen).Sprintf("%d processed", summary.Succeeded)
		failed := fmt.Sprintf("%d errored", summary.Failed)
		if summary.Failed > 0 {
			failed = p.color(color.FgRed).Sprint(failed)
		}
		fmt.Fprintf(p.Writer, "Done: %s, %s (%s).\n", ok, failed, humanize.Bytes(uint64(summary.Bytes)))
	}
	if summary.LogPath != "" {
		fmt.Fprintf(p.Writer, "Log written to %s\n", summary.LogPath)
	}

	if p.Verbose && summary.Failed > 0 {
		fmt.Fprintln(p.Writer)
		fmt.Fprintln(p.Writer, "Errors:")
		for _, outcome := range summary.Outcomes {
			if !outcome.OK() {
				fmt.Fprintf(p.Writer, "- %s: %s\n", outcome.Candidate.AbsolutePath, outcome.ErrorMessage())
			}
		}
	}
}

func (p Printer) color(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if p.NoColor {
		c.DisableColor()
	}
	return c
}

func formatPlanLines(verb string, items []domain.PlanItem, all bool) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s %s -> %s", verb, item.Candidate.RelativePath, item.DestPath))
	}

	if all || len(lines) <= 4 {
		return lines
	}
	head := lines[:2]
	tail := lines[len(lines)-2:]
	return append(append(head, "..."), tail...)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
