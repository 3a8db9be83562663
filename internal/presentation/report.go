package presentation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"filecopier/internal/domain"
)

const tabbedSeparatorWidth = 64

// PrintReport renders a directory type breakdown, either as a terminal
// table or as tab-separated columns for consumers that align on tabs.
func (p Printer) PrintReport(report domain.TypeReport, tabbed bool) error {
	fmt.Fprintf(p.Writer, "\nFile types in %q\n", report.Directory)
	fmt.Fprintf(p.Writer, "Total files: %d\n\n", report.Total)

	if tabbed {
		sep := strings.Repeat("-", tabbedSeparatorWidth)
		fmt.Fprintln(p.Writer, sep)
		fmt.Fprintln(p.Writer, "Type\tCount\tPercent")
		fmt.Fprintln(p.Writer, sep)
		for _, stat := range report.Stats {
			fmt.Fprintf(p.Writer, "%s\t%d\t%s\n", stat.Extension, stat.Count, formatPercent(stat.Percentage))
		}
		fmt.Fprintln(p.Writer, sep)
		return nil
	}

	data := pterm.TableData{{"Type", "Count", "Percent"}}
	for _, stat := range report.Stats {
		data = append(data, []string{stat.Extension, strconv.Itoa(stat.Count), formatPercent(stat.Percentage)})
	}
	table, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithRightAlignment().
		WithData(data).
		Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(p.Writer, table)
	return nil
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
