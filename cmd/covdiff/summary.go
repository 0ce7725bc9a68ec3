package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/LambdaTest/covdiff/pkg/core"
	"github.com/LambdaTest/covdiff/pkg/global"
	"github.com/LambdaTest/covdiff/pkg/report"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	okStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#6ece58"))
	notCoveredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(global.NotCoveredColor))
	partlyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(global.PartlyCoveredColor))
	boxStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// printSummary writes the per-suite totals and the regressed classes of rep to w.
func printSummary(w io.Writer, rep *report.Report, locations []string) error {
	_, err := fmt.Fprintln(w, renderSummary(rep, locations))
	return err
}

func renderSummary(rep *report.Report, locations []string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(global.ReportTitle))
	b.WriteString("\n\n")

	for i, title := range rep.Summary.Titles {
		if i >= len(rep.Summary.Totals.Cells) {
			break
		}
		cell := rep.Summary.Totals.Cells[i]
		fmt.Fprintf(&b, "%-24s %6.2f%%  %d of %d %s\n", title, cell.Percent, cell.Covered, cell.Total, rep.Summary.Unit)
	}
	b.WriteString("\n")

	if len(rep.Index) == 0 {
		b.WriteString(okStyle.Render("No covered line lost coverage."))
		b.WriteString("\n")
	} else {
		partly, notCovered := rep.Diff.Totals()
		fmt.Fprintf(&b, "%d classes regressed: %d lines not covered, %d partly covered\n",
			len(rep.Index), notCovered, partly)
		for _, entry := range rep.Index {
			style := partlyStyle
			if entry.Severity == core.NotCovered {
				style = notCoveredStyle
			}
			fmt.Fprintf(&b, "  %s  %d not covered, %d partly covered\n",
				style.Render(qualifiedName(entry.Package, entry.Class)), entry.NotCovered, entry.PartlyCovered)
		}
	}

	fmt.Fprintf(&b, "\nReport: %s", filepath.Join(rep.Dir, global.IndexFileName))
	for _, location := range locations {
		fmt.Fprintf(&b, "\nPublished: %s", location)
	}
	return boxStyle.Render(b.String())
}

func qualifiedName(pkg, class string) string {
	if pkg == "" {
		return class
	}
	return pkg + "." + class
}
