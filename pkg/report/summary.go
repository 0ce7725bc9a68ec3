package report

import (
	"fmt"

	"github.com/LambdaTest/covdiff/pkg/aggregate"
	"github.com/LambdaTest/covdiff/pkg/global"
)

// Cell is the coverage of one row in one suite column.
type Cell struct {
	Covered int     `json:"covered"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// Row is one line of a summary table.
type Row struct {
	Package string `json:"package,omitempty"`
	Label   string `json:"label"`
	// Href links the class page, empty when the class has none.
	Href  string `json:"href,omitempty"`
	Cells []Cell `json:"cells"`
	// Different is set when the first two suites cover a different number of units.
	Different bool `json:"different"`
	// Color is the background of the percent cells.
	Color string `json:"color"`
}

// PackageTable lists the classes with coverage of one package.
type PackageTable struct {
	Name  string `json:"name"`
	Rows  []Row  `json:"rows"`
	Total Row    `json:"total"`
}

// Summary is the per-suite coverage part of the index page.
type Summary struct {
	Titles   []string       `json:"titles"`
	Unit     string         `json:"unit"`
	Totals   Row            `json:"totals"`
	Packages []PackageTable `json:"packages"`
}

// BuildSummary lays out the coverage trees of every suite, followed by the
// merged tree, for the classes that had coverage in any view.
func BuildSummary(titles []string, unit aggregate.Unit, trees []*aggregate.CoverageInfo, classes aggregate.ClassesWithCoverage) Summary {
	columns := make([]string, 0, len(trees))
	columns = append(columns, titles...)
	columns = append(columns, global.UnionCoverageTitle)

	totalLabel := fmt.Sprintf("Total %s coverage", unit)
	summary := Summary{
		Titles: columns,
		Unit:   unit.String(),
		Totals: newRow("", totalLabel, trees, global.TotalRowColor),
	}
	summary.Totals.Different = false
	for _, pkg := range classes.Packages() {
		nodes := children(trees, pkg)
		table := PackageTable{Name: pkg, Total: newRow(pkg, totalLabel, nodes, global.TotalRowColor)}
		for _, class := range classes.Classes(pkg) {
			table.Rows = append(table.Rows, newRow(pkg, class, children(nodes, class), global.ClassRowColor))
		}
		summary.Packages = append(summary.Packages, table)
	}
	return summary
}

func children(nodes []*aggregate.CoverageInfo, name string) []*aggregate.CoverageInfo {
	out := make([]*aggregate.CoverageInfo, len(nodes))
	for i, n := range nodes {
		out[i] = n.Child(name)
	}
	return out
}

func newRow(pkg, label string, nodes []*aggregate.CoverageInfo, color string) Row {
	row := Row{Package: pkg, Label: label, Color: color}
	for _, n := range nodes {
		row.Cells = append(row.Cells, Cell{Covered: n.Covered, Total: n.Total, Percent: n.Percent()})
	}
	if len(row.Cells) > 1 && row.Cells[0].Covered != row.Cells[1].Covered {
		row.Different = true
	}
	return row
}
