// Package diff classifies the baseline covered lines that lost coverage in a comparison view.
package diff

import "github.com/LambdaTest/covdiff/pkg/core"

// LineStatusMap maps package -> class -> line number -> status of one view.
// Empty lines are not recorded.
type LineStatusMap map[string]map[string]map[int]core.LineStatus

// NewLineStatusMap collects the line statuses of every class in bundle. Classes
// sharing a package and simple name have their statuses combined per line.
func NewLineStatusMap(bundle *core.BundleCoverage) LineStatusMap {
	m := make(LineStatusMap)
	if bundle == nil {
		return m
	}
	for _, p := range bundle.Packages {
		for _, c := range p.Classes {
			for _, l := range c.Lines {
				m.Set(p.Name, c.SimpleName(), l.Number, l.Status())
			}
		}
	}
	return m
}

// Set records status for the line, combining it with any status already
// present. Empty statuses are ignored.
func (m LineStatusMap) Set(pkg, class string, line int, status core.LineStatus) {
	if status == core.Empty {
		return
	}
	classes, ok := m[pkg]
	if !ok {
		classes = make(map[string]map[int]core.LineStatus)
		m[pkg] = classes
	}
	lines, ok := classes[class]
	if !ok {
		lines = make(map[int]core.LineStatus)
		classes[class] = lines
	}
	lines[line] |= status
}

// Status returns the status of the line and whether it is recorded.
func (m LineStatusMap) Status(pkg, class string, line int) (core.LineStatus, bool) {
	status, ok := m[pkg][class][line]
	return status, ok
}
