package diff

import (
	"sort"

	"github.com/LambdaTest/covdiff/pkg/core"
)

// LineDiff is one baseline covered line that lost coverage.
type LineDiff struct {
	Line   int             `json:"line"`
	Status core.LineStatus `json:"status"`
}

// ClassDiff holds the regressed lines of one class, ordered by line number.
type ClassDiff struct {
	Package       string          `json:"package"`
	Class         string          `json:"class"`
	Lines         []LineDiff      `json:"lines"`
	PartlyCovered int             `json:"partlyCovered"`
	NotCovered    int             `json:"notCovered"`
	Severity      core.LineStatus `json:"severity"`
}

// Result is the classification of a baseline/comparison pair, ordered by
// package, class and line.
type Result struct {
	Classes []ClassDiff `json:"classes"`
	lookup  LineStatusMap
}

// Classify compares every line the baseline covers at least partly with the
// comparison view. Lines fully covered in the comparison are left out, partly
// covered ones are classified partly-covered and all others not-covered. Lines
// missing from the baseline or not covered there never show up.
func Classify(baseline, comparison LineStatusMap) *Result {
	result := &Result{lookup: make(LineStatusMap)}
	for _, pkg := range sortedKeys(baseline) {
		classes := baseline[pkg]
		for _, class := range sortedKeys(classes) {
			diff := ClassDiff{Package: pkg, Class: class}
			lines := classes[class]
			numbers := make([]int, 0, len(lines))
			for n := range lines {
				numbers = append(numbers, n)
			}
			sort.Ints(numbers)

			for _, n := range numbers {
				if lines[n] == core.NotCovered {
					continue
				}
				status := classifyLine(comparison, pkg, class, n)
				if status == core.FullyCovered {
					continue
				}
				diff.add(n, status)
				result.lookup.Set(pkg, class, n, status)
			}
			if len(diff.Lines) > 0 {
				result.Classes = append(result.Classes, diff)
			}
		}
	}
	return result
}

func classifyLine(comparison LineStatusMap, pkg, class string, line int) core.LineStatus {
	status, ok := comparison.Status(pkg, class, line)
	switch {
	case ok && status == core.FullyCovered:
		return core.FullyCovered
	case ok && status == core.PartlyCovered:
		return core.PartlyCovered
	default:
		return core.NotCovered
	}
}

// add appends a line and updates the severity, not-covered dominates.
func (d *ClassDiff) add(line int, status core.LineStatus) {
	d.Lines = append(d.Lines, LineDiff{Line: line, Status: status})
	if status == core.NotCovered {
		d.NotCovered++
		d.Severity = core.NotCovered
		return
	}
	d.PartlyCovered++
	if d.Severity != core.NotCovered {
		d.Severity = core.PartlyCovered
	}
}

// Lookup returns the classification of a line, false when the line did not regress.
func (r *Result) Lookup(pkg, class string, line int) (core.LineStatus, bool) {
	return r.lookup.Status(pkg, class, line)
}

// Class returns the diff of one class.
func (r *Result) Class(pkg, class string) (*ClassDiff, bool) {
	i := sort.Search(len(r.Classes), func(i int) bool {
		c := r.Classes[i]
		return c.Package > pkg || (c.Package == pkg && c.Class >= class)
	})
	if i < len(r.Classes) && r.Classes[i].Package == pkg && r.Classes[i].Class == class {
		return &r.Classes[i], true
	}
	return nil, false
}

// Totals returns the number of partly-covered and not-covered lines over all classes.
func (r *Result) Totals() (partly, notCovered int) {
	for _, c := range r.Classes {
		partly += c.PartlyCovered
		notCovered += c.NotCovered
	}
	return partly, notCovered
}

// Empty reports whether no line regressed.
func (r *Result) Empty() bool {
	return len(r.Classes) == 0
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
