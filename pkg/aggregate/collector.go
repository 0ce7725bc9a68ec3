package aggregate

import "sort"

// ClassesWithCoverage records, per package, the classes with covered units in
// at least one of the visited views.
type ClassesWithCoverage map[string]map[string]struct{}

// NewClassesWithCoverage returns an empty collector.
func NewClassesWithCoverage() ClassesWithCoverage {
	return make(ClassesWithCoverage)
}

// Visit is a VisitFunc adding classes with covered units.
func (c ClassesWithCoverage) Visit(pkg, class string, info CoverageInfo) {
	if info.Covered == 0 {
		return
	}
	classes, ok := c[pkg]
	if !ok {
		classes = make(map[string]struct{})
		c[pkg] = classes
	}
	classes[class] = struct{}{}
}

// Contains reports whether the class had coverage.
func (c ClassesWithCoverage) Contains(pkg, class string) bool {
	_, ok := c[pkg][class]
	return ok
}

// Packages returns the packages holding classes with coverage, sorted.
func (c ClassesWithCoverage) Packages() []string {
	out := make([]string, 0, len(c))
	for pkg := range c {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out
}

// Classes returns the classes with coverage of pkg, sorted.
func (c ClassesWithCoverage) Classes(pkg string) []string {
	out := make([]string, 0, len(c[pkg]))
	for class := range c[pkg] {
		out = append(out, class)
	}
	sort.Strings(out)
	return out
}
