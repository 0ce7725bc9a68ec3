package core

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

// ClassID is the identity hash of one compiled class.
type ClassID uint64

func (id ClassID) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// ParseClassID parses the 16 hex digit form produced by ClassID.String.
func ParseClassID(s string) (ClassID, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid class id %q: %w", s, err)
	}
	return ClassID(v), nil
}

// ExecutionRecord carries the probe hits of one class for one test-suite execution.
type ExecutionRecord struct {
	ID     ClassID
	Name   string
	Probes []bool
}

// Hit reports whether probe i was executed. Out of range probes count as missed.
func (r *ExecutionRecord) Hit(i int) bool {
	return i >= 0 && i < len(r.Probes) && r.Probes[i]
}

// HitCount returns the number of executed probes.
func (r *ExecutionRecord) HitCount() int {
	n := 0
	for _, p := range r.Probes {
		if p {
			n++
		}
	}
	return n
}

// SessionInfo describes the recording session an execution record file was dumped from.
type SessionInfo struct {
	ID    string
	Start time.Time
	Dump  time.Time
}

// Counter holds missed and covered units of one kind.
type Counter struct {
	Missed  int `json:"missed"`
	Covered int `json:"covered"`
}

// Total returns missed plus covered.
func (c Counter) Total() int {
	return c.Missed + c.Covered
}

// Add returns the sum of both counters.
func (c Counter) Add(o Counter) Counter {
	return Counter{Missed: c.Missed + o.Missed, Covered: c.Covered + o.Covered}
}

// Status maps a counter onto a line status.
func (c Counter) Status() LineStatus {
	status := Empty
	if c.Missed > 0 {
		status |= NotCovered
	}
	if c.Covered > 0 {
		status |= FullyCovered
	}
	return status
}

// Line is the coverage of one source line.
type Line struct {
	Number       int     `json:"number"`
	Instructions Counter `json:"instructions"`
	Branches     Counter `json:"branches"`
}

// Status combines the instruction and branch counters of the line.
func (l Line) Status() LineStatus {
	if l.Instructions.Total() == 0 {
		return Empty
	}
	return l.Instructions.Status() | l.Branches.Status()
}

// ClassCoverage is the analyzed coverage of one class.
type ClassCoverage struct {
	ID ClassID
	// Name is the VM name, e.g. com/acme/Foo$Inner.
	Name       string
	SourceFile string
	Lines      []Line
	// NoMatch is set when an execution record exists for the class name but
	// not for this class identity.
	NoMatch bool
}

// PackageName returns the dotted package name of the class.
func (c *ClassCoverage) PackageName() string {
	dir := path.Dir(c.Name)
	if dir == "." {
		return ""
	}
	return strings.ReplaceAll(dir, "/", ".")
}

// SimpleName returns the class name without its package.
func (c *ClassCoverage) SimpleName() string {
	return path.Base(c.Name)
}

// LineCounter counts lines: partly and fully covered lines are covered.
func (c *ClassCoverage) LineCounter() Counter {
	var counter Counter
	for _, l := range c.Lines {
		switch l.Status() {
		case NotCovered:
			counter.Missed++
		case PartlyCovered, FullyCovered:
			counter.Covered++
		}
	}
	return counter
}

// BranchCounter sums the branch counters of all lines.
func (c *ClassCoverage) BranchCounter() Counter {
	var counter Counter
	for _, l := range c.Lines {
		counter = counter.Add(l.Branches)
	}
	return counter
}

// InstructionCounter sums the instruction counters of all lines.
func (c *ClassCoverage) InstructionCounter() Counter {
	var counter Counter
	for _, l := range c.Lines {
		counter = counter.Add(l.Instructions)
	}
	return counter
}

// PackageCoverage groups the classes of one package in extractor order.
type PackageCoverage struct {
	Name    string
	Classes []*ClassCoverage
}

// BundleCoverage is one coverage view: packages and classes in extractor order.
// It is read-only once built.
type BundleCoverage struct {
	Name     string
	Packages []*PackageCoverage
}

// ClassCount returns the number of classes in the bundle.
func (b *BundleCoverage) ClassCount() int {
	n := 0
	for _, p := range b.Packages {
		n += len(p.Classes)
	}
	return n
}

// ClassResult is the outcome of analyzing one class artifact: either a coverage
// value or the reason the class was skipped.
type ClassResult struct {
	Location string
	Coverage *ClassCoverage
	Err      error
}

// Skipped reports whether the class was left out of the view.
func (r ClassResult) Skipped() bool {
	return r.Err != nil
}

// NewBundle groups successful results into packages, keeping first-seen order.
// It returns the skipped results separately.
func NewBundle(name string, results []ClassResult) (*BundleCoverage, []ClassResult) {
	bundle := &BundleCoverage{Name: name}
	packages := make(map[string]*PackageCoverage)
	var skipped []ClassResult
	for _, r := range results {
		if r.Skipped() {
			skipped = append(skipped, r)
			continue
		}
		if r.Coverage == nil {
			continue
		}
		pkgName := r.Coverage.PackageName()
		pkg, ok := packages[pkgName]
		if !ok {
			pkg = &PackageCoverage{Name: pkgName}
			packages[pkgName] = pkg
			bundle.Packages = append(bundle.Packages, pkg)
		}
		pkg.Classes = append(pkg.Classes, r.Coverage)
	}
	return bundle, skipped
}

// ClassFilter is an immutable set of class identities. A nil filter allows every class.
type ClassFilter map[ClassID]struct{}

// Allows reports whether the class identity passes the filter.
func (f ClassFilter) Allows(id ClassID) bool {
	if f == nil {
		return true
	}
	_, ok := f[id]
	return ok
}
